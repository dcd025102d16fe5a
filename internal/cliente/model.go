// internal/cliente/model.go
package cliente

import (
	"gorm.io/gorm"

	"github.com/VidaPet/api-assinaturas/internal/pet"
)

// Cliente é o tutor responsável pelos pets e pelos contratos.
// Temporario marca registros criados na etapa 1 do checkout, antes do
// pagamento; um temporário que colidir por CPF com um cliente definitivo é
// descartado em favor do registro pré-existente.
type Cliente struct {
	gorm.Model
	Nome      string `gorm:"size:255;not null" json:"nome"`
	Sobrenome string `gorm:"size:255" json:"sobrenome"`
	// CPF só chega na etapa 2 do checkout; até lá fica NULL, porque vários
	// temporários sem documento não podem colidir no índice único.
	CPF        *string `gorm:"size:14;uniqueIndex" json:"cpf,omitempty"`
	Email      string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Telefone   string  `gorm:"size:20" json:"telefone"`
	Senha      string  `json:"-"`
	Temporario bool    `gorm:"not null;default:false" json:"-"`
	Admin      bool    `gorm:"not null;default:false" json:"-"`

	// Endereço (etapa 2 do checkout)
	CEP         string `gorm:"size:9" json:"cep"`
	Logradouro  string `gorm:"size:255" json:"logradouro"`
	Numero      string `gorm:"size:20" json:"numero"`
	Complemento string `gorm:"size:255" json:"complemento"`
	Bairro      string `gorm:"size:255" json:"bairro"`
	Cidade      string `gorm:"size:255" json:"cidade"`
	Estado      string `gorm:"size:2" json:"estado"`

	Pets []pet.Pet `gorm:"foreignKey:ClienteID" json:"pets,omitempty"`
}

// Documento devolve o CPF normalizado ou vazio quando ainda não informado.
func (c *Cliente) Documento() string {
	if c.CPF == nil {
		return ""
	}
	return *c.CPF
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Cliente{})
}
