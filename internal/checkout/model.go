// internal/checkout/model.go
package checkout

import "gorm.io/gorm"

// Etapas do assistente de checkout.
const (
	EtapaDadosCliente = 1
	EtapaCadastro     = 2
)

// Sessao guarda o estado do assistente de checkout entre as etapas.
// Na etapa 1 um cliente temporário é criado (preciso dele para tentar a
// cobrança); pets e contratos só nascem depois do pagamento.
type Sessao struct {
	gorm.Model
	Token         string `gorm:"size:64;not null;uniqueIndex" json:"token"`
	ClienteID     uint   `gorm:"not null;index" json:"clienteId"`
	PlanoID       uint   `gorm:"not null" json:"planoId"`
	Periodicidade string `gorm:"size:20;not null" json:"periodicidade"`
	PetsJSON      string `gorm:"type:text" json:"-"` // pets declarados, ainda não persistidos
	CupomCodigo   string `gorm:"size:50" json:"cupomCodigo"`
	PaymentID     string `gorm:"size:100;index" json:"-"`
	Etapa         int    `gorm:"not null;default:1" json:"etapa"`
	Concluida     bool   `gorm:"not null;default:false" json:"concluida"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Sessao{})
}
