// internal/pet/model.go
package pet

import (
	"time"

	"gorm.io/gorm"
)

// Pet é criado somente após a aprovação do pagamento que o cobre, nunca
// especulativamente — um pagamento recusado não pode deixar pet órfão.
type Pet struct {
	gorm.Model
	ClienteID  uint       `gorm:"not null;index" json:"clienteId"`
	Nome       string     `gorm:"size:255;not null" json:"nome"`
	Especie    string     `gorm:"size:50" json:"especie"` // "cachorro", "gato"...
	Raca       string     `gorm:"size:100" json:"raca"`
	Sexo       string     `gorm:"size:10" json:"sexo"`
	Nascimento *time.Time `json:"nascimento"`
	Peso       float64    `json:"peso"`
	Castrado   bool       `json:"castrado"`
	Foto       string     `json:"foto"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Pet{})
}
