// internal/cupom/model.go
package cupom

import (
	"time"

	"gorm.io/gorm"
)

// Tipos de desconto.
const (
	TipoPercentual = "percentual"
	TipoFixo       = "fixo"
)

// Cupom de desconto aplicado uma vez por checkout. O contador de usos sobe
// exatamente uma vez por pagamento aprovado, independente de quantos pets ou
// parcelas o pedido tiver.
type Cupom struct {
	gorm.Model
	Codigo     string     `gorm:"size:50;not null;uniqueIndex" json:"codigo"`
	Tipo       string     `gorm:"size:20;not null" json:"tipo"` // "percentual" ou "fixo"
	Valor      float64    `gorm:"not null;default:0" json:"valor"`
	Usos       int        `gorm:"not null;default:0" json:"usos"`
	LimiteUsos int        `gorm:"not null;default:0" json:"limiteUsos"` // 0 = sem limite
	Validade   *time.Time `json:"validade"`
	Ativo      bool       `gorm:"not null;default:true" json:"ativo"`
}

// Disponivel verifica validade, ativação e limite de usos.
func (c *Cupom) Disponivel(agora time.Time) bool {
	if !c.Ativo {
		return false
	}
	if c.Validade != nil && agora.After(*c.Validade) {
		return false
	}
	if c.LimiteUsos > 0 && c.Usos >= c.LimiteUsos {
		return false
	}
	return true
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Cupom{})
}
