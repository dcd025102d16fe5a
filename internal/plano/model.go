// internal/plano/model.go
package plano

import "gorm.io/gorm"

// Plano representa um plano de saúde pet comercializável.
// As flags controlam as regras de cobrança aplicadas no checkout:
//   - CobrancaAnual: o plano só aceita periodicidade anual
//   - DescontoMultiPet: habilita a escada de desconto por pet adicional
//   - ParcelaUnica: cartão de crédito limitado a 1 parcela
type Plano struct {
	gorm.Model
	Nome             string  `gorm:"size:255;not null" json:"nome"`
	Codigo           string  `gorm:"size:50;not null;uniqueIndex" json:"codigo"` // ex: "BASIC", "COMFORT"
	Descricao        string  `json:"descricao"`
	ValorBase        float64 `gorm:"not null;default:0" json:"valorBase"` // valor mensal por pet
	CobrancaAnual    bool    `gorm:"not null;default:false" json:"cobrancaAnual"`
	DescontoMultiPet bool    `gorm:"not null;default:false" json:"descontoMultiPet"`
	ParcelaUnica     bool    `gorm:"not null;default:false" json:"parcelaUnica"`
	Ativo            bool    `gorm:"not null;default:true" json:"ativo"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Plano{})
}
