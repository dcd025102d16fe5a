// internal/parcela/model.go
package parcela

import (
	"time"

	"gorm.io/gorm"
)

// Status de uma parcela. "paga" é terminal; os demais são recalculados na
// leitura a partir das datas (uma pendente com vencimento passado é exibida
// como vencida, sem mutação no banco).
const (
	StatusPendente = "pendente"
	StatusVigente  = "vigente"
	StatusPaga     = "paga"
	StatusVencida  = "vencida"
)

// Parcela é a cobrança de um período de um contrato.
//
// Invariantes do razão de parcelas:
//   - Numero é 1-based, monotônico e único por contrato (índice único abaixo);
//   - os períodos são contíguos: InicioPeriodo da parcela N+1 =
//     FimPeriodo da parcela N + 1 dia;
//   - no máximo uma parcela não paga existe por contrato a qualquer momento.
type Parcela struct {
	gorm.Model
	ContratoID uint `gorm:"not null;uniqueIndex:idx_contrato_numero" json:"contratoId"`
	Numero     int  `gorm:"not null;uniqueIndex:idx_contrato_numero" json:"numero"`

	DataVencimento time.Time `gorm:"not null;index" json:"dataVencimento"`
	InicioPeriodo  time.Time `gorm:"not null" json:"inicioPeriodo"`
	FimPeriodo     time.Time `gorm:"not null" json:"fimPeriodo"`

	Valor         float64    `gorm:"not null;default:0" json:"valor"`
	Status        string     `gorm:"size:50;not null;default:'pendente';index" json:"status"`
	DataPagamento *time.Time `json:"dataPagamento"`

	PaymentID string `gorm:"size:100;index" json:"paymentId"`
	ReciboID  string `gorm:"size:100" json:"reciboId"`

	// Virtual marca projeções de exibição que ainda não existem no banco.
	Virtual bool `gorm:"-" json:"virtual,omitempty"`
}

// StatusEfetivo reclassifica a parcela pela data, sem tocar no banco:
// antes do vencimento é pendente, dentro do período coberto é vigente,
// depois do fim do período sem pagamento é vencida.
func (p *Parcela) StatusEfetivo(agora time.Time) string {
	if p.Status == StatusPaga {
		return StatusPaga
	}
	if agora.Before(p.DataVencimento) {
		return StatusPendente
	}
	if !agora.After(p.FimPeriodo) {
		return StatusVigente
	}
	return StatusVencida
}

// Paga indica se a parcela atingiu o estado terminal.
func (p *Parcela) Paga() bool {
	return p.Status == StatusPaga
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Parcela{})
}
