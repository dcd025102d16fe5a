// internal/parcela/repository.go
package parcela

import (
	"time"

	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de parcelas.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB retorna uma cópia do repo usando um *gorm.DB específico (ex.: tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

func (r *Repository) Criar(p *Parcela) error {
	return r.DB.Create(p).Error
}

func (r *Repository) FindByID(id uint) (*Parcela, error) {
	var p Parcela
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByContratoID devolve as parcelas do contrato em ordem de número.
func (r *Repository) ListByContratoID(contratoID uint) ([]Parcela, error) {
	var parcelas []Parcela
	err := r.DB.
		Where("contrato_id = ?", contratoID).
		Order("numero ASC").
		Find(&parcelas).Error
	return parcelas, err
}

// ListByClienteID devolve as parcelas de todos os contratos do cliente.
func (r *Repository) ListByClienteID(clienteID uint) ([]Parcela, error) {
	var parcelas []Parcela
	err := r.DB.
		Table("parcelas").
		Select("parcelas.*").
		Joins("JOIN contratos ON contratos.id = parcelas.contrato_id").
		Where("contratos.cliente_id = ? AND contratos.deleted_at IS NULL", clienteID).
		Order("parcelas.data_vencimento ASC").
		Find(&parcelas).Error
	return parcelas, err
}

// ListNaoPagasPorPaymentID localiza as parcelas ainda não pagas atreladas a um
// pagamento do gateway. Um pagamento pode cobrir várias parcelas (multi-pet).
func (r *Repository) ListNaoPagasPorPaymentID(paymentID string) ([]Parcela, error) {
	var parcelas []Parcela
	err := r.DB.
		Where("payment_id = ? AND status <> ?", paymentID, StatusPaga).
		Find(&parcelas).Error
	return parcelas, err
}

// ExisteNaoPagaNoContrato verifica se o contrato tem alguma parcela não
// terminal além da informada — a trava de idempotência da criação da próxima.
func (r *Repository) ExisteNaoPagaNoContrato(contratoID uint, excetoID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&Parcela{}).
		Where("contrato_id = ? AND status <> ? AND id <> ?", contratoID, StatusPaga, excetoID).
		Count(&count).Error
	return count > 0, err
}

// MarcarPaga promove a parcela a paga exatamente uma vez: a cláusula
// status <> 'paga' faz o segundo gatilho (webhook duplicado, corrida entre
// polling e webhook) não afetar linha alguma.
func (r *Repository) MarcarPaga(id uint, pagaEm time.Time) (bool, error) {
	res := r.DB.Model(&Parcela{}).
		Where("id = ? AND status <> ?", id, StatusPaga).
		Updates(map[string]interface{}{
			"status":         StatusPaga,
			"data_pagamento": &pagaEm,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateReciboID grava o recibo unificado na parcela.
func (r *Repository) UpdateReciboID(id uint, reciboID string) error {
	return r.DB.Model(&Parcela{}).Where("id = ?", id).Update("recibo_id", reciboID).Error
}

// UpdatePaymentID amarra a parcela a uma nova tentativa de pagamento.
func (r *Repository) UpdatePaymentID(id uint, paymentID string) error {
	return r.DB.Model(&Parcela{}).Where("id = ?", id).Update("payment_id", paymentID).Error
}

// MaxNumero devolve o maior número de parcela já emitido para o contrato.
func (r *Repository) MaxNumero(contratoID uint) (int, error) {
	var max int
	err := r.DB.Model(&Parcela{}).
		Where("contrato_id = ?", contratoID).
		Select("COALESCE(MAX(numero), 0)").
		Scan(&max).Error
	return max, err
}
