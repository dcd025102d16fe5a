// internal/contrato/repository.go
package contrato

import (
	"time"

	"gorm.io/gorm"
)

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

func (r *Repository) Criar(c *Contrato) error {
	return r.DB.Create(c).Error
}

func (r *Repository) FindByID(id uint) (*Contrato, error) {
	var c Contrato
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) FindByNumero(numero string) (*Contrato, error) {
	var c Contrato
	if err := r.DB.Where("numero_contrato = ?", numero).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListarPorCliente(clienteID uint) ([]Contrato, error) {
	var contratos []Contrato
	err := r.DB.Where("cliente_id = ?", clienteID).Order("data_inicio DESC").Find(&contratos).Error
	return contratos, err
}

// ListarPorPaymentID localiza contratos atrelados a um pagamento do gateway.
// Um único pagamento pode cobrir vários contratos (carrinho multi-pet).
func (r *Repository) ListarPorPaymentID(paymentID string) ([]Contrato, error) {
	var contratos []Contrato
	err := r.DB.Where("payment_id = ?", paymentID).Find(&contratos).Error
	return contratos, err
}

func (r *Repository) ListarTodos() ([]Contrato, error) {
	var contratos []Contrato
	err := r.DB.Order("created_at DESC").Find(&contratos).Error
	return contratos, err
}

func (r *Repository) Update(c *Contrato) error {
	return r.DB.Save(c).Error
}

func (r *Repository) UpdateStatus(id uint, status string) error {
	return r.DB.Model(&Contrato{}).Where("id = ?", id).Update("status", status).Error
}

// Ativar confirma o contrato após pagamento aprovado: marca ativo, registra o
// recebimento e limpa os códigos PIX para não reexibir cobrança vencida.
func (r *Repository) Ativar(id uint, recebidoEm time.Time) error {
	return r.DB.Model(&Contrato{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":            StatusAtivo,
		"data_recebimento":  &recebidoEm,
		"qr_code":           "",
		"codigo_copia_cola": "",
	}).Error
}

// RenovarVigencia atualiza a janela de vigência na renovação anual.
func (r *Repository) RenovarVigencia(id uint, inicio time.Time, fim time.Time) error {
	return r.DB.Model(&Contrato{}).Where("id = ?", id).Updates(map[string]interface{}{
		"data_inicio": inicio,
		"data_fim":    &fim,
	}).Error
}
