// internal/checkout/repository.go
package checkout

import "gorm.io/gorm"

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Criar(s *Sessao) error {
	return r.DB.Create(s).Error
}

func (r *Repository) FindByToken(token string) (*Sessao, error) {
	var s Sessao
	if err := r.DB.Where("token = ?", token).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) FindByPaymentID(paymentID string) (*Sessao, error) {
	var s Sessao
	if err := r.DB.Where("payment_id = ?", paymentID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Update(s *Sessao) error {
	return r.DB.Save(s).Error
}

// Concluir fecha a sessão depois do provisionamento.
func (r *Repository) Concluir(id uint) error {
	return r.DB.Model(&Sessao{}).Where("id = ?", id).Update("concluida", true).Error
}
