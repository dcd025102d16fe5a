// internal/pet/repository.go
package pet

import (
	"strings"

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

func (r *Repository) Criar(p *Pet) error {
	return r.DB.Create(p).Error
}

func (r *Repository) FindByID(id uint) (*Pet, error) {
	var p Pet
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListarPorCliente(clienteID uint) ([]Pet, error) {
	var pets []Pet
	err := r.DB.Where("cliente_id = ?", clienteID).Order("nome ASC").Find(&pets).Error
	return pets, err
}

// BuscarPorNomeDoCliente busca um pet do cliente por nome exato, sem
// diferenciar maiúsculas. É a trava de idempotência do provisionamento:
// um reenvio do checkout reaproveita o pet em vez de duplicá-lo.
func (r *Repository) BuscarPorNomeDoCliente(clienteID uint, nome string) (*Pet, error) {
	var p Pet
	err := r.DB.
		Where("cliente_id = ? AND LOWER(nome) = ?", clienteID, strings.ToLower(strings.TrimSpace(nome))).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Update(p *Pet) error {
	return r.DB.Save(p).Error
}

func (r *Repository) DeleteByID(id uint) error {
	res := r.DB.Delete(&Pet{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
