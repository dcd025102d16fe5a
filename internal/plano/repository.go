// internal/plano/repository.go
package plano

import "gorm.io/gorm"

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Criar(p *Plano) error {
	return r.DB.Create(p).Error
}

func (r *Repository) FindByID(id uint) (*Plano, error) {
	var p Plano
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindByCodigo(codigo string) (*Plano, error) {
	var p Plano
	if err := r.DB.Where("codigo = ?", codigo).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListarAtivos retorna apenas os planos disponíveis para venda.
func (r *Repository) ListarAtivos() ([]Plano, error) {
	var planos []Plano
	err := r.DB.Where("ativo = ?", true).Order("valor_base ASC").Find(&planos).Error
	return planos, err
}

func (r *Repository) ListarTodos() ([]Plano, error) {
	var planos []Plano
	err := r.DB.Order("valor_base ASC").Find(&planos).Error
	return planos, err
}

func (r *Repository) Update(p *Plano) error {
	return r.DB.Save(p).Error
}

// Desativar tira o plano de venda sem apagar contratos existentes.
func (r *Repository) Desativar(id uint) error {
	return r.DB.Model(&Plano{}).Where("id = ?", id).Update("ativo", false).Error
}
