// internal/cupom/repository.go
package cupom

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

func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

func (r *Repository) Criar(c *Cupom) error {
	c.Codigo = strings.ToUpper(strings.TrimSpace(c.Codigo))
	return r.DB.Create(c).Error
}

func (r *Repository) FindByCodigo(codigo string) (*Cupom, error) {
	var c Cupom
	err := r.DB.Where("codigo = ?", strings.ToUpper(strings.TrimSpace(codigo))).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListarTodos() ([]Cupom, error) {
	var cupons []Cupom
	err := r.DB.Order("codigo ASC").Find(&cupons).Error
	return cupons, err
}

func (r *Repository) Update(c *Cupom) error {
	return r.DB.Save(c).Error
}

// IncrementarUso soma 1 ao contador de usos de forma atômica no banco —
// um incremento por checkout aprovado, nunca por pet ou por parcela.
func (r *Repository) IncrementarUso(id uint) error {
	return r.DB.Model(&Cupom{}).Where("id = ?", id).
		UpdateColumn("usos", gorm.Expr("usos + 1")).Error
}
