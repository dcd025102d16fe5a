// internal/cliente/repository.go
package cliente

import (
	"strings"

	"gorm.io/gorm"

	"github.com/VidaPet/api-assinaturas/internal/contrato"
	"github.com/VidaPet/api-assinaturas/internal/pet"
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

func (r *Repository) Criar(c *Cliente) error {
	return r.DB.Create(c).Error
}

func (r *Repository) FindByID(id uint) (*Cliente, error) {
	var c Cliente
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) BuscarPorCPF(cpf string) (*Cliente, error) {
	var c Cliente
	if err := r.DB.Where("cpf = ?", NormalizarCPF(cpf)).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) BuscarPorEmail(email string) (*Cliente, error) {
	var c Cliente
	if err := r.DB.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// BuscarPorEmailOuCPF atende o login, que aceita qualquer um dos dois.
func (r *Repository) BuscarPorEmailOuCPF(login string) (*Cliente, error) {
	var c Cliente
	err := r.DB.
		Where("LOWER(email) = ? OR cpf = ?", strings.ToLower(strings.TrimSpace(login)), NormalizarCPF(login)).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) Update(c *Cliente) error {
	return r.DB.Save(c).Error
}

// ResumoPerfil conta os pets e os contratos ativos do cliente para a
// projeção da área logada.
func (r *Repository) ResumoPerfil(id uint) (totalPets int64, contratosAtivos int64, err error) {
	if err = r.DB.Model(&pet.Pet{}).Where("cliente_id = ?", id).Count(&totalPets).Error; err != nil {
		return 0, 0, err
	}
	if err = r.DB.Model(&contrato.Contrato{}).
		Where("cliente_id = ? AND status = ?", id, contrato.StatusAtivo).
		Count(&contratosAtivos).Error; err != nil {
		return 0, 0, err
	}
	return totalPets, contratosAtivos, nil
}

// DescartarTemporario remove um cliente temporário que perdeu a resolução de
// CPF para um registro definitivo pré-existente.
func (r *Repository) DescartarTemporario(id uint) error {
	return r.DB.Where("id = ? AND temporario = ?", id, true).Delete(&Cliente{}).Error
}

// NormalizarCPF remove pontuação e espaços do documento.
func NormalizarCPF(cpf string) string {
	var b strings.Builder
	for _, ch := range cpf {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
