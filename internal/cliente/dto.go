// internal/cliente/dto.go
package cliente

// PerfilDTO é a projeção do cliente devolvida para o próprio tutor,
// com o resumo de pets e contratos usado na área logada.
type PerfilDTO struct {
	ID              uint   `json:"id"`
	Nome            string `json:"nome"`
	Sobrenome       string `json:"sobrenome"`
	CPF             string `json:"cpf"`
	Email           string `json:"email"`
	Telefone        string `json:"telefone"`
	Cidade          string `json:"cidade"`
	Estado          string `json:"estado"`
	TotalPets       int    `json:"totalPets"`
	ContratosAtivos int    `json:"contratosAtivos"`
}
