// internal/cliente/handler.go
package cliente

import (
	"encoding/json"
	"net/http"

	"github.com/VidaPet/api-assinaturas/internal/auth"
	"github.com/VidaPet/api-assinaturas/internal/utils"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type LoginRequest struct {
	Login    string `json:"login"` // email ou CPF
	Password string `json:"password"`
}

// Login valida as credenciais e emite o par access + refresh (cookie)
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	c, err := h.Repo.BuscarPorEmailOuCPF(req.Login)
	if err != nil {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}

	if !utils.CheckSenha(c.Senha, req.Password) {
		http.Error(w, "senha incorreta", http.StatusUnauthorized)
		return
	}

	token, err := auth.IssueTokensOnLogin(h.Repo.DB, w, c.ID, c.Admin)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"token":     token,
		"expiresIn": int(auth.AccessTTL.Seconds()),
	})
}

// Perfil retorna os dados do próprio cliente autenticado
// GET /clientes/me
func (h *Handler) Perfil(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := r.Context().Value(auth.CtxClienteID).(uint)
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	c, err := h.Repo.FindByID(clienteID)
	if err != nil {
		http.Error(w, "Cliente não encontrado", http.StatusNotFound)
		return
	}

	pets, ativos, err := h.Repo.ResumoPerfil(c.ID)
	if err != nil {
		http.Error(w, "Erro ao montar o perfil", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(PerfilDTO{
		ID:              c.ID,
		Nome:            c.Nome,
		Sobrenome:       c.Sobrenome,
		CPF:             c.Documento(),
		Email:           c.Email,
		Telefone:        c.Telefone,
		Cidade:          c.Cidade,
		Estado:          c.Estado,
		TotalPets:       int(pets),
		ContratosAtivos: int(ativos),
	})
}

type atualizarClienteRequest struct {
	Nome        string `json:"nome"`
	Sobrenome   string `json:"sobrenome"`
	Telefone    string `json:"telefone"`
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	Estado      string `json:"estado"`
}

// Atualizar permite ao cliente editar os próprios dados cadastrais.
// CPF e email não são editáveis por aqui.
// PUT /clientes/me
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := r.Context().Value(auth.CtxClienteID).(uint)
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	c, err := h.Repo.FindByID(clienteID)
	if err != nil {
		http.Error(w, "Cliente não encontrado", http.StatusNotFound)
		return
	}

	var req atualizarClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	c.Nome = req.Nome
	c.Sobrenome = req.Sobrenome
	c.Telefone = req.Telefone
	c.CEP = req.CEP
	c.Logradouro = req.Logradouro
	c.Numero = req.Numero
	c.Complemento = req.Complemento
	c.Bairro = req.Bairro
	c.Cidade = req.Cidade
	c.Estado = req.Estado

	if err := h.Repo.Update(c); err != nil {
		http.Error(w, "Erro ao atualizar cliente", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

type trocarSenhaRequest struct {
	SenhaAtual string `json:"senhaAtual"`
	SenhaNova  string `json:"senhaNova"`
}

// TrocarSenha
// PUT /clientes/me/senha
func (h *Handler) TrocarSenha(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := r.Context().Value(auth.CtxClienteID).(uint)
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	c, err := h.Repo.FindByID(clienteID)
	if err != nil {
		http.Error(w, "Cliente não encontrado", http.StatusNotFound)
		return
	}

	var req trocarSenhaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if len(req.SenhaNova) < 8 {
		http.Error(w, "A nova senha precisa de ao menos 8 caracteres", http.StatusBadRequest)
		return
	}
	if !utils.CheckSenha(c.Senha, req.SenhaAtual) {
		http.Error(w, "senha atual incorreta", http.StatusUnauthorized)
		return
	}

	hash, err := utils.HashSenha(req.SenhaNova)
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}
	c.Senha = hash

	if err := h.Repo.Update(c); err != nil {
		http.Error(w, "Erro ao atualizar senha", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"message":"Senha atualizada com sucesso"}`))
}
