// internal/pet/handler.go
package pet

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/VidaPet/api-assinaturas/internal/auth"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// ListarMeus devolve os pets do cliente autenticado
// GET /clientes/pets
func (h *Handler) ListarMeus(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := r.Context().Value(auth.CtxClienteID).(uint)
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	pets, err := h.Repo.ListarPorCliente(clienteID)
	if err != nil {
		http.Error(w, "Erro ao listar pets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pets)
}

type atualizarPetRequest struct {
	Nome       string     `json:"nome"`
	Especie    string     `json:"especie"`
	Raca       string     `json:"raca"`
	Sexo       string     `json:"sexo"`
	Nascimento *time.Time `json:"nascimento"`
	Peso       float64    `json:"peso"`
	Castrado   bool       `json:"castrado"`
	Foto       string     `json:"foto"`
}

// Atualizar edita a ficha de um pet do próprio cliente.
// A criação de pets acontece só pelo checkout; aqui é manutenção da ficha.
// PUT /clientes/pets/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := r.Context().Value(auth.CtxClienteID).(uint)
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de pet inválido", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.FindByID(uint(id))
	if err != nil || p.ClienteID != clienteID {
		http.Error(w, "Pet não encontrado", http.StatusNotFound)
		return
	}

	var req atualizarPetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if req.Nome == "" {
		http.Error(w, "Nome do pet é obrigatório", http.StatusBadRequest)
		return
	}

	p.Nome = req.Nome
	p.Especie = req.Especie
	p.Raca = req.Raca
	p.Sexo = req.Sexo
	p.Nascimento = req.Nascimento
	p.Peso = req.Peso
	p.Castrado = req.Castrado
	p.Foto = req.Foto

	if err := h.Repo.Update(p); err != nil {
		http.Error(w, "Erro ao atualizar pet", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}
