// internal/plano/handler.go
package plano

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// GET /planos — listagem pública de planos ativos (vitrine do checkout)
func (h *Handler) ListarAtivos(w http.ResponseWriter, r *http.Request) {
	planos, err := h.Repo.ListarAtivos()
	if err != nil {
		http.Error(w, "Erro ao buscar planos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(planos)
}

// GET /admin/planos
func (h *Handler) ListarTodos(w http.ResponseWriter, r *http.Request) {
	planos, err := h.Repo.ListarTodos()
	if err != nil {
		http.Error(w, "Erro ao buscar planos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(planos)
}

// POST /admin/planos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var p Plano
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if p.Codigo == "" || p.Nome == "" || p.ValorBase <= 0 {
		http.Error(w, "Código, nome e valor base são obrigatórios", http.StatusBadRequest)
		return
	}
	if err := h.Repo.Criar(&p); err != nil {
		http.Error(w, "Erro ao criar plano", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// GET /planos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de plano inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Plano não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// PUT /admin/planos/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de plano inválido", http.StatusBadRequest)
		return
	}
	existente, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Plano não encontrado", http.StatusNotFound)
		return
	}

	var payload Plano
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	existente.Nome = payload.Nome
	existente.Descricao = payload.Descricao
	existente.ValorBase = payload.ValorBase
	existente.CobrancaAnual = payload.CobrancaAnual
	existente.DescontoMultiPet = payload.DescontoMultiPet
	existente.ParcelaUnica = payload.ParcelaUnica
	existente.Ativo = payload.Ativo

	if err := h.Repo.Update(existente); err != nil {
		http.Error(w, "Erro ao atualizar plano", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(existente)
}

// DELETE /admin/planos/{id} — desativa, não apaga
func (h *Handler) Desativar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de plano inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repo.Desativar(uint(id)); err != nil {
		http.Error(w, "Erro ao desativar plano", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
