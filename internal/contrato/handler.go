// internal/contrato/handler.go
package contrato

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/VidaPet/api-assinaturas/internal/auth"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// GET /clientes/contratos — contratos do próprio cliente autenticado
func (h *Handler) ListarDoCliente(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := r.Context().Value(auth.CtxClienteID).(uint)
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	contratos, err := h.Repo.ListarPorCliente(clienteID)
	if err != nil {
		http.Error(w, "Erro ao listar contratos", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(contratos)
}

// GET /clientes/contratos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := r.Context().Value(auth.CtxClienteID).(uint)
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de contrato inválido", http.StatusBadRequest)
		return
	}

	c, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Contrato não encontrado", http.StatusNotFound)
		return
	}
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	if c.ClienteID != clienteID && !isAdmin {
		http.Error(w, "Contrato não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// GET /admin/contratos
func (h *Handler) ListarTodos(w http.ResponseWriter, r *http.Request) {
	contratos, err := h.Repo.ListarTodos()
	if err != nil {
		http.Error(w, "Erro ao listar contratos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(contratos)
}

// PATCH /admin/contratos/{id}/status
// Permite: "ativo", "inativo", "suspenso", "cancelado".
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de contrato inválido", http.StatusBadRequest)
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	allowed := map[string]bool{
		StatusAtivo:     true,
		StatusInativo:   true,
		StatusSuspenso:  true,
		StatusCancelado: true,
	}
	if !allowed[payload.Status] {
		http.Error(w, "Status inválido. Use 'ativo', 'inativo', 'suspenso' ou 'cancelado'.", http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.FindByID(uint(id)); err != nil {
		http.Error(w, "Contrato não encontrado", http.StatusNotFound)
		return
	}

	if err := h.Repo.UpdateStatus(uint(id), payload.Status); err != nil {
		http.Error(w, "Erro ao atualizar status do contrato", http.StatusInternalServerError)
		return
	}

	c, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Erro ao buscar contrato atualizado", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}
