// internal/cupom/handler.go
package cupom

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// POST /cupons/validar
// Resposta: {valido, cupom} — cupom omitido quando inválido.
func (h *Handler) Validar(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Codigo string `json:"codigo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Codigo == "" {
		http.Error(w, "Informe o código do cupom", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	c, err := h.Repo.FindByCodigo(payload.Codigo)
	if err != nil || !c.Disponivel(time.Now()) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"valido": false})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]interface{}{"valido": true, "cupom": c})
}

// POST /admin/cupons
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var c Cupom
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if c.Codigo == "" || (c.Tipo != TipoPercentual && c.Tipo != TipoFixo) || c.Valor <= 0 {
		http.Error(w, "Cupom precisa de código, tipo ('percentual' ou 'fixo') e valor positivo", http.StatusBadRequest)
		return
	}
	if c.Tipo == TipoPercentual && c.Valor > 100 {
		http.Error(w, "Desconto percentual não pode exceder 100", http.StatusBadRequest)
		return
	}
	c.Usos = 0
	if err := h.Repo.Criar(&c); err != nil {
		http.Error(w, "Erro ao criar cupom", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

// GET /admin/cupons
func (h *Handler) ListarTodos(w http.ResponseWriter, r *http.Request) {
	cupons, err := h.Repo.ListarTodos()
	if err != nil {
		http.Error(w, "Erro ao listar cupons", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(cupons)
}

// PATCH /admin/cupons/{id}/desativar
func (h *Handler) Desativar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de cupom inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repo.DB.Model(&Cupom{}).Where("id = ?", id).Update("ativo", false).Error; err != nil {
		http.Error(w, "Erro ao desativar cupom", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
