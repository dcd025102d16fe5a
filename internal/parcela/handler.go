// internal/parcela/handler.go
package parcela

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/VidaPet/api-assinaturas/internal/auth"
	"github.com/VidaPet/api-assinaturas/internal/contrato"
)

type Handler struct {
	Repo         *Repository
	Ledger       *Ledger
	ContratoRepo *contrato.Repository
}

func NewHandler(repo *Repository, ledger *Ledger, contratoRepo *contrato.Repository) *Handler {
	return &Handler{Repo: repo, Ledger: ledger, ContratoRepo: contratoRepo}
}

// GET /clientes/parcelas
// Devolve as parcelas do cliente particionadas em {pagas, vigentes, vencidas}.
// Quando um contrato quitado ainda não tem a linha da próxima parcela, a
// resposta inclui uma projeção virtual para o tutor sempre enxergar a próxima
// cobrança.
func (h *Handler) ListarDoCliente(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := r.Context().Value(auth.CtxClienteID).(uint)
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	contratos, err := h.ContratoRepo.ListarPorCliente(clienteID)
	if err != nil {
		http.Error(w, "Erro ao listar contratos", http.StatusInternalServerError)
		return
	}

	agora := time.Now()
	todas := []Parcela{}
	for i := range contratos {
		c := &contratos[i]
		if c.Status == contrato.StatusCancelado {
			continue
		}
		parcelas, err := h.Repo.ListByContratoID(c.ID)
		if err != nil {
			http.Error(w, "Erro ao listar parcelas", http.StatusInternalServerError)
			return
		}
		todas = append(todas, parcelas...)
		if proj := h.Ledger.ProjetarProximaParcela(c, parcelas); proj != nil {
			todas = append(todas, *proj)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Particionar(todas, agora))
}

// GET /admin/contratos/{id}/parcelas — extrato completo de um contrato
func (h *Handler) ListarPorContrato(w http.ResponseWriter, r *http.Request) {
	c, err := contratoDaRota(h.ContratoRepo, r)
	if err != nil {
		http.Error(w, "Contrato não encontrado", http.StatusNotFound)
		return
	}

	parcelas, err := h.Repo.ListByContratoID(c.ID)
	if err != nil {
		http.Error(w, "Erro ao listar parcelas", http.StatusInternalServerError)
		return
	}

	agora := time.Now()
	for i := range parcelas {
		parcelas[i].Status = parcelas[i].StatusEfetivo(agora)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(parcelas)
}
