// internal/checkout/handler.go
package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/VidaPet/api-assinaturas/internal/auth"
)

// Handler expõe o assistente de checkout por HTTP. As três etapas são
// públicas (o cliente ainda não tem sessão autenticada durante a venda);
// pagamento de parcela e regularização exigem login.
type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// DadosCliente trata POST /checkout/dados-cliente (etapa 1).
func (h *Handler) DadosCliente(w http.ResponseWriter, r *http.Request) {
	var req dadosClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	sess, err := h.Service.IniciarSessao(req)
	if err != nil {
		responderErro(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessao": sess.Token,
		"etapa":  sess.Etapa,
	})
}

// CompletarCadastro trata POST /checkout/completar-cadastro (etapa 2).
func (h *Handler) CompletarCadastro(w http.ResponseWriter, r *http.Request) {
	var req completarCadastroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	sess, err := h.Service.CompletarCadastro(req)
	if err != nil {
		responderErro(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessao": sess.Token,
		"etapa":  sess.Etapa,
	})
}

// Processar trata POST /checkout/processar (etapa 3).
func (h *Handler) Processar(w http.ResponseWriter, r *http.Request) {
	var req processarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.Processar(r.Context(), req)
	if err != nil {
		responderErro(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// PagarParcela trata POST /clientes/parcelas/pagar.
func (h *Handler) PagarParcela(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := r.Context().Value(auth.CtxClienteID).(uint)
	if !ok {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)

	var req pagarParcelaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.PagarParcela(r.Context(), clienteID, isAdmin, req)
	if err != nil {
		responderErro(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Regularizacao trata GET /clientes/contratos/{id}/regularizacao.
func (h *Handler) Regularizacao(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := r.Context().Value(auth.CtxClienteID).(uint)
	if !ok {
		http.Error(w, "Não autorizado", http.StatusUnauthorized)
		return
	}
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.Regularizacao(clienteID, isAdmin, uint(id), time.Now())
	if err != nil {
		responderErro(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// responderErro traduz a taxonomia de erros do checkout para HTTP.
func responderErro(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidacao):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNaoEncontrado):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrPagamentoRecusado):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	default:
		http.Error(w, "Erro interno ao processar o checkout", http.StatusInternalServerError)
	}
}
