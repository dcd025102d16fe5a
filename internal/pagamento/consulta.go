// internal/pagamento/consulta.go
package pagamento

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/VidaPet/api-assinaturas/internal/auth"
	"github.com/VidaPet/api-assinaturas/internal/gateway"
)

// ConsultaHandler atende o polling do checkout: a página consulta o status
// do PIX a cada poucos segundos (o poller para sozinho na aprovação e tem
// teto de 10 minutos do lado do cliente).
type ConsultaHandler struct {
	Gateway       gateway.Client
	Reconciliador *Reconciliador
	Log           *zap.Logger
}

func NewConsultaHandler(gw gateway.Client, rec *Reconciliador, log *zap.Logger) *ConsultaHandler {
	return &ConsultaHandler{Gateway: gw, Reconciliador: rec, Log: log}
}

// GET /pagamentos/consulta/{paymentId}
// Durante o checkout ainda não existe sessão autenticada; o header
// X-Checkout-Token libera a consulta nesse caso.
func (h *ConsultaHandler) Consultar(w http.ResponseWriter, r *http.Request) {
	if !h.autorizado(r) {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	paymentID := mux.Vars(r)["paymentId"]
	if paymentID == "" {
		http.Error(w, "Informe o identificador do pagamento", http.StatusBadRequest)
		return
	}

	consulta, err := h.Gateway.ConsultarPagamento(r.Context(), paymentID)
	if err != nil {
		http.Error(w, "Erro ao consultar pagamento", http.StatusBadGateway)
		return
	}

	// aprovação observada no poll aplica a mesma mutação do webhook;
	// se o webhook já passou, a reconciliação é um no-op
	if consulta.Aprovado() {
		if _, err := h.Reconciliador.ConfirmarPagamento(r.Context(), paymentID); err != nil {
			h.Log.Error("reconciliação via polling falhou",
				zap.String("paymentId", paymentID), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"paymentId": consulta.PaymentID,
		"status":    consulta.Status,
		"aprovado":  consulta.Aprovado(),
	})
}

func (h *ConsultaHandler) autorizado(r *http.Request) bool {
	if _, ok := r.Context().Value(auth.CtxClienteID).(uint); ok {
		return true
	}
	token := os.Getenv("CHECKOUT_POLL_TOKEN")
	return token != "" && r.Header.Get("X-Checkout-Token") == token
}
