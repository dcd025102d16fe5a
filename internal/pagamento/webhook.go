// internal/pagamento/webhook.go
package pagamento

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/VidaPet/api-assinaturas/internal/gateway"
)

// WebhookHandler recebe as notificações assíncronas do gateway.
type WebhookHandler struct {
	Gateway       gateway.Client
	Reconciliador *Reconciliador
	Log           *zap.Logger
}

func NewWebhookHandler(gw gateway.Client, rec *Reconciliador, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Gateway: gw, Reconciliador: rec, Log: log}
}

// POST /webhooks/gateway
// O corpo cru é lido integralmente antes do parse (necessário para eventual
// verificação de assinatura). Payload sem PaymentId ou sem ChangeType
// numérico é rejeitado com 400 — nunca descartado em silêncio.
func (h *WebhookHandler) Receber(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Erro ao ler o corpo da notificação", http.StatusBadRequest)
		return
	}

	var notif gateway.WebhookNotificacao
	if err := json.Unmarshal(raw, &notif); err != nil {
		http.Error(w, "Notificação mal formada", http.StatusBadRequest)
		return
	}
	if notif.PaymentID == "" || notif.ChangeType == nil {
		http.Error(w, "Notificação sem PaymentId ou ChangeType", http.StatusBadRequest)
		return
	}

	// o webhook só avisa que algo mudou; o status de verdade vem da consulta
	consulta, err := h.Gateway.ConsultarPagamento(r.Context(), notif.PaymentID)
	if err != nil {
		h.Log.Warn("consulta ao gateway falhou no webhook",
			zap.String("paymentId", notif.PaymentID), zap.Error(err))
		http.Error(w, "Erro ao consultar pagamento", http.StatusBadGateway)
		return
	}

	if consulta.Aprovado() {
		quitadas, err := h.Reconciliador.ConfirmarPagamento(r.Context(), notif.PaymentID)
		if err != nil {
			h.Log.Error("reconciliação falhou",
				zap.String("paymentId", notif.PaymentID), zap.Error(err))
			http.Error(w, "Erro ao processar confirmação", http.StatusInternalServerError)
			return
		}
		h.Log.Info("webhook processado",
			zap.String("paymentId", notif.PaymentID),
			zap.Int("changeType", *notif.ChangeType),
			zap.Int("parcelasQuitadas", quitadas))
	}

	w.WriteHeader(http.StatusOK)
}
