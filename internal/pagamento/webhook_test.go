// internal/pagamento/webhook_test.go
package pagamento

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/VidaPet/api-assinaturas/internal/gateway"
	"github.com/VidaPet/api-assinaturas/internal/parcela"
)

type gatewayConsultaFake struct {
	status int
}

func (g *gatewayConsultaFake) CriarPagamentoCartao(context.Context, gateway.PagamentoCartaoRequest) (*gateway.PagamentoCartaoResponse, error) {
	panic("não usado")
}

func (g *gatewayConsultaFake) CriarPagamentoPix(context.Context, gateway.PagamentoPixRequest) (*gateway.PagamentoPixResponse, error) {
	panic("não usado")
}

func (g *gatewayConsultaFake) ConsultarPagamento(_ context.Context, paymentID string) (*gateway.ConsultaPagamento, error) {
	return &gateway.ConsultaPagamento{PaymentID: paymentID, Status: g.status}, nil
}

func TestWebhookPayloadInvalido(t *testing.T) {
	cen := montarCenario(t)
	h := NewWebhookHandler(&gatewayConsultaFake{}, cen.rec, zap.NewNop())

	casos := []struct {
		nome string
		body string
	}{
		{"json quebrado", `{nao-e-json`},
		{"sem PaymentId", `{"ChangeType":1}`},
		{"sem ChangeType", `{"PaymentId":"pay-1"}`},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/webhooks/pagamentos", strings.NewReader(c.body))
			rr := httptest.NewRecorder()
			h.Receber(rr, req)
			assert.Equal(t, 400, rr.Code)
		})
	}
}

func TestWebhookAprovadoReconcilia(t *testing.T) {
	cen := montarCenario(t)
	ct := cen.contratoPendente(t, "VP-WEBH0001", "pay-wh")
	h := NewWebhookHandler(&gatewayConsultaFake{status: gateway.StatusCapturado}, cen.rec, zap.NewNop())

	body := `{"PaymentId":"pay-wh","ChangeType":1,"ClientOrderId":"ordem-1"}`
	req := httptest.NewRequest("POST", "/webhooks/pagamentos", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Receber(rr, req)

	assert.Equal(t, 200, rr.Code)
	var p parcela.Parcela
	require.NoError(t, cen.db.Where("contrato_id = ? AND numero = 1", ct.ID).First(&p).Error)
	assert.Equal(t, parcela.StatusPaga, p.Status)
}

func TestWebhookPendenteNaoMuta(t *testing.T) {
	cen := montarCenario(t)
	ct := cen.contratoPendente(t, "VP-WEBH0002", "pay-wh2")
	h := NewWebhookHandler(&gatewayConsultaFake{status: gateway.StatusPendente}, cen.rec, zap.NewNop())

	body := `{"PaymentId":"pay-wh2","ChangeType":1}`
	req := httptest.NewRequest("POST", "/webhooks/pagamentos", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Receber(rr, req)

	assert.Equal(t, 200, rr.Code)
	var p parcela.Parcela
	require.NoError(t, cen.db.Where("contrato_id = ? AND numero = 1", ct.ID).First(&p).Error)
	assert.Equal(t, parcela.StatusPendente, p.Status)
}
