// internal/gateway/types.go
package gateway

// Status de pagamento reportados pelo gateway.
const (
	StatusAutorizado = 1  // autorizado mas não capturado
	StatusCapturado  = 2  // aprovado e capturado
	StatusPendente   = 12 // aguardando confirmação (PIX)
)

// Cartao são os dados do cartão repassados ao gateway. Nunca persistidos.
type Cartao struct {
	Numero   string `json:"numero"`
	Titular  string `json:"titular"`
	Validade string `json:"validade"` // MM/AAAA
	CVV      string `json:"cvv"`
	Bandeira string `json:"bandeira"`
}

// PagamentoCartaoRequest descreve uma cobrança de cartão de crédito.
// ValorCentavos é o total em centavos; ClientOrderID correlaciona a cobrança
// com o checkout que a originou.
type PagamentoCartaoRequest struct {
	ClientOrderID string
	ValorCentavos int64
	Parcelas      int
	Cartao        Cartao
	NomeCliente   string
	CPF           string
}

// PagamentoCartaoResponse é o resultado da tentativa de cobrança.
type PagamentoCartaoResponse struct {
	PaymentID         string `json:"paymentId"`
	Status            int    `json:"status"`
	ProofOfSale       string `json:"proofOfSale"`
	AuthorizationCode string `json:"authorizationCode"`
	Tid               string `json:"tid"`
	ReturnCode        string `json:"returnCode"`
	ReturnMessage     string `json:"returnMessage"`
}

// Aprovado indica captura efetivada.
func (r *PagamentoCartaoResponse) Aprovado() bool {
	return r.Status == StatusCapturado
}

// PagamentoPixRequest descreve a emissão de um QR Code PIX.
type PagamentoPixRequest struct {
	ClientOrderID string
	ValorCentavos int64
	NomeCliente   string
	CPF           string
}

// PagamentoPixResponse carrega o QR emitido; a confirmação chega depois por
// webhook ou consulta.
type PagamentoPixResponse struct {
	PaymentID       string `json:"paymentId"`
	Status          int    `json:"status"`
	QRCodeBase64    string `json:"qrCodeBase64Image"`
	QRCodeCopiaCola string `json:"qrCodeString"`
}

// ConsultaPagamento é o retrato atual de um pagamento no gateway (polling).
type ConsultaPagamento struct {
	PaymentID     string `json:"paymentId"`
	Status        int    `json:"status"`
	ReturnCode    string `json:"returnCode"`
	ReturnMessage string `json:"returnMessage"`
}

// Aprovado indica pagamento capturado na visão do gateway.
func (c *ConsultaPagamento) Aprovado() bool {
	return c.Status == StatusCapturado
}

// WebhookNotificacao é o POST que o gateway envia na mudança de status.
// PaymentId e ChangeType são obrigatórios; payload sem eles é rejeitado.
type WebhookNotificacao struct {
	PaymentID     string `json:"PaymentId"`
	ChangeType    *int   `json:"ChangeType"`
	ClientOrderID string `json:"ClientOrderId"`
}
