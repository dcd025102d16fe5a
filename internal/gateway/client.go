// internal/gateway/client.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client abstrai o gateway de pagamento (cartão e PIX). As chamadas são
// síncronas, com timeout e sem retry — reenvio é responsabilidade de quem
// chama (o poller do checkout).
type Client interface {
	CriarPagamentoCartao(ctx context.Context, req PagamentoCartaoRequest) (*PagamentoCartaoResponse, error)
	CriarPagamentoPix(ctx context.Context, req PagamentoPixRequest) (*PagamentoPixResponse, error)
	ConsultarPagamento(ctx context.Context, paymentID string) (*ConsultaPagamento, error)
}

// ErrCredenciaisAusentes indica MerchantId/MerchantKey não configurados.
// Em produção a aplicação não sobe sem eles.
var ErrCredenciaisAusentes = errors.New("credenciais do gateway ausentes (GATEWAY_MERCHANT_ID/GATEWAY_MERCHANT_KEY)")

type httpClient struct {
	urlVendas   string
	urlConsulta string
	merchantID  string
	merchantKey string
	http        *http.Client
}

// NewClient monta o cliente REST a partir das variáveis de ambiente.
// Fora de desenvolvimento, credenciais ausentes derrubam a inicialização.
func NewClient() (Client, error) {
	c := &httpClient{
		urlVendas:   os.Getenv("GATEWAY_URL_VENDAS"),
		urlConsulta: os.Getenv("GATEWAY_URL_CONSULTA"),
		merchantID:  os.Getenv("GATEWAY_MERCHANT_ID"),
		merchantKey: os.Getenv("GATEWAY_MERCHANT_KEY"),
		http:        &http.Client{Timeout: 30 * time.Second},
	}
	if c.merchantID == "" || c.merchantKey == "" {
		if os.Getenv("AMBIENTE") != "development" {
			return nil, ErrCredenciaisAusentes
		}
	}
	if c.urlVendas == "" {
		c.urlVendas = "https://apisandbox.cieloecommerce.cielo.com.br"
	}
	if c.urlConsulta == "" {
		c.urlConsulta = "https://apiquerysandbox.cieloecommerce.cielo.com.br"
	}
	return c, nil
}

// payloads no formato do gateway

type vendaCartao struct {
	MerchantOrderID string `json:"MerchantOrderId"`
	Customer        struct {
		Name     string `json:"Name"`
		Identity string `json:"Identity"`
	} `json:"Customer"`
	Payment struct {
		Type         string `json:"Type"`
		Amount       int64  `json:"Amount"`
		Installments int    `json:"Installments"`
		Capture      bool   `json:"Capture"`
		CreditCard   struct {
			CardNumber     string `json:"CardNumber"`
			Holder         string `json:"Holder"`
			ExpirationDate string `json:"ExpirationDate"`
			SecurityCode   string `json:"SecurityCode"`
			Brand          string `json:"Brand"`
		} `json:"CreditCard"`
	} `json:"Payment"`
}

type vendaPix struct {
	MerchantOrderID string `json:"MerchantOrderId"`
	Customer        struct {
		Name     string `json:"Name"`
		Identity string `json:"Identity"`
	} `json:"Customer"`
	Payment struct {
		Type   string `json:"Type"`
		Amount int64  `json:"Amount"`
	} `json:"Payment"`
}

type retornoVenda struct {
	Payment struct {
		PaymentID         string `json:"PaymentId"`
		Status            int    `json:"Status"`
		ProofOfSale       string `json:"ProofOfSale"`
		AuthorizationCode string `json:"AuthorizationCode"`
		Tid               string `json:"Tid"`
		ReturnCode        string `json:"ReturnCode"`
		ReturnMessage     string `json:"ReturnMessage"`
		QrCodeBase64Image string `json:"QrCodeBase64Image"`
		QrCodeString      string `json:"QrCodeString"`
	} `json:"Payment"`
}

func (c *httpClient) CriarPagamentoCartao(ctx context.Context, req PagamentoCartaoRequest) (*PagamentoCartaoResponse, error) {
	body := vendaCartao{MerchantOrderID: req.ClientOrderID}
	body.Customer.Name = req.NomeCliente
	body.Customer.Identity = req.CPF
	body.Payment.Type = "CreditCard"
	body.Payment.Amount = req.ValorCentavos
	body.Payment.Installments = req.Parcelas
	body.Payment.Capture = true
	body.Payment.CreditCard.CardNumber = req.Cartao.Numero
	body.Payment.CreditCard.Holder = req.Cartao.Titular
	body.Payment.CreditCard.ExpirationDate = req.Cartao.Validade
	body.Payment.CreditCard.SecurityCode = req.Cartao.CVV
	body.Payment.CreditCard.Brand = req.Cartao.Bandeira

	var ret retornoVenda
	if err := c.post(ctx, c.urlVendas+"/1/sales/", body, &ret); err != nil {
		return nil, err
	}
	return &PagamentoCartaoResponse{
		PaymentID:         ret.Payment.PaymentID,
		Status:            ret.Payment.Status,
		ProofOfSale:       ret.Payment.ProofOfSale,
		AuthorizationCode: ret.Payment.AuthorizationCode,
		Tid:               ret.Payment.Tid,
		ReturnCode:        ret.Payment.ReturnCode,
		ReturnMessage:     ret.Payment.ReturnMessage,
	}, nil
}

func (c *httpClient) CriarPagamentoPix(ctx context.Context, req PagamentoPixRequest) (*PagamentoPixResponse, error) {
	body := vendaPix{MerchantOrderID: req.ClientOrderID}
	body.Customer.Name = req.NomeCliente
	body.Customer.Identity = req.CPF
	body.Payment.Type = "Pix"
	body.Payment.Amount = req.ValorCentavos

	var ret retornoVenda
	if err := c.post(ctx, c.urlVendas+"/1/sales/", body, &ret); err != nil {
		return nil, err
	}
	return &PagamentoPixResponse{
		PaymentID:       ret.Payment.PaymentID,
		Status:          ret.Payment.Status,
		QRCodeBase64:    ret.Payment.QrCodeBase64Image,
		QRCodeCopiaCola: ret.Payment.QrCodeString,
	}, nil
}

func (c *httpClient) ConsultarPagamento(ctx context.Context, paymentID string) (*ConsultaPagamento, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.urlConsulta+"/1/sales/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	c.headers(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("consulta ao gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("pagamento %s não encontrado no gateway", paymentID)
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway retornou %d: %s", resp.StatusCode, string(b))
	}

	var ret retornoVenda
	if err := json.NewDecoder(resp.Body).Decode(&ret); err != nil {
		return nil, fmt.Errorf("decodificar consulta: %w", err)
	}
	return &ConsultaPagamento{
		PaymentID:     ret.Payment.PaymentID,
		Status:        ret.Payment.Status,
		ReturnCode:    ret.Payment.ReturnCode,
		ReturnMessage: ret.Payment.ReturnMessage,
	}, nil
}

func (c *httpClient) post(ctx context.Context, url string, body interface{}, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	c.headers(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("chamada ao gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway retornou %d: %s", resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *httpClient) headers(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("MerchantId", c.merchantID)
	req.Header.Set("MerchantKey", c.merchantKey)
}
