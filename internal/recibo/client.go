// internal/recibo/client.go
package recibo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ItemRecibo é uma linha do recibo, uma por pet. Um checkout multi-pet gera
// um único recibo cobrindo todas as linhas ("recibo unificado").
type ItemRecibo struct {
	NomePet        string  `json:"nomePet"`
	NumeroContrato string  `json:"numeroContrato"`
	Plano          string  `json:"plano"`
	Valor          float64 `json:"valor"`
}

// DadosRecibo é o pedido de emissão enviado ao gerador externo.
type DadosRecibo struct {
	NomeCliente    string       `json:"nomeCliente"`
	CPF            string       `json:"cpf"`
	FormaPagamento string       `json:"formaPagamento"`
	ValorTotal     float64      `json:"valorTotal"`
	PagoEm         time.Time    `json:"pagoEm"`
	Itens          []ItemRecibo `json:"itens"`
}

// ResultadoRecibo é a resposta do gerador.
type ResultadoRecibo struct {
	Sucesso      bool   `json:"sucesso"`
	ReciboID     string `json:"reciboId"`
	NumeroRecibo string `json:"numeroRecibo"`
}

// Gerador abstrai o serviço externo de recibos. É um coletor best-effort:
// falha na emissão nunca reverte um pagamento já capturado.
type Gerador interface {
	GerarReciboPagamento(ctx context.Context, dados DadosRecibo, chaveIdempotencia string) (*ResultadoRecibo, error)
}

type httpGerador struct {
	url  string
	http *http.Client
}

func NewGerador() Gerador {
	url := os.Getenv("RECIBOS_URL")
	if url == "" {
		url = "http://localhost:9090/recibos"
	}
	return &httpGerador{
		url:  url,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *httpGerador) GerarReciboPagamento(ctx context.Context, dados DadosRecibo, chaveIdempotencia string) (*ResultadoRecibo, error) {
	raw, err := json.Marshal(dados)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", chaveIdempotencia)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chamada ao gerador de recibos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gerador de recibos retornou %d: %s", resp.StatusCode, string(b))
	}

	var out ResultadoRecibo
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decodificar resposta do gerador: %w", err)
	}
	return &out, nil
}
