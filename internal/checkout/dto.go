// internal/checkout/dto.go
package checkout

import "github.com/VidaPet/api-assinaturas/internal/gateway"

// PetDTO descreve um pet declarado no checkout, antes de existir no banco.
type PetDTO struct {
	Nome    string `json:"nome"`
	Especie string `json:"especie"`
	Raca    string `json:"raca"`
	Sexo    string `json:"sexo"`
}

// Etapa 1 — POST /checkout/dados-cliente
type dadosClienteRequest struct {
	Nome          string   `json:"nome"`
	Sobrenome     string   `json:"sobrenome"`
	Email         string   `json:"email"`
	Telefone      string   `json:"telefone"`
	Senha         string   `json:"senha"`
	PlanoID       uint     `json:"planoId"`
	Periodicidade string   `json:"periodicidade"` // "mensal" ou "anual"
	Pets          []PetDTO `json:"pets"`
	CupomCodigo   string   `json:"cupomCodigo"`
}

// Etapa 2 — POST /checkout/completar-cadastro
type completarCadastroRequest struct {
	Sessao      string `json:"sessao"`
	CPF         string `json:"cpf"`
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	Estado      string `json:"estado"`
}

// Etapa 3 — POST /checkout/processar
// ValorInformado é só informativo: o preço cobrado é sempre recalculado no
// servidor.
type processarRequest struct {
	Sessao         string         `json:"sessao"`
	FormaPagamento string         `json:"formaPagamento"` // "cartao" ou "pix"
	ParcelasCartao int            `json:"parcelasCartao"`
	Cartao         gateway.Cartao `json:"cartao"`
	ValorInformado float64        `json:"valorInformado"`
}

// POST /checkout/pagar-parcela
type pagarParcelaRequest struct {
	ContratoID     uint           `json:"contratoId"`
	Numero         int            `json:"numero"`
	FormaPagamento string         `json:"formaPagamento"`
	ParcelasCartao int            `json:"parcelasCartao"`
	Cartao         gateway.Cartao `json:"cartao"`
}

type pagarParcelaResponse struct {
	Aprovado        bool    `json:"aprovado"`
	PaymentID       string  `json:"paymentId"`
	Valor           float64 `json:"valor"`
	QRCode          string  `json:"qrCode,omitempty"`
	CodigoCopiaCola string  `json:"codigoCopiaCola,omitempty"`
	Mensagem        string  `json:"mensagem,omitempty"`
}

// RegularizacaoDTO é o resumo do débito acumulado de um contrato.
type RegularizacaoDTO struct {
	ContratoID       uint    `json:"contratoId"`
	PeriodosVencidos int     `json:"periodosVencidos"`
	ValorPorPeriodo  float64 `json:"valorPorPeriodo"`
	ValorTotal       float64 `json:"valorTotal"`
	EmDia            bool    `json:"emDia"`
}

// contratoResumo resume cada contrato criado no processamento.
type contratoResumo struct {
	ContratoID     uint    `json:"contratoId"`
	NumeroContrato string  `json:"numeroContrato"`
	NomePet        string  `json:"nomePet"`
	Valor          float64 `json:"valor"`
}

type processarResponse struct {
	Aprovado        bool             `json:"aprovado"`
	PaymentID       string           `json:"paymentId"`
	ValorTotal      float64          `json:"valorTotal"`
	Contratos       []contratoResumo `json:"contratos"`
	ReciboID        string           `json:"reciboId,omitempty"`
	QRCode          string           `json:"qrCode,omitempty"`
	CodigoCopiaCola string           `json:"codigoCopiaCola,omitempty"`
	Mensagem        string           `json:"mensagem,omitempty"`
}
