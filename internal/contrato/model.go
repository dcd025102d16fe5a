// internal/contrato/model.go
package contrato

import (
	"time"

	"gorm.io/gorm"

	"github.com/VidaPet/api-assinaturas/internal/calendario"
)

// Status possíveis de um contrato.
const (
	StatusPendente  = "pendente" // PIX aguardando confirmação
	StatusAtivo     = "ativo"
	StatusInativo   = "inativo"
	StatusSuspenso  = "suspenso"
	StatusCancelado = "cancelado"
)

// Formas de pagamento aceitas.
const (
	FormaCartao = "cartao"
	FormaPix    = "pix"
)

// Contrato vincula um cliente, um pet e um plano com uma cadência de cobrança.
// É criado apenas depois da aprovação do pagamento (cartão) ou em status
// pendente aguardando confirmação (PIX) — nunca especulativamente.
//
// Invariante de valores: periodicidade anual => ValorMensal = 0 e ValorAnual
// carrega o preço cheio do ano; mensal é o inverso.
type Contrato struct {
	gorm.Model
	ClienteID uint `gorm:"not null;index" json:"clienteId"`
	PetID     uint `gorm:"not null;index" json:"petId"`
	PlanoID   uint `gorm:"not null;index" json:"planoId"`

	NumeroContrato string                   `gorm:"size:50;not null;uniqueIndex" json:"numeroContrato"`
	Periodicidade  calendario.Periodicidade `gorm:"size:20;not null" json:"periodicidade"`
	Status         string                   `gorm:"size:50;not null;default:'pendente';index" json:"status"`
	DataInicio     time.Time                `gorm:"not null" json:"dataInicio"`
	DataFim        *time.Time               `json:"dataFim"`

	ValorMensal float64 `gorm:"not null;default:0" json:"valorMensal"`
	ValorAnual  float64 `gorm:"not null;default:0" json:"valorAnual"`

	FormaPagamento  string     `gorm:"size:20;not null" json:"formaPagamento"`
	DataRecebimento *time.Time `json:"dataRecebimento"`

	// Correlação com o gateway
	PaymentID         string `gorm:"size:100;index" json:"paymentId"`
	ProofOfSale       string `gorm:"size:50" json:"proofOfSale"`
	AuthorizationCode string `gorm:"size:50" json:"authorizationCode"`
	Tid               string `gorm:"size:50" json:"tid"`
	CodigoRetorno     string `gorm:"size:10" json:"codigoRetorno"`
	MensagemRetorno   string `gorm:"size:255" json:"mensagemRetorno"`

	// PIX pendente: limpos assim que o pagamento confirma, para que códigos
	// vencidos nunca voltem a ser exibidos
	QRCode          string `json:"qrCode"`
	CodigoCopiaCola string `json:"codigoCopiaCola"`
}

// ValorDoCiclo devolve o valor de um ciclo de cobrança conforme a
// periodicidade do contrato.
func (c *Contrato) ValorDoCiclo() float64 {
	if c.Periodicidade == calendario.Anual {
		return c.ValorAnual
	}
	return c.ValorMensal
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Contrato{})
}
