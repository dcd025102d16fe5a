// internal/gateway/erros.go
package gateway

import "os"

// Categorias amigáveis de recusa exibidas ao cliente. O código cru do
// gateway nunca vaza para fora em produção.
const (
	RecusaCartao      = "Pagamento recusado pelo banco emissor. Verifique os dados ou tente outro cartão."
	RecusaDocumento   = "Documento inválido. Confira o CPF informado."
	RecusaDadosCartao = "Dados do cartão inválidos. Confira número, validade e código de segurança."
	RecusaGenerica    = "Não foi possível concluir o pagamento. Tente novamente em instantes."
)

// códigos de retorno do adquirente agrupados por categoria
var categoriaPorCodigo = map[string]string{
	// recusas do emissor
	"05": RecusaCartao,
	"51": RecusaCartao,
	"57": RecusaCartao,
	"78": RecusaCartao,
	// documento
	"14": RecusaDocumento,
	// dados do cartão
	"12": RecusaDadosCartao,
	"54": RecusaDadosCartao,
	"82": RecusaDadosCartao,
	"N7": RecusaDadosCartao,
}

// MensagemAmigavel traduz o código de retorno do gateway para uma das
// categorias amigáveis. Em desenvolvimento o detalhe cru é anexado para
// facilitar depuração.
func MensagemAmigavel(returnCode, returnMessage string) string {
	msg, ok := categoriaPorCodigo[returnCode]
	if !ok {
		msg = RecusaGenerica
	}
	if os.Getenv("AMBIENTE") == "development" && returnMessage != "" {
		return msg + " [" + returnCode + ": " + returnMessage + "]"
	}
	return msg
}
