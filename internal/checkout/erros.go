// internal/checkout/erros.go
package checkout

import "errors"

// Taxonomia de erros do checkout. Os handlers traduzem cada categoria para o
// status HTTP adequado; falhas de validação e de regra de pagamento sempre
// abortam antes de qualquer chamada ao gateway.
var (
	// ErrValidacao: campo ausente ou malformado na requisição.
	ErrValidacao = errors.New("requisição inválida")
	// ErrNaoEncontrado: sessão, plano, contrato ou parcela inexistente.
	ErrNaoEncontrado = errors.New("registro não encontrado")
	// ErrPagamentoRecusado: o gateway não aprovou a cobrança. Nenhuma
	// mutação no razão acontece.
	ErrPagamentoRecusado = errors.New("pagamento recusado")
)

// erroComMensagem embrulha uma categoria com a mensagem exibível.
type erroComMensagem struct {
	categoria error
	msg       string
}

func (e *erroComMensagem) Error() string { return e.msg }
func (e *erroComMensagem) Unwrap() error { return e.categoria }

func validacao(msg string) error {
	return &erroComMensagem{categoria: ErrValidacao, msg: msg}
}

func naoEncontrado(msg string) error {
	return &erroComMensagem{categoria: ErrNaoEncontrado, msg: msg}
}

func recusado(msg string) error {
	return &erroComMensagem{categoria: ErrPagamentoRecusado, msg: msg}
}
