// internal/checkout/regras.go
package checkout

import (
	"github.com/VidaPet/api-assinaturas/internal/calendario"
	"github.com/VidaPet/api-assinaturas/internal/contrato"
	"github.com/VidaPet/api-assinaturas/internal/plano"
)

// MaxParcelasCartao é o teto de parcelamento no cartão para qualquer plano.
const MaxParcelasCartao = 12

// ValidarRegrasPagamento aplica as regras de cobrança do plano antes de
// qualquer chamada ao gateway. Recusa aqui não tem efeito colateral.
func ValidarRegrasPagamento(pl *plano.Plano, periodicidade calendario.Periodicidade, forma string, parcelasCartao int) error {
	if periodicidade != calendario.Mensal && periodicidade != calendario.Anual {
		return validacao("Periodicidade inválida. Use 'mensal' ou 'anual'.")
	}
	if pl.CobrancaAnual && periodicidade == calendario.Mensal {
		return validacao("O plano " + pl.Nome + " aceita apenas cobrança anual.")
	}

	switch forma {
	case contrato.FormaCartao:
		if parcelasCartao < 1 {
			return validacao("Número de parcelas do cartão inválido.")
		}
		if pl.ParcelaUnica && parcelasCartao > 1 {
			return validacao("O plano " + pl.Nome + " não permite parcelamento no cartão.")
		}
		if parcelasCartao > MaxParcelasCartao {
			return validacao("Parcelamento no cartão limitado a 12 vezes.")
		}
	case contrato.FormaPix:
		if parcelasCartao > 1 {
			return validacao("PIX não aceita parcelamento.")
		}
	default:
		return validacao("Forma de pagamento inválida. Use 'cartao' ou 'pix'.")
	}
	return nil
}
