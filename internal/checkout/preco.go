// internal/checkout/preco.go
package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/VidaPet/api-assinaturas/internal/calendario"
	"github.com/VidaPet/api-assinaturas/internal/cupom"
	"github.com/VidaPet/api-assinaturas/internal/plano"
)

// Escada de desconto multi-pet: percentual por índice do pet no carrinho.
// Pet 0 paga cheio; do quarto em diante o desconto trava em 15%.
var escalaMultiPet = []int64{0, 5, 10, 15}

// ResultadoPreco é o preço autoritativo calculado no servidor. O valor
// enviado pelo navegador nunca entra na conta.
type ResultadoPreco struct {
	PorPet   []decimal.Decimal // valor do ciclo de cada pet, após a escada
	Subtotal decimal.Decimal   // soma dos pets, antes do cupom
	Desconto decimal.Decimal   // desconto do cupom
	Total    decimal.Decimal   // valor efetivamente cobrado
}

// CalcularPreco aplica, nesta ordem: preço base do plano; ×12 quando a
// cobrança é anual; escada multi-pet por índice, calculada por pet e somada;
// cupom (percentual ou fixo — fixo nunca leva o total abaixo de zero).
func CalcularPreco(pl *plano.Plano, periodicidade calendario.Periodicidade, numPets int, cup *cupom.Cupom) ResultadoPreco {
	base := decimal.NewFromFloat(pl.ValorBase)
	if periodicidade == calendario.Anual {
		base = base.Mul(decimal.NewFromInt(12))
	}

	res := ResultadoPreco{Subtotal: decimal.Zero, Desconto: decimal.Zero}
	cem := decimal.NewFromInt(100)

	for i := 0; i < numPets; i++ {
		valor := base
		if pl.DescontoMultiPet {
			idx := i
			if idx >= len(escalaMultiPet) {
				idx = len(escalaMultiPet) - 1
			}
			pct := decimal.NewFromInt(escalaMultiPet[idx])
			valor = base.Sub(base.Mul(pct).Div(cem))
		}
		valor = valor.Round(2)
		res.PorPet = append(res.PorPet, valor)
		res.Subtotal = res.Subtotal.Add(valor)
	}

	res.Total = res.Subtotal
	if cup != nil {
		switch cup.Tipo {
		case cupom.TipoPercentual:
			res.Desconto = res.Subtotal.Mul(decimal.NewFromFloat(cup.Valor)).Div(cem).Round(2)
		case cupom.TipoFixo:
			res.Desconto = decimal.NewFromFloat(cup.Valor)
			if res.Desconto.GreaterThan(res.Subtotal) {
				res.Desconto = res.Subtotal
			}
		}
		res.Total = res.Subtotal.Sub(res.Desconto)
	}
	return res
}

// Centavos converte um valor decimal para centavos inteiros (formato do
// gateway).
func Centavos(v decimal.Decimal) int64 {
	return v.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
