// internal/checkout/regras_test.go
package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VidaPet/api-assinaturas/internal/calendario"
	"github.com/VidaPet/api-assinaturas/internal/contrato"
	"github.com/VidaPet/api-assinaturas/internal/plano"
)

func TestValidarRegrasPagamento(t *testing.T) {
	comum := &plano.Plano{Nome: "Basic", Codigo: "BASIC", ValorBase: 60}
	anualObrigatorio := &plano.Plano{Nome: "Premium Anual", Codigo: "PREMIUM", ValorBase: 120, CobrancaAnual: true}
	semParcelamento := &plano.Plano{Nome: "Light", Codigo: "LIGHT", ValorBase: 40, ParcelaUnica: true}

	casos := []struct {
		nome     string
		pl       *plano.Plano
		per      calendario.Periodicidade
		forma    string
		parcelas int
		erro     bool
	}{
		{"cartão à vista", comum, calendario.Mensal, contrato.FormaCartao, 1, false},
		{"cartão 12x anual", comum, calendario.Anual, contrato.FormaCartao, 12, false},
		{"cartão acima do teto", comum, calendario.Anual, contrato.FormaCartao, 13, true},
		{"cartão sem parcelas", comum, calendario.Mensal, contrato.FormaCartao, 0, true},
		{"pix à vista", comum, calendario.Mensal, contrato.FormaPix, 1, false},
		{"pix parcelado", comum, calendario.Anual, contrato.FormaPix, 2, true},
		{"plano anual em cadência mensal", anualObrigatorio, calendario.Mensal, contrato.FormaCartao, 1, true},
		{"plano anual em cadência anual", anualObrigatorio, calendario.Anual, contrato.FormaCartao, 1, false},
		{"parcela única parcelada", semParcelamento, calendario.Mensal, contrato.FormaCartao, 2, true},
		{"forma desconhecida", comum, calendario.Mensal, "boleto", 1, true},
		{"periodicidade desconhecida", comum, calendario.Periodicidade("semanal"), contrato.FormaCartao, 1, true},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			err := ValidarRegrasPagamento(c.pl, c.per, c.forma, c.parcelas)
			if c.erro {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
