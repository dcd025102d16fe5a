// internal/calendario/calendario.go
package calendario

import (
	"time"

	"github.com/shopspring/decimal"
)

// Periodicidade define a cadência de cobrança de um contrato.
type Periodicidade string

const (
	Mensal Periodicidade = "mensal"
	Anual  Periodicidade = "anual"
)

// AddMeses avança a data em n meses preservando o dia do mês.
// Se o mês de destino for mais curto (ex.: 31/jan + 1 mês), ajusta para o
// último dia válido do mês de destino.
func AddMeses(t time.Time, n int) time.Time {
	ano, mes, dia := t.Date()
	alvo := time.Date(ano, mes+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	ultimo := ultimoDiaDoMes(alvo.Year(), alvo.Month())
	if dia > ultimo {
		dia = ultimo
	}
	return time.Date(alvo.Year(), alvo.Month(), dia, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddAnos avança a data em n anos preservando dia e mês (29/fev vira 28/fev
// em ano não bissexto).
func AddAnos(t time.Time, n int) time.Time {
	return AddMeses(t, n*12)
}

// AvancarCiclo avança a data em um ciclo de cobrança completo.
func AvancarCiclo(t time.Time, p Periodicidade) time.Time {
	if p == Anual {
		return AddAnos(t, 1)
	}
	return AddMeses(t, 1)
}

// FimPeriodo retorna o último dia coberto pelo período que começa em inicio.
func FimPeriodo(inicio time.Time, p Periodicidade) time.Time {
	return AvancarCiclo(inicio, p).AddDate(0, 0, -1)
}

// PeriodosVencidos conta quantos ciclos completos de cobrança se passaram sem
// pagamento, para fins de regularização. Quando nunca houve pagamento
// (ultimoPagamento == nil) a contagem parte do início do contrato; dentro do
// primeiro período o resultado é 0.
func PeriodosVencidos(ultimoPagamento *time.Time, agora time.Time, p Periodicidade, inicioContrato time.Time) int {
	ref := inicioContrato
	if ultimoPagamento != nil {
		ref = *ultimoPagamento
	}
	vencidos := 0
	limite := AvancarCiclo(ref, p)
	for !agora.Before(limite) {
		vencidos++
		limite = AvancarCiclo(limite, p)
	}
	return vencidos
}

// ValorRegularizacao calcula o valor devido para colocar o contrato em dia.
// Com incluiAtual o período corrente (ainda não pago) entra na conta.
func ValorRegularizacao(valorBase decimal.Decimal, periodosVencidos int, incluiAtual bool) decimal.Decimal {
	n := periodosVencidos
	if incluiAtual {
		n++
	}
	return valorBase.Mul(decimal.NewFromInt(int64(n)))
}

func ultimoDiaDoMes(ano int, mes time.Month) int {
	return time.Date(ano, mes+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
