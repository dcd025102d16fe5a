package calendario

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func data(ano int, mes time.Month, dia int) time.Time {
	return time.Date(ano, mes, dia, 0, 0, 0, 0, time.UTC)
}

func TestAddMeses(t *testing.T) {
	t.Run("mantém o dia do mês", func(t *testing.T) {
		assert.Equal(t, data(2024, time.April, 15), AddMeses(data(2024, time.March, 15), 1))
	})

	t.Run("ajusta para o último dia de mês mais curto", func(t *testing.T) {
		assert.Equal(t, data(2025, time.February, 28), AddMeses(data(2025, time.January, 31), 1))
		assert.Equal(t, data(2024, time.February, 29), AddMeses(data(2024, time.January, 31), 1))
	})

	t.Run("atravessa a virada do ano", func(t *testing.T) {
		assert.Equal(t, data(2025, time.January, 10), AddMeses(data(2024, time.December, 10), 1))
	})

	t.Run("volta ao mesmo dia quando não há ajuste", func(t *testing.T) {
		d := data(2024, time.May, 15)
		assert.Equal(t, d, AddMeses(AddMeses(d, 3), -3))
	})
}

func TestAddAnos(t *testing.T) {
	assert.Equal(t, data(2025, time.February, 28), AddAnos(data(2024, time.February, 29), 1))
	assert.Equal(t, data(2026, time.July, 1), AddAnos(data(2025, time.July, 1), 1))
}

func TestFimPeriodo(t *testing.T) {
	t.Run("mensal termina na véspera do próximo ciclo", func(t *testing.T) {
		assert.Equal(t, data(2025, time.April, 14), FimPeriodo(data(2025, time.March, 15), Mensal))
	})

	t.Run("anual cobre um ano menos um dia", func(t *testing.T) {
		assert.Equal(t, data(2026, time.March, 14), FimPeriodo(data(2025, time.March, 15), Anual))
	})
}

func TestPeriodosVencidos(t *testing.T) {
	inicio := data(2025, time.January, 10)

	t.Run("zero dentro do primeiro período sem pagamento", func(t *testing.T) {
		assert.Equal(t, 0, PeriodosVencidos(nil, data(2025, time.February, 5), Mensal, inicio))
	})

	t.Run("dois ciclos mensais completos sem pagamento", func(t *testing.T) {
		ultimo := data(2025, time.March, 10)
		assert.Equal(t, 2, PeriodosVencidos(&ultimo, data(2025, time.May, 20), Mensal, inicio))
	})

	t.Run("anual ainda dentro do ciclo", func(t *testing.T) {
		ultimo := data(2025, time.January, 10)
		assert.Equal(t, 0, PeriodosVencidos(&ultimo, data(2025, time.December, 1), Anual, inicio))
	})
}

func TestValorRegularizacao(t *testing.T) {
	base := decimal.NewFromInt(100)

	t.Run("inclui período corrente", func(t *testing.T) {
		assert.True(t, decimal.NewFromInt(300).Equal(ValorRegularizacao(base, 2, true)))
	})

	t.Run("apenas períodos vencidos", func(t *testing.T) {
		assert.True(t, decimal.NewFromInt(200).Equal(ValorRegularizacao(base, 2, false)))
	})
}
