// internal/parcela/ledger_test.go
package parcela

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/VidaPet/api-assinaturas/internal/calendario"
	"github.com/VidaPet/api-assinaturas/internal/contrato"
)

func setupLedger(t *testing.T) (*gorm.DB, *Ledger) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&contrato.Contrato{}, &Parcela{}))
	return db, NewLedger(NewRepository(db))
}

func contratoMensal(t *testing.T, db *gorm.DB) *contrato.Contrato {
	t.Helper()
	c := &contrato.Contrato{
		ClienteID:      1,
		PetID:          1,
		PlanoID:        1,
		NumeroContrato: "VP-TESTE01",
		Periodicidade:  calendario.Mensal,
		Status:         contrato.StatusPendente,
		DataInicio:     time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		ValorMensal:    100,
		FormaPagamento: contrato.FormaCartao,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestCriarPrimeiraParcela(t *testing.T) {
	db, ledger := setupLedger(t)
	c := contratoMensal(t, db)

	agora := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p, err := ledger.CriarPrimeiraParcela(c, "pay-1", agora)
	require.NoError(t, err)

	assert.Equal(t, 1, p.Numero)
	assert.Equal(t, StatusPendente, p.Status)
	// o vencimento é o instante da cobrança, não um ciclo adiante
	assert.Equal(t, agora, p.DataVencimento)
	assert.Equal(t, agora, p.InicioPeriodo)
	assert.Equal(t, time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC), p.FimPeriodo)
	assert.Equal(t, 100.0, p.Valor)
	assert.Equal(t, "pay-1", p.PaymentID)
}

func TestCriarProximaParcelaAncoradaNoVencimentoAnterior(t *testing.T) {
	db, ledger := setupLedger(t)
	c := contratoMensal(t, db)

	inicio := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p1, err := ledger.CriarPrimeiraParcela(c, "pay-1", inicio)
	require.NoError(t, err)

	// pagamento atrasado: quitada só em 20/fev
	pagaEm := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	ok, err := ledger.Repo.MarcarPaga(p1.ID, pagaEm)
	require.NoError(t, err)
	require.True(t, ok)
	p1.Status = StatusPaga

	p2, err := ledger.CriarProximaParcelaSeNecessario(c, p1)
	require.NoError(t, err)
	require.NotNil(t, p2)

	// o atraso não desloca o calendário: vence em 15/fev, não em 20/mar
	assert.Equal(t, 2, p2.Numero)
	assert.Equal(t, time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC), p2.DataVencimento)
	// períodos contíguos: início = fim do anterior + 1 dia
	assert.Equal(t, p1.FimPeriodo.AddDate(0, 0, 1), p2.InicioPeriodo)
}

func TestCriarProximaParcelaIdempotente(t *testing.T) {
	db, ledger := setupLedger(t)
	c := contratoMensal(t, db)

	inicio := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p1, err := ledger.CriarPrimeiraParcela(c, "pay-1", inicio)
	require.NoError(t, err)

	ok, err := ledger.Repo.MarcarPaga(p1.ID, inicio)
	require.NoError(t, err)
	require.True(t, ok)
	p1.Status = StatusPaga

	p2, err := ledger.CriarProximaParcelaSeNecessario(c, p1)
	require.NoError(t, err)
	require.NotNil(t, p2)

	// gatilho redundante (webhook reentregue): nada novo é criado
	repetida, err := ledger.CriarProximaParcelaSeNecessario(c, p1)
	require.NoError(t, err)
	assert.Nil(t, repetida)

	var total int64
	require.NoError(t, db.Model(&Parcela{}).Where("contrato_id = ?", c.ID).Count(&total).Error)
	assert.EqualValues(t, 2, total)
}

func TestMarcarPagaExatamenteUmaVez(t *testing.T) {
	db, ledger := setupLedger(t)
	c := contratoMensal(t, db)

	p, err := ledger.CriarPrimeiraParcela(c, "pay-1", time.Now())
	require.NoError(t, err)

	agora := time.Now()
	ok, err := ledger.Repo.MarcarPaga(p.ID, agora)
	require.NoError(t, err)
	assert.True(t, ok)

	// segunda confirmação do mesmo pagamento não muta nada
	ok, err = ledger.Repo.MarcarPaga(p.ID, agora.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProjetarProximaParcela(t *testing.T) {
	db, ledger := setupLedger(t)
	c := contratoMensal(t, db)

	inicio := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p1, err := ledger.CriarPrimeiraParcela(c, "pay-1", inicio)
	require.NoError(t, err)

	// com parcela em aberto não há nada a projetar
	assert.Nil(t, ledger.ProjetarProximaParcela(c, []Parcela{*p1}))

	ok, err := ledger.Repo.MarcarPaga(p1.ID, inicio)
	require.NoError(t, err)
	require.True(t, ok)
	p1.Status = StatusPaga

	proj := ledger.ProjetarProximaParcela(c, []Parcela{*p1})
	require.NotNil(t, proj)
	assert.True(t, proj.Virtual)
	assert.Equal(t, 2, proj.Numero)
	assert.Equal(t, time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC), proj.DataVencimento)

	// a projeção nunca é persistida
	var total int64
	require.NoError(t, db.Model(&Parcela{}).Where("contrato_id = ?", c.ID).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func TestStatusEfetivo(t *testing.T) {
	venc := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	p := Parcela{
		Status:         StatusPendente,
		DataVencimento: venc,
		InicioPeriodo:  venc,
		FimPeriodo:     time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, StatusPendente, p.StatusEfetivo(venc.AddDate(0, 0, -1)))
	assert.Equal(t, StatusVigente, p.StatusEfetivo(venc.AddDate(0, 0, 10)))
	assert.Equal(t, StatusVencida, p.StatusEfetivo(venc.AddDate(0, 2, 0)))

	p.Status = StatusPaga
	assert.Equal(t, StatusPaga, p.StatusEfetivo(venc.AddDate(0, 2, 0)))
}
