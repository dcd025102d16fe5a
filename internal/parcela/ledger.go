// internal/parcela/ledger.go
package parcela

import (
	"time"

	"github.com/VidaPet/api-assinaturas/internal/calendario"
	"github.com/VidaPet/api-assinaturas/internal/contrato"
)

// Ledger é o dono das invariantes do razão de parcelas: numeração monotônica,
// períodos contíguos e no máximo uma parcela em aberto por contrato.
type Ledger struct {
	Repo *Repository
}

func NewLedger(repo *Repository) *Ledger {
	return &Ledger{Repo: repo}
}

// CriarPrimeiraParcela registra a parcela número 1 no momento da cobrança.
// O vencimento É o instante da cobrança, não daqui a um ciclo: o período
// comprado começa agora. A parcela nasce pendente; quem a quita é sempre a
// reconciliação, para cartão e PIX.
func (l *Ledger) CriarPrimeiraParcela(c *contrato.Contrato, paymentID string, agora time.Time) (*Parcela, error) {
	p := &Parcela{
		ContratoID:     c.ID,
		Numero:         1,
		DataVencimento: agora,
		InicioPeriodo:  agora,
		FimPeriodo:     calendario.FimPeriodo(agora, c.Periodicidade),
		Valor:          c.ValorDoCiclo(),
		Status:         StatusPendente,
		PaymentID:      paymentID,
	}
	if err := l.Repo.Criar(p); err != nil {
		return nil, err
	}
	return p, nil
}

// CriarProximaParcelaSeNecessario emite a parcela sucessora depois de um
// pagamento. A trava de idempotência: se o contrato já tem qualquer parcela
// não paga além da recém-quitada, não cria nada — webhooks redelivrados e
// cliques repetidos viram no-ops.
//
// O próximo vencimento é calculado a partir do vencimento anterior, não da
// data em que o pagamento de fato entrou: pagar atrasado (ou adiantado) nunca
// desloca o calendário de cobrança.
func (l *Ledger) CriarProximaParcelaSeNecessario(c *contrato.Contrato, parcelaPaga *Parcela) (*Parcela, error) {
	existe, err := l.Repo.ExisteNaoPagaNoContrato(c.ID, parcelaPaga.ID)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, nil
	}

	max, err := l.Repo.MaxNumero(c.ID)
	if err != nil {
		return nil, err
	}

	inicio := parcelaPaga.FimPeriodo.AddDate(0, 0, 1)
	p := &Parcela{
		ContratoID:     c.ID,
		Numero:         max + 1,
		DataVencimento: calendario.AvancarCiclo(parcelaPaga.DataVencimento, c.Periodicidade),
		InicioPeriodo:  inicio,
		FimPeriodo:     calendario.FimPeriodo(inicio, c.Periodicidade),
		Valor:          c.ValorDoCiclo(),
		Status:         StatusPendente,
	}
	if err := l.Repo.Criar(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ProjetarProximaParcela sintetiza a próxima parcela quando a linha física
// ainda não existe (ex.: contrato anual com a última parcela paga e a criação
// em segundo plano ainda não rodou). É só projeção de leitura: nunca é
// persistida, e some assim que a linha real aparece.
func (l *Ledger) ProjetarProximaParcela(c *contrato.Contrato, parcelas []Parcela) *Parcela {
	if len(parcelas) == 0 {
		return nil
	}

	var ultima *Parcela
	for i := range parcelas {
		if !parcelas[i].Paga() {
			// já existe parcela em aberto; nada a projetar
			return nil
		}
		if ultima == nil || parcelas[i].Numero > ultima.Numero {
			ultima = &parcelas[i]
		}
	}

	inicio := ultima.FimPeriodo.AddDate(0, 0, 1)
	return &Parcela{
		ContratoID:     c.ID,
		Numero:         ultima.Numero + 1,
		DataVencimento: calendario.AvancarCiclo(ultima.DataVencimento, c.Periodicidade),
		InicioPeriodo:  inicio,
		FimPeriodo:     calendario.FimPeriodo(inicio, c.Periodicidade),
		Valor:          c.ValorDoCiclo(),
		Status:         StatusPendente,
		Virtual:        true,
	}
}

// Particao agrupa parcelas pelo status efetivo na data de referência.
type Particao struct {
	Pagas    []Parcela `json:"pagas"`
	Vigentes []Parcela `json:"vigentes"`
	Vencidas []Parcela `json:"vencidas"`
}

// Particionar classifica as parcelas para a área do cliente.
// Pendentes futuras entram em Vigentes: para o tutor, é a próxima cobrança.
func Particionar(parcelas []Parcela, agora time.Time) Particao {
	part := Particao{
		Pagas:    []Parcela{},
		Vigentes: []Parcela{},
		Vencidas: []Parcela{},
	}
	for _, p := range parcelas {
		p.Status = p.StatusEfetivo(agora)
		switch p.Status {
		case StatusPaga:
			part.Pagas = append(part.Pagas, p)
		case StatusVencida:
			part.Vencidas = append(part.Vencidas, p)
		default:
			part.Vigentes = append(part.Vigentes, p)
		}
	}
	return part
}
