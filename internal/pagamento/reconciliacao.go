// internal/pagamento/reconciliacao.go
package pagamento

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/VidaPet/api-assinaturas/internal/calendario"
	"github.com/VidaPet/api-assinaturas/internal/cliente"
	"github.com/VidaPet/api-assinaturas/internal/contrato"
	"github.com/VidaPet/api-assinaturas/internal/parcela"
	"github.com/VidaPet/api-assinaturas/internal/pet"
	"github.com/VidaPet/api-assinaturas/internal/plano"
	"github.com/VidaPet/api-assinaturas/internal/recibo"
)

// Reconciliador é o único caminho pelo qual uma confirmação externa de
// pagamento muda o razão de parcelas. Tanto o webhook quanto o polling do
// checkout desembocam em ConfirmarPagamento, que é idempotente: o segundo
// gatilho encontra a parcela já paga e não muta nada.
type Reconciliador struct {
	Parcelas  *parcela.Repository
	Ledger    *parcela.Ledger
	Contratos *contrato.Repository
	Clientes  *cliente.Repository
	Pets      *pet.Repository
	Planos    *plano.Repository
	Recibos   recibo.Gerador
	Log       *zap.Logger

	// PosConfirmacao, quando definido, roda uma vez por confirmação efetiva
	// (uso do cupom, fechamento da sessão de checkout). Best-effort.
	PosConfirmacao func(ctx context.Context, paymentID string)
}

func NewReconciliador(
	parcelas *parcela.Repository,
	ledger *parcela.Ledger,
	contratos *contrato.Repository,
	clientes *cliente.Repository,
	pets *pet.Repository,
	planos *plano.Repository,
	recibos recibo.Gerador,
	log *zap.Logger,
) *Reconciliador {
	return &Reconciliador{
		Parcelas:  parcelas,
		Ledger:    ledger,
		Contratos: contratos,
		Clientes:  clientes,
		Pets:      pets,
		Planos:    planos,
		Recibos:   recibos,
		Log:       log,
	}
}

// ConfirmarPagamento aplica a confirmação de um pagamento aprovado:
// marca as parcelas como pagas exatamente uma vez, ativa os contratos,
// encadeia a criação da próxima parcela e emite o recibo unificado.
//
// Retorna quantas parcelas foram efetivamente quitadas nesta chamada —
// zero significa gatilho redundante (já processado antes).
//
// Depois que o pagamento está capturado no gateway, falha em etapa
// posterior (recibo, próxima parcela) é registrada e pulada, nunca
// propagada: reverter uma captura é pior do que ficar sem recibo.
func (r *Reconciliador) ConfirmarPagamento(ctx context.Context, paymentID string) (int, error) {
	pendentes, err := r.Parcelas.ListNaoPagasPorPaymentID(paymentID)
	if err != nil {
		return 0, err
	}
	if len(pendentes) == 0 {
		return 0, nil
	}

	agora := time.Now()
	var quitadas []parcela.Parcela
	for _, p := range pendentes {
		ok, err := r.Parcelas.MarcarPaga(p.ID, agora)
		if err != nil {
			return len(quitadas), err
		}
		if !ok {
			// outro gatilho chegou primeiro
			continue
		}
		p.Status = parcela.StatusPaga
		p.DataPagamento = &agora
		quitadas = append(quitadas, p)
	}
	if len(quitadas) == 0 {
		return 0, nil
	}

	for _, p := range quitadas {
		r.posPagamento(p, agora)
	}

	r.emitirReciboUnificado(ctx, paymentID, quitadas, agora)

	if r.PosConfirmacao != nil {
		r.PosConfirmacao(ctx, paymentID)
	}

	return len(quitadas), nil
}

// posPagamento cuida do contrato e da próxima parcela. Tudo aqui é
// best-effort: o pagamento já aconteceu.
func (r *Reconciliador) posPagamento(p parcela.Parcela, agora time.Time) {
	c, err := r.Contratos.FindByID(p.ContratoID)
	if err != nil {
		r.Log.Warn("contrato da parcela quitada não encontrado",
			zap.Uint("parcelaId", p.ID), zap.Uint("contratoId", p.ContratoID), zap.Error(err))
		return
	}

	if c.Status != contrato.StatusAtivo {
		if err := r.Contratos.Ativar(c.ID, agora); err != nil {
			r.Log.Warn("falha ao ativar contrato após pagamento",
				zap.Uint("contratoId", c.ID), zap.Error(err))
		}
	}

	// renovação anual confirmada via PIX: a vigência acompanha o período
	// coberto pela parcela quitada
	if c.Periodicidade == calendario.Anual && c.FormaPagamento == contrato.FormaPix && p.Numero > 1 {
		if err := r.Contratos.RenovarVigencia(c.ID, p.InicioPeriodo, p.FimPeriodo); err != nil {
			r.Log.Warn("falha ao renovar vigência do contrato",
				zap.Uint("contratoId", c.ID), zap.Error(err))
		}
	}

	if _, err := r.Ledger.CriarProximaParcelaSeNecessario(c, &p); err != nil {
		r.Log.Warn("falha ao criar a próxima parcela",
			zap.Uint("contratoId", c.ID), zap.Int("parcelaNumero", p.Numero), zap.Error(err))
	}
}

// emitirReciboUnificado gera um único recibo cobrindo todas as parcelas (e
// pets) pagas pela mesma transação, e grava o mesmo reciboID em todas elas.
func (r *Reconciliador) emitirReciboUnificado(ctx context.Context, paymentID string, quitadas []parcela.Parcela, agora time.Time) {
	dados := recibo.DadosRecibo{PagoEm: agora}

	for _, p := range quitadas {
		c, err := r.Contratos.FindByID(p.ContratoID)
		if err != nil {
			continue
		}
		item := recibo.ItemRecibo{NumeroContrato: c.NumeroContrato, Valor: p.Valor}
		if pl, err := r.Planos.FindByID(c.PlanoID); err == nil {
			item.Plano = pl.Nome
		}
		if animal, err := r.Pets.FindByID(c.PetID); err == nil {
			item.NomePet = animal.Nome
		}
		if dados.NomeCliente == "" {
			if cl, err := r.Clientes.FindByID(c.ClienteID); err == nil {
				dados.NomeCliente = cl.Nome + " " + cl.Sobrenome
				dados.CPF = cl.Documento()
			}
			dados.FormaPagamento = c.FormaPagamento
		}
		dados.ValorTotal += p.Valor
		dados.Itens = append(dados.Itens, item)
	}

	res, err := r.Recibos.GerarReciboPagamento(ctx, dados, paymentID)
	if err != nil || !res.Sucesso {
		r.Log.Warn("falha ao gerar recibo do pagamento",
			zap.String("paymentId", paymentID), zap.Error(err))
		return
	}

	for _, p := range quitadas {
		if err := r.Parcelas.UpdateReciboID(p.ID, res.ReciboID); err != nil {
			r.Log.Warn("falha ao gravar recibo na parcela",
				zap.Uint("parcelaId", p.ID), zap.Error(err))
		}
	}
}
