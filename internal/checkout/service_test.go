// internal/checkout/service_test.go
package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/VidaPet/api-assinaturas/internal/auth"
	"github.com/VidaPet/api-assinaturas/internal/calendario"
	"github.com/VidaPet/api-assinaturas/internal/cliente"
	"github.com/VidaPet/api-assinaturas/internal/contrato"
	"github.com/VidaPet/api-assinaturas/internal/cupom"
	"github.com/VidaPet/api-assinaturas/internal/gateway"
	"github.com/VidaPet/api-assinaturas/internal/pagamento"
	"github.com/VidaPet/api-assinaturas/internal/parcela"
	"github.com/VidaPet/api-assinaturas/internal/pet"
	"github.com/VidaPet/api-assinaturas/internal/plano"
	"github.com/VidaPet/api-assinaturas/internal/recibo"
)

type gatewayFake struct {
	cartao         *gateway.PagamentoCartaoResponse
	pix            *gateway.PagamentoPixResponse
	valoresCartao  []int64
	parcelasCartao []int
}

func (g *gatewayFake) CriarPagamentoCartao(_ context.Context, req gateway.PagamentoCartaoRequest) (*gateway.PagamentoCartaoResponse, error) {
	g.valoresCartao = append(g.valoresCartao, req.ValorCentavos)
	g.parcelasCartao = append(g.parcelasCartao, req.Parcelas)
	return g.cartao, nil
}

func (g *gatewayFake) CriarPagamentoPix(_ context.Context, _ gateway.PagamentoPixRequest) (*gateway.PagamentoPixResponse, error) {
	return g.pix, nil
}

func (g *gatewayFake) ConsultarPagamento(_ context.Context, paymentID string) (*gateway.ConsultaPagamento, error) {
	return &gateway.ConsultaPagamento{PaymentID: paymentID, Status: gateway.StatusCapturado}, nil
}

type reciboFake struct{ chamadas int }

func (r *reciboFake) GerarReciboPagamento(_ context.Context, _ recibo.DadosRecibo, _ string) (*recibo.ResultadoRecibo, error) {
	r.chamadas++
	return &recibo.ResultadoRecibo{Sucesso: true, ReciboID: "rec-100"}, nil
}

type ambiente struct {
	db  *gorm.DB
	svc *Service
	gw  *gatewayFake
}

func montarAmbiente(t *testing.T) *ambiente {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&cliente.Cliente{}, &pet.Pet{}, &plano.Plano{}, &contrato.Contrato{},
		&parcela.Parcela{}, &cupom.Cupom{}, &Sessao{}, &auth.RefreshToken{},
	))

	parcelaRepo := parcela.NewRepository(db)
	ledger := parcela.NewLedger(parcelaRepo)
	contratoRepo := contrato.NewRepository(db)
	clienteRepo := cliente.NewRepository(db)
	petRepo := pet.NewRepository(db)
	planoRepo := plano.NewRepository(db)
	cupomRepo := cupom.NewRepository(db)

	gw := &gatewayFake{}
	rec := pagamento.NewReconciliador(
		parcelaRepo, ledger, contratoRepo, clienteRepo, petRepo, planoRepo,
		&reciboFake{}, zap.NewNop(),
	)

	svc := &Service{
		Sessoes:       NewRepository(db),
		Clientes:      clienteRepo,
		Pets:          petRepo,
		Planos:        planoRepo,
		Contratos:     contratoRepo,
		Parcelas:      parcelaRepo,
		Ledger:        ledger,
		Cupons:        cupomRepo,
		Gateway:       gw,
		Reconciliador: rec,
		Log:           zap.NewNop(),
	}
	rec.PosConfirmacao = svc.FinalizarPorPagamento

	return &ambiente{db: db, svc: svc, gw: gw}
}

func (a *ambiente) criarPlano(t *testing.T, valor float64, multiPet bool) *plano.Plano {
	t.Helper()
	pl := &plano.Plano{Nome: "Comfort", Codigo: "COMFORT", ValorBase: valor, DescontoMultiPet: multiPet, Ativo: true}
	require.NoError(t, a.db.Create(pl).Error)
	return pl
}

func (a *ambiente) sessaoCompleta(t *testing.T, planoID uint, pets []PetDTO, cupomCodigo string) *Sessao {
	t.Helper()
	sess, err := a.svc.IniciarSessao(dadosClienteRequest{
		Nome:          "Ana",
		Sobrenome:     "Souza",
		Email:         "ana@teste.com",
		Senha:         "segredo123",
		PlanoID:       planoID,
		Periodicidade: "mensal",
		Pets:          pets,
		CupomCodigo:   cupomCodigo,
	})
	require.NoError(t, err)

	sess, err = a.svc.CompletarCadastro(completarCadastroRequest{
		Sessao:     sess.Token,
		CPF:        "529.982.247-25",
		CEP:        "01310-100",
		Logradouro: "Av. Paulista",
		Numero:     "1000",
		Cidade:     "São Paulo",
		Estado:     "SP",
	})
	require.NoError(t, err)
	return sess
}

func cartaoAprovado(paymentID string) *gateway.PagamentoCartaoResponse {
	return &gateway.PagamentoCartaoResponse{
		PaymentID: paymentID, Status: gateway.StatusCapturado,
		ProofOfSale: "pos", AuthorizationCode: "auth", Tid: "tid", ReturnCode: "4",
	}
}

func TestProcessarCartaoAprovadoProvisionaTudo(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, true)
	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "Rex"}, {Nome: "Mia"}}, "")
	a.gw.cartao = cartaoAprovado("pay-10")

	resp, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 1,
	})
	require.NoError(t, err)
	assert.True(t, resp.Aprovado)
	assert.Len(t, resp.Contratos, 2)
	assert.Equal(t, "rec-100", resp.ReciboID)

	// preço autoritativo: 100 + 95 = 195,00 em centavos
	require.Len(t, a.gw.valoresCartao, 1)
	assert.Equal(t, int64(19500), a.gw.valoresCartao[0])

	var contratos []contrato.Contrato
	require.NoError(t, a.db.Find(&contratos).Error)
	require.Len(t, contratos, 2)
	for _, c := range contratos {
		assert.Equal(t, contrato.StatusAtivo, c.Status)
		assert.Equal(t, "pay-10", c.PaymentID)
	}

	// cada contrato fica com a parcela 1 paga e a 2 pendente
	var parcelas []parcela.Parcela
	require.NoError(t, a.db.Order("contrato_id, numero").Find(&parcelas).Error)
	require.Len(t, parcelas, 4)

	// CPF normalizado e cliente promovido a definitivo
	var cli cliente.Cliente
	require.NoError(t, a.db.First(&cli).Error)
	assert.Equal(t, "52998224725", cli.Documento())
	assert.False(t, cli.Temporario)

	// sessão fechada pelo gancho de confirmação
	var s Sessao
	require.NoError(t, a.db.First(&s, sess.ID).Error)
	assert.True(t, s.Concluida)
}

func TestProcessarCartaoRecusadoNaoDeixaRastro(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)
	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "Rex"}}, "")
	a.gw.cartao = &gateway.PagamentoCartaoResponse{
		PaymentID: "pay-11", Status: 3, ReturnCode: "57", ReturnMessage: "Card Expired",
	}

	_, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 1,
	})
	require.ErrorIs(t, err, ErrPagamentoRecusado)

	var pets, contratos, parcelas int64
	a.db.Model(&pet.Pet{}).Count(&pets)
	a.db.Model(&contrato.Contrato{}).Count(&contratos)
	a.db.Model(&parcela.Parcela{}).Count(&parcelas)
	assert.Zero(t, pets)
	assert.Zero(t, contratos)
	assert.Zero(t, parcelas)
}

func TestProcessarPixFicaPendenteAteConfirmar(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)
	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "Rex"}}, "")
	a.gw.pix = &gateway.PagamentoPixResponse{
		PaymentID: "pay-12", Status: gateway.StatusPendente,
		QRCodeBase64: "qr", QRCodeCopiaCola: "copia-cola",
	}

	resp, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaPix,
	})
	require.NoError(t, err)
	assert.False(t, resp.Aprovado)
	assert.Equal(t, "qr", resp.QRCode)
	assert.Equal(t, "copia-cola", resp.CodigoCopiaCola)

	var c contrato.Contrato
	require.NoError(t, a.db.First(&c).Error)
	assert.Equal(t, contrato.StatusPendente, c.Status)

	var s Sessao
	require.NoError(t, a.db.First(&s, sess.ID).Error)
	assert.False(t, s.Concluida, "sessão só fecha quando o PIX confirmar")

	// confirmação assíncrona (webhook ou polling)
	quitadas, err := a.svc.Reconciliador.ConfirmarPagamento(context.Background(), "pay-12")
	require.NoError(t, err)
	assert.Equal(t, 1, quitadas)

	require.NoError(t, a.db.First(&c, c.ID).Error)
	assert.Equal(t, contrato.StatusAtivo, c.Status)
	require.NoError(t, a.db.First(&s, sess.ID).Error)
	assert.True(t, s.Concluida)
}

func TestProcessarReaproveitaPetExistente(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)

	// pet já cadastrado de uma compra anterior
	cli := &cliente.Cliente{Nome: "Ana", Sobrenome: "Souza", Email: "ana@teste.com", Senha: "x"}
	require.NoError(t, a.db.Create(cli).Error)
	require.NoError(t, a.db.Create(&pet.Pet{ClienteID: cli.ID, Nome: "Rex", Especie: "cachorro"}).Error)

	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "  rex "}}, "")
	a.gw.cartao = cartaoAprovado("pay-13")

	_, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 1,
	})
	require.NoError(t, err)

	// nome casa sem diferenciar caixa nem espaços: nada duplicado
	var total int64
	a.db.Model(&pet.Pet{}).Count(&total)
	assert.EqualValues(t, 1, total)
}

func TestCupomConsumidoUmaVezPorPagamento(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)
	cup := &cupom.Cupom{Codigo: "DEZ", Tipo: cupom.TipoPercentual, Valor: 10, Ativo: true}
	require.NoError(t, a.db.Create(cup).Error)

	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "Rex"}, {Nome: "Mia"}}, "DEZ")
	a.gw.cartao = cartaoAprovado("pay-14")

	_, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 1,
	})
	require.NoError(t, err)

	// desconto aplicado: (100+100) - 10% = 180,00
	require.Len(t, a.gw.valoresCartao, 1)
	assert.Equal(t, int64(18000), a.gw.valoresCartao[0])

	// dois pets, um pagamento: um uso
	var atual cupom.Cupom
	require.NoError(t, a.db.First(&atual, cup.ID).Error)
	assert.Equal(t, 1, atual.Usos)

	// gatilho repetido não conta de novo
	a.svc.FinalizarPorPagamento(context.Background(), "pay-14")
	require.NoError(t, a.db.First(&atual, cup.ID).Error)
	assert.Equal(t, 1, atual.Usos)
}

func TestCompletarCadastroCPFExistenteAssumeClienteAntigo(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)

	cpfAntigo := "52998224725"
	antigo := &cliente.Cliente{Nome: "Ana", Sobrenome: "Souza", Email: "antiga@teste.com", CPF: &cpfAntigo, Senha: "x"}
	require.NoError(t, a.db.Create(antigo).Error)

	sess, err := a.svc.IniciarSessao(dadosClienteRequest{
		Nome: "Ana", Email: "nova@teste.com", Senha: "segredo123",
		PlanoID: pl.ID, Periodicidade: "mensal", Pets: []PetDTO{{Nome: "Rex"}},
	})
	require.NoError(t, err)

	sess, err = a.svc.CompletarCadastro(completarCadastroRequest{
		Sessao: sess.Token, CPF: "529.982.247-25",
	})
	require.NoError(t, err)

	// a sessão passa a apontar para o cadastro pré-existente
	assert.Equal(t, antigo.ID, sess.ClienteID)

	// o temporário criado na etapa 1 foi descartado
	var temporarios int64
	a.db.Model(&cliente.Cliente{}).Where("temporario = ?", true).Count(&temporarios)
	assert.Zero(t, temporarios)
}

func TestPagarParcelaMaterializaProjecao(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)
	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "Rex"}}, "")
	a.gw.cartao = cartaoAprovado("pay-15")

	_, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 1,
	})
	require.NoError(t, err)

	var c contrato.Contrato
	require.NoError(t, a.db.First(&c).Error)

	// a parcela 2 já existe (criada na confirmação); quitá-la projeta a 3
	a.gw.cartao = cartaoAprovado("pay-16")
	resp, err := a.svc.PagarParcela(context.Background(), c.ClienteID, false, pagarParcelaRequest{
		ContratoID:     c.ID,
		Numero:         2,
		FormaPagamento: contrato.FormaCartao,
	})
	require.NoError(t, err)
	assert.True(t, resp.Aprovado)

	var parcelas []parcela.Parcela
	require.NoError(t, a.db.Where("contrato_id = ?", c.ID).Order("numero").Find(&parcelas).Error)
	require.Len(t, parcelas, 3)
	assert.Equal(t, parcela.StatusPaga, parcelas[1].Status)
	assert.Equal(t, parcela.StatusPendente, parcelas[2].Status)
	// vencimentos encadeados ciclo a ciclo a partir do anterior
	esperado := calendario.AvancarCiclo(parcelas[1].DataVencimento, calendario.Mensal)
	assert.WithinDuration(t, esperado, parcelas[2].DataVencimento, time.Second)
}

func TestPagarParcelaRepassaParcelamentoAoGateway(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)
	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "Rex"}}, "")
	a.gw.cartao = cartaoAprovado("pay-20")

	_, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 1,
	})
	require.NoError(t, err)

	var c contrato.Contrato
	require.NoError(t, a.db.First(&c).Error)

	a.gw.cartao = cartaoAprovado("pay-21")
	_, err = a.svc.PagarParcela(context.Background(), c.ClienteID, false, pagarParcelaRequest{
		ContratoID:     c.ID,
		Numero:         2,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 3,
	})
	require.NoError(t, err)
	require.Len(t, a.gw.parcelasCartao, 2)
	assert.Equal(t, 3, a.gw.parcelasCartao[1])

	// acima do teto a recusa acontece antes de qualquer chamada ao gateway
	_, err = a.svc.PagarParcela(context.Background(), c.ClienteID, false, pagarParcelaRequest{
		ContratoID:     c.ID,
		Numero:         3,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 13,
	})
	assert.ErrorIs(t, err, ErrValidacao)
	assert.Len(t, a.gw.parcelasCartao, 2)
}

func TestPagarParcelaDeOutroClienteNaoVaza(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)
	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "Rex"}}, "")
	a.gw.cartao = cartaoAprovado("pay-17")

	_, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 1,
	})
	require.NoError(t, err)

	var c contrato.Contrato
	require.NoError(t, a.db.First(&c).Error)

	_, err = a.svc.PagarParcela(context.Background(), c.ClienteID+99, false, pagarParcelaRequest{
		ContratoID:     c.ID,
		Numero:         2,
		FormaPagamento: contrato.FormaCartao,
	})
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestRegularizacaoContratoEmDia(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)
	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "Rex"}}, "")
	a.gw.cartao = cartaoAprovado("pay-18")

	_, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 1,
	})
	require.NoError(t, err)

	var c contrato.Contrato
	require.NoError(t, a.db.First(&c).Error)

	dto, err := a.svc.Regularizacao(c.ClienteID, false, c.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, dto.EmDia)
	assert.Zero(t, dto.ValorTotal)
}

func TestRegularizacaoContratoAtrasado(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)
	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "Rex"}}, "")
	a.gw.cartao = cartaoAprovado("pay-19")

	_, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 1,
	})
	require.NoError(t, err)

	var c contrato.Contrato
	require.NoError(t, a.db.First(&c).Error)

	// três meses sem pagar depois da primeira parcela quitada
	dto, err := a.svc.Regularizacao(c.ClienteID, false, c.ID, time.Now().AddDate(0, 3, 1))
	require.NoError(t, err)
	assert.False(t, dto.EmDia)
	assert.Equal(t, 3, dto.PeriodosVencidos)
	assert.Equal(t, 300.0, dto.ValorTotal)
}

// Com exatamente dois ciclos completos vencidos a parcela em aberto já está
// dentro da contagem: a dívida é 2 × valor do ciclo, nunca 2 + a atual.
func TestRegularizacaoDoisCiclosNaoContaParcelaAbertaDuasVezes(t *testing.T) {
	a := montarAmbiente(t)
	pl := a.criarPlano(t, 100, false)
	sess := a.sessaoCompleta(t, pl.ID, []PetDTO{{Nome: "Rex"}}, "")
	a.gw.cartao = cartaoAprovado("pay-22")

	_, err := a.svc.Processar(context.Background(), processarRequest{
		Sessao:         sess.Token,
		FormaPagamento: contrato.FormaCartao,
		ParcelasCartao: 1,
	})
	require.NoError(t, err)

	var c contrato.Contrato
	require.NoError(t, a.db.First(&c).Error)

	dto, err := a.svc.Regularizacao(c.ClienteID, false, c.ID, time.Now().AddDate(0, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, dto.PeriodosVencidos)
	assert.Equal(t, 200.0, dto.ValorTotal)
}
