// internal/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VidaPet/api-assinaturas/internal/calendario"
	"github.com/VidaPet/api-assinaturas/internal/cliente"
	"github.com/VidaPet/api-assinaturas/internal/contrato"
	"github.com/VidaPet/api-assinaturas/internal/cupom"
	"github.com/VidaPet/api-assinaturas/internal/gateway"
	"github.com/VidaPet/api-assinaturas/internal/pagamento"
	"github.com/VidaPet/api-assinaturas/internal/parcela"
	"github.com/VidaPet/api-assinaturas/internal/pet"
	"github.com/VidaPet/api-assinaturas/internal/plano"
	"github.com/VidaPet/api-assinaturas/internal/utils"
)

// Service orquestra o assistente de checkout: validação e preço nas etapas
// 1 e 2, cobrança e provisionamento na etapa 3. Pets e contratos só são
// persistidos depois que o gateway responde — cartão recusado não deixa
// nada para trás.
type Service struct {
	Sessoes       *Repository
	Clientes      *cliente.Repository
	Pets          *pet.Repository
	Planos        *plano.Repository
	Contratos     *contrato.Repository
	Parcelas      *parcela.Repository
	Ledger        *parcela.Ledger
	Cupons        *cupom.Repository
	Gateway       gateway.Client
	Reconciliador *pagamento.Reconciliador
	Log           *zap.Logger
}

// IniciarSessao é a etapa 1: valida cliente e pets sem cobrar nada e cria o
// cliente temporário (necessário para tentar a cobrança depois).
func (s *Service) IniciarSessao(req dadosClienteRequest) (*Sessao, error) {
	if req.Nome == "" || req.Email == "" {
		return nil, validacao("Nome e email são obrigatórios")
	}
	// senha vazia: o cliente temporário recebe uma aleatória e define a
	// definitiva depois, pela área logada
	if req.Senha == "" {
		tmp, err := utils.GerarSenhaTemporaria()
		if err != nil {
			return nil, err
		}
		req.Senha = tmp
	} else if len(req.Senha) < 8 {
		return nil, validacao("A senha precisa de ao menos 8 caracteres")
	}
	if len(req.Pets) == 0 {
		return nil, validacao("Informe ao menos um pet")
	}
	for _, p := range req.Pets {
		if strings.TrimSpace(p.Nome) == "" {
			return nil, validacao("Todo pet precisa de nome")
		}
	}

	periodicidade := calendario.Periodicidade(req.Periodicidade)
	if periodicidade != calendario.Mensal && periodicidade != calendario.Anual {
		return nil, validacao("Periodicidade inválida. Use 'mensal' ou 'anual'.")
	}

	pl, err := s.Planos.FindByID(req.PlanoID)
	if err != nil {
		return nil, naoEncontrado("Plano não encontrado")
	}
	if !pl.Ativo {
		return nil, validacao("Plano indisponível para venda")
	}
	if pl.CobrancaAnual && periodicidade == calendario.Mensal {
		return nil, validacao("O plano " + pl.Nome + " aceita apenas cobrança anual.")
	}

	if req.CupomCodigo != "" {
		cup, err := s.Cupons.FindByCodigo(req.CupomCodigo)
		if err != nil || !cup.Disponivel(time.Now()) {
			return nil, validacao("Cupom inválido ou expirado")
		}
	}

	// reaproveita cliente definitivo com o mesmo email; senão cria temporário
	cli, err := s.Clientes.BuscarPorEmail(req.Email)
	if err != nil {
		hash, err := utils.HashSenha(req.Senha)
		if err != nil {
			return nil, err
		}
		cli = &cliente.Cliente{
			Nome:       req.Nome,
			Sobrenome:  req.Sobrenome,
			Email:      strings.ToLower(strings.TrimSpace(req.Email)),
			Telefone:   req.Telefone,
			Senha:      hash,
			Temporario: true,
		}
		if err := s.Clientes.Criar(cli); err != nil {
			return nil, err
		}
	}

	petsJSON, err := json.Marshal(req.Pets)
	if err != nil {
		return nil, err
	}

	sess := &Sessao{
		Token:         uuid.NewString(),
		ClienteID:     cli.ID,
		PlanoID:       pl.ID,
		Periodicidade: string(periodicidade),
		PetsJSON:      string(petsJSON),
		CupomCodigo:   strings.ToUpper(strings.TrimSpace(req.CupomCodigo)),
		Etapa:         EtapaDadosCliente,
	}
	if err := s.Sessoes.Criar(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// CompletarCadastro é a etapa 2: anexa CPF e endereço. Se o CPF já pertence
// a outro cliente, o temporário desta sessão é descartado e o registro
// pré-existente assume — uma pessoa física nunca vira dois clientes.
func (s *Service) CompletarCadastro(req completarCadastroRequest) (*Sessao, error) {
	sess, err := s.Sessoes.FindByToken(req.Sessao)
	if err != nil {
		return nil, naoEncontrado("Sessão de checkout não encontrada")
	}
	if sess.Concluida {
		return nil, validacao("Sessão de checkout já concluída")
	}

	cpf := cliente.NormalizarCPF(req.CPF)
	if len(cpf) != 11 {
		return nil, validacao("CPF inválido")
	}

	cli, err := s.Clientes.FindByID(sess.ClienteID)
	if err != nil {
		return nil, naoEncontrado("Cliente da sessão não encontrado")
	}

	if existente, err := s.Clientes.BuscarPorCPF(cpf); err == nil && existente.ID != cli.ID {
		if cli.Temporario {
			if err := s.Clientes.DescartarTemporario(cli.ID); err != nil {
				s.Log.Warn("falha ao descartar cliente temporário",
					zap.Uint("clienteId", cli.ID), zap.Error(err))
			}
		}
		cli = existente
		sess.ClienteID = existente.ID
	}

	cli.CPF = &cpf
	cli.CEP = req.CEP
	cli.Logradouro = req.Logradouro
	cli.Numero = req.Numero
	cli.Complemento = req.Complemento
	cli.Bairro = req.Bairro
	cli.Cidade = req.Cidade
	cli.Estado = req.Estado
	if err := s.Clientes.Update(cli); err != nil {
		return nil, err
	}

	sess.Etapa = EtapaCadastro
	if err := s.Sessoes.Update(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Processar é a etapa 3: recalcula o preço no servidor, aplica as regras de
// pagamento do plano, cobra no gateway e — só com aprovação (cartão) ou
// emissão pendente (PIX) — provisiona pets, contratos e primeiras parcelas.
func (s *Service) Processar(ctx context.Context, req processarRequest) (*processarResponse, error) {
	sess, err := s.Sessoes.FindByToken(req.Sessao)
	if err != nil {
		return nil, naoEncontrado("Sessão de checkout não encontrada")
	}
	if sess.Concluida {
		return nil, validacao("Sessão de checkout já concluída")
	}
	if sess.Etapa < EtapaCadastro {
		return nil, validacao("Complete o cadastro antes de pagar")
	}

	cli, err := s.Clientes.FindByID(sess.ClienteID)
	if err != nil {
		return nil, naoEncontrado("Cliente da sessão não encontrado")
	}
	if cli.Documento() == "" {
		return nil, validacao("Complete o cadastro antes de pagar")
	}

	pl, err := s.Planos.FindByID(sess.PlanoID)
	if err != nil {
		return nil, naoEncontrado("Plano não encontrado")
	}

	var petsDTO []PetDTO
	if err := json.Unmarshal([]byte(sess.PetsJSON), &petsDTO); err != nil || len(petsDTO) == 0 {
		return nil, validacao("Sessão sem pets declarados")
	}

	periodicidade := calendario.Periodicidade(sess.Periodicidade)
	if err := ValidarRegrasPagamento(pl, periodicidade, req.FormaPagamento, req.ParcelasCartao); err != nil {
		return nil, err
	}

	var cup *cupom.Cupom
	if sess.CupomCodigo != "" {
		if c, err := s.Cupons.FindByCodigo(sess.CupomCodigo); err == nil && c.Disponivel(time.Now()) {
			cup = c
		}
	}

	preco := CalcularPreco(pl, periodicidade, len(petsDTO), cup)
	ordem := uuid.NewString()

	resp := &processarResponse{ValorTotal: preco.Total.InexactFloat64()}

	switch req.FormaPagamento {
	case contrato.FormaCartao:
		ret, err := s.Gateway.CriarPagamentoCartao(ctx, gateway.PagamentoCartaoRequest{
			ClientOrderID: ordem,
			ValorCentavos: Centavos(preco.Total),
			Parcelas:      req.ParcelasCartao,
			Cartao:        req.Cartao,
			NomeCliente:   cli.Nome + " " + cli.Sobrenome,
			CPF:           cli.Documento(),
		})
		if err != nil {
			return nil, err
		}
		if !ret.Aprovado() {
			return nil, recusado(gateway.MensagemAmigavel(ret.ReturnCode, ret.ReturnMessage))
		}
		resp.PaymentID = ret.PaymentID

		if err := s.provisionar(sess, cli, pl, petsDTO, periodicidade, preco, ret, nil); err != nil {
			return nil, err
		}

		// cartão capturado: a confirmação roda em linha (recibo, próxima
		// parcela, ativação, cupom)
		if _, err := s.Reconciliador.ConfirmarPagamento(ctx, ret.PaymentID); err != nil {
			s.Log.Warn("confirmação em linha falhou após captura",
				zap.String("paymentId", ret.PaymentID), zap.Error(err))
		}
		resp.Aprovado = true

	case contrato.FormaPix:
		ret, err := s.Gateway.CriarPagamentoPix(ctx, gateway.PagamentoPixRequest{
			ClientOrderID: ordem,
			ValorCentavos: Centavos(preco.Total),
			NomeCliente:   cli.Nome + " " + cli.Sobrenome,
			CPF:           cli.Documento(),
		})
		if err != nil {
			return nil, err
		}
		resp.PaymentID = ret.PaymentID
		resp.QRCode = ret.QRCodeBase64
		resp.CodigoCopiaCola = ret.QRCodeCopiaCola
		resp.Mensagem = "Aguardando confirmação do PIX"

		if err := s.provisionar(sess, cli, pl, petsDTO, periodicidade, preco, nil, ret); err != nil {
			return nil, err
		}
	}

	// contratos criados neste processamento
	contratos, err := s.Contratos.ListarPorPaymentID(resp.PaymentID)
	if err == nil {
		for _, c := range contratos {
			resumo := contratoResumo{ContratoID: c.ID, NumeroContrato: c.NumeroContrato, Valor: c.ValorDoCiclo()}
			if animal, err := s.Pets.FindByID(c.PetID); err == nil {
				resumo.NomePet = animal.Nome
			}
			resp.Contratos = append(resp.Contratos, resumo)
		}
	}
	if len(contratos) > 0 {
		ps, err := s.Parcelas.ListByContratoID(contratos[0].ID)
		if err == nil && len(ps) > 0 && ps[0].ReciboID != "" {
			resp.ReciboID = ps[0].ReciboID
		}
	}

	return resp, nil
}

// FinalizarPorPagamento fecha a sessão e consome o cupom. É o gancho
// PosConfirmacao do reconciliador: roda uma única vez por pagamento
// (a sessão já concluída barra reentradas), valendo para cartão em linha e
// PIX assíncrono.
func (s *Service) FinalizarPorPagamento(ctx context.Context, paymentID string) {
	sess, err := s.Sessoes.FindByPaymentID(paymentID)
	if err != nil || sess.Concluida {
		return
	}
	if sess.CupomCodigo != "" {
		if cup, err := s.Cupons.FindByCodigo(sess.CupomCodigo); err == nil {
			if err := s.Cupons.IncrementarUso(cup.ID); err != nil {
				s.Log.Warn("falha ao incrementar uso do cupom",
					zap.String("cupom", sess.CupomCodigo), zap.Error(err))
			}
		}
	}
	if err := s.Sessoes.Concluir(sess.ID); err != nil {
		s.Log.Warn("falha ao concluir sessão de checkout",
			zap.String("paymentId", paymentID), zap.Error(err))
	}
}

// provisionar persiste pets, contratos e primeiras parcelas numa transação,
// estritamente depois da resposta do gateway. A deduplicação de pet por nome
// torna reenvios idempotentes.
func (s *Service) provisionar(
	sess *Sessao,
	cli *cliente.Cliente,
	pl *plano.Plano,
	petsDTO []PetDTO,
	periodicidade calendario.Periodicidade,
	preco ResultadoPreco,
	retCartao *gateway.PagamentoCartaoResponse,
	retPix *gateway.PagamentoPixResponse,
) error {
	agora := time.Now()

	return s.Sessoes.DB.Transaction(func(tx *gorm.DB) error {
		pets := s.Pets.WithDB(tx)
		contratos := s.Contratos.WithDB(tx)
		ledger := parcela.NewLedger(s.Parcelas.WithDB(tx))

		if cli.Temporario {
			cli.Temporario = false
			if err := s.Clientes.WithDB(tx).Update(cli); err != nil {
				return err
			}
		}

		for i, dto := range petsDTO {
			animal, err := pets.BuscarPorNomeDoCliente(cli.ID, dto.Nome)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				animal = &pet.Pet{
					ClienteID: cli.ID,
					Nome:      strings.TrimSpace(dto.Nome),
					Especie:   dto.Especie,
					Raca:      dto.Raca,
					Sexo:      dto.Sexo,
				}
				if err := pets.Criar(animal); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			c := &contrato.Contrato{
				ClienteID:      cli.ID,
				PetID:          animal.ID,
				PlanoID:        pl.ID,
				NumeroContrato: novoNumeroContrato(),
				Periodicidade:  periodicidade,
				DataInicio:     agora,
				FormaPagamento: contrato.FormaCartao,
			}

			valorPet := preco.PorPet[i].InexactFloat64()
			if periodicidade == calendario.Anual {
				c.ValorAnual = valorPet
				fim := calendario.FimPeriodo(agora, calendario.Anual)
				c.DataFim = &fim
			} else {
				c.ValorMensal = valorPet
			}

			c.Status = contrato.StatusPendente
			if retCartao != nil {
				c.PaymentID = retCartao.PaymentID
				c.ProofOfSale = retCartao.ProofOfSale
				c.AuthorizationCode = retCartao.AuthorizationCode
				c.Tid = retCartao.Tid
				c.CodigoRetorno = retCartao.ReturnCode
				c.MensagemRetorno = retCartao.ReturnMessage
			} else {
				c.FormaPagamento = contrato.FormaPix
				c.PaymentID = retPix.PaymentID
				c.QRCode = retPix.QRCodeBase64
				c.CodigoCopiaCola = retPix.QRCodeCopiaCola
			}

			if err := contratos.Criar(c); err != nil {
				return err
			}

			// a primeira parcela nasce pendente mesmo no cartão: quem a
			// quita é a confirmação (em linha para cartão, webhook ou
			// consulta para PIX), num caminho único de mutação
			if _, err := ledger.CriarPrimeiraParcela(c, c.PaymentID, agora); err != nil {
				return err
			}
		}

		sess.PaymentID = pagamentoID(retCartao, retPix)
		return tx.Save(sess).Error
	})
}

// PagarParcela cobra uma parcela já existente de um contrato do cliente.
// Se o número pedido é a projeção ainda não persistida, a parcela é
// materializada antes da cobrança. Como no checkout, a quitação em si fica a
// cargo da reconciliação.
func (s *Service) PagarParcela(ctx context.Context, clienteID uint, isAdmin bool, req pagarParcelaRequest) (*pagarParcelaResponse, error) {
	c, err := s.Contratos.FindByID(req.ContratoID)
	if err != nil {
		return nil, naoEncontrado("Contrato não encontrado")
	}
	if !isAdmin && c.ClienteID != clienteID {
		return nil, naoEncontrado("Contrato não encontrado")
	}
	if c.Status == contrato.StatusCancelado {
		return nil, validacao("Contrato cancelado não aceita pagamentos")
	}

	pl, err := s.Planos.FindByID(c.PlanoID)
	if err != nil {
		return nil, naoEncontrado("Plano do contrato não encontrado")
	}
	// sem parcelamento informado a cobrança é à vista
	if req.ParcelasCartao == 0 {
		req.ParcelasCartao = 1
	}
	if err := ValidarRegrasPagamento(pl, c.Periodicidade, req.FormaPagamento, req.ParcelasCartao); err != nil {
		return nil, err
	}

	parcelas, err := s.Parcelas.ListByContratoID(c.ID)
	if err != nil {
		return nil, err
	}

	var alvo *parcela.Parcela
	for i := range parcelas {
		if parcelas[i].Numero == req.Numero {
			alvo = &parcelas[i]
			break
		}
	}
	if alvo == nil {
		proj := s.Ledger.ProjetarProximaParcela(c, parcelas)
		if proj == nil || proj.Numero != req.Numero {
			return nil, validacao("Parcela não disponível para pagamento")
		}
		proj.Virtual = false
		if err := s.Parcelas.Criar(proj); err != nil {
			return nil, err
		}
		alvo = proj
	}
	if alvo.Paga() {
		return nil, validacao("Parcela já paga")
	}

	cli, err := s.Clientes.FindByID(c.ClienteID)
	if err != nil {
		return nil, err
	}

	valor := decimal.NewFromFloat(alvo.Valor)
	ordem := uuid.NewString()
	resp := &pagarParcelaResponse{Valor: alvo.Valor}

	switch req.FormaPagamento {
	case contrato.FormaCartao:
		ret, err := s.Gateway.CriarPagamentoCartao(ctx, gateway.PagamentoCartaoRequest{
			ClientOrderID: ordem,
			ValorCentavos: Centavos(valor),
			Parcelas:      req.ParcelasCartao,
			Cartao:        req.Cartao,
			NomeCliente:   cli.Nome + " " + cli.Sobrenome,
			CPF:           cli.Documento(),
		})
		if err != nil {
			return nil, err
		}
		if !ret.Aprovado() {
			return nil, recusado(gateway.MensagemAmigavel(ret.ReturnCode, ret.ReturnMessage))
		}
		if err := s.Parcelas.UpdatePaymentID(alvo.ID, ret.PaymentID); err != nil {
			return nil, err
		}
		if _, err := s.Reconciliador.ConfirmarPagamento(ctx, ret.PaymentID); err != nil {
			s.Log.Warn("confirmação em linha falhou após captura",
				zap.String("paymentId", ret.PaymentID), zap.Error(err))
		}
		resp.Aprovado = true
		resp.PaymentID = ret.PaymentID

	case contrato.FormaPix:
		ret, err := s.Gateway.CriarPagamentoPix(ctx, gateway.PagamentoPixRequest{
			ClientOrderID: ordem,
			ValorCentavos: Centavos(valor),
			NomeCliente:   cli.Nome + " " + cli.Sobrenome,
			CPF:           cli.Documento(),
		})
		if err != nil {
			return nil, err
		}
		if err := s.Parcelas.UpdatePaymentID(alvo.ID, ret.PaymentID); err != nil {
			return nil, err
		}
		c.PaymentID = ret.PaymentID
		c.QRCode = ret.QRCodeBase64
		c.CodigoCopiaCola = ret.QRCodeCopiaCola
		if err := s.Contratos.Update(c); err != nil {
			return nil, err
		}
		resp.PaymentID = ret.PaymentID
		resp.QRCode = ret.QRCodeBase64
		resp.CodigoCopiaCola = ret.QRCodeCopiaCola
		resp.Mensagem = "Aguardando confirmação do PIX"
	}

	return resp, nil
}

// Regularizacao calcula quanto o tutor deve para colocar o contrato em dia.
func (s *Service) Regularizacao(clienteID uint, isAdmin bool, contratoID uint, agora time.Time) (*RegularizacaoDTO, error) {
	c, err := s.Contratos.FindByID(contratoID)
	if err != nil {
		return nil, naoEncontrado("Contrato não encontrado")
	}
	if !isAdmin && c.ClienteID != clienteID {
		return nil, naoEncontrado("Contrato não encontrado")
	}

	parcelas, err := s.Parcelas.ListByContratoID(c.ID)
	if err != nil {
		return nil, err
	}

	var ultimoPagamento *time.Time
	incluiAtual := false
	for i := range parcelas {
		p := &parcelas[i]
		if p.Paga() {
			if p.DataPagamento != nil && (ultimoPagamento == nil || p.DataPagamento.After(*ultimoPagamento)) {
				ultimoPagamento = p.DataPagamento
			}
			continue
		}
		if !agora.Before(p.DataVencimento) {
			incluiAtual = true
		}
	}

	periodos := calendario.PeriodosVencidos(ultimoPagamento, agora, c.Periodicidade, c.DataInicio)
	// com ciclos completos vencidos a parcela em aberto já está na contagem
	if periodos > 0 {
		incluiAtual = false
	}

	base := decimal.NewFromFloat(c.ValorDoCiclo())
	total := calendario.ValorRegularizacao(base, periodos, incluiAtual)

	return &RegularizacaoDTO{
		ContratoID:       c.ID,
		PeriodosVencidos: periodos,
		ValorPorPeriodo:  c.ValorDoCiclo(),
		ValorTotal:       total.InexactFloat64(),
		EmDia:            total.IsZero(),
	}, nil
}

func pagamentoID(retCartao *gateway.PagamentoCartaoResponse, retPix *gateway.PagamentoPixResponse) string {
	if retCartao != nil {
		return retCartao.PaymentID
	}
	return retPix.PaymentID
}

// novoNumeroContrato gera o número humano-legível e único do contrato.
func novoNumeroContrato() string {
	return "VP-" + strings.ToUpper(uuid.NewString()[:8])
}
