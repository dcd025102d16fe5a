package main

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/VidaPet/api-assinaturas/internal/auth"
	"github.com/VidaPet/api-assinaturas/internal/checkout"
	"github.com/VidaPet/api-assinaturas/internal/cliente"
	"github.com/VidaPet/api-assinaturas/internal/contrato"
	"github.com/VidaPet/api-assinaturas/internal/cupom"
	"github.com/VidaPet/api-assinaturas/internal/gateway"
	"github.com/VidaPet/api-assinaturas/internal/pagamento"
	"github.com/VidaPet/api-assinaturas/internal/parcela"
	"github.com/VidaPet/api-assinaturas/internal/pet"
	"github.com/VidaPet/api-assinaturas/internal/plano"
	"github.com/VidaPet/api-assinaturas/internal/recibo"
	"github.com/VidaPet/api-assinaturas/internal/utils/db"
)

func main() {
	_ = godotenv.Load()

	logger := novoLogger()
	defer logger.Sync()

	database, err := db.GetDB()
	if err != nil {
		logger.Fatal("erro ao conectar no banco", zap.Error(err))
	}

	if err := database.AutoMigrate(
		&cliente.Cliente{},
		&pet.Pet{},
		&plano.Plano{},
		&contrato.Contrato{},
		&parcela.Parcela{},
		&cupom.Cupom{},
		&checkout.Sessao{},
		&auth.RefreshToken{},
	); err != nil {
		logger.Fatal("erro no AutoMigrate", zap.Error(err))
	}

	// Repositórios
	clienteRepo := cliente.NewRepository(database)
	petRepo := pet.NewRepository(database)
	planoRepo := plano.NewRepository(database)
	contratoRepo := contrato.NewRepository(database)
	parcelaRepo := parcela.NewRepository(database)
	cupomRepo := cupom.NewRepository(database)
	sessaoRepo := checkout.NewRepository(database)
	ledger := parcela.NewLedger(parcelaRepo)

	// Integrações externas
	gw, err := gateway.NewClient()
	if err != nil {
		logger.Fatal("erro ao configurar gateway de pagamento", zap.Error(err))
	}
	recibos := recibo.NewGerador()

	reconciliador := pagamento.NewReconciliador(
		parcelaRepo, ledger, contratoRepo, clienteRepo, petRepo, planoRepo, recibos, logger)

	checkoutSvc := &checkout.Service{
		Sessoes:       sessaoRepo,
		Clientes:      clienteRepo,
		Pets:          petRepo,
		Planos:        planoRepo,
		Contratos:     contratoRepo,
		Parcelas:      parcelaRepo,
		Ledger:        ledger,
		Cupons:        cupomRepo,
		Gateway:       gw,
		Reconciliador: reconciliador,
		Log:           logger,
	}
	// cupom e sessão são fechados uma única vez por pagamento confirmado,
	// valendo também para o PIX que confirma horas depois
	reconciliador.PosConfirmacao = checkoutSvc.FinalizarPorPagamento

	// Handlers
	clienteHandler := cliente.NewHandler(clienteRepo)
	petHandler := pet.NewHandler(petRepo)
	planoHandler := plano.NewHandler(planoRepo)
	contratoHandler := contrato.NewHandler(contratoRepo)
	parcelaHandler := parcela.NewHandler(parcelaRepo, ledger, contratoRepo)
	cupomHandler := cupom.NewHandler(cupomRepo)
	checkoutHandler := checkout.NewHandler(checkoutSvc)
	webhookHandler := pagamento.NewWebhookHandler(gw, reconciliador, logger)
	consultaHandler := pagamento.NewConsultaHandler(gw, reconciliador, logger)

	r := mux.NewRouter()

	// Rotas públicas
	r.HandleFunc("/auth/login", clienteHandler.Login).Methods("POST")
	r.HandleFunc("/auth/refresh", auth.RefreshHTTPHandler(database)).Methods("POST")
	r.HandleFunc("/auth/logout", auth.LogoutHTTPHandler(database)).Methods("POST")
	r.HandleFunc("/.well-known/jwks.json", auth.JWKSHandler).Methods("GET")

	r.HandleFunc("/planos", planoHandler.ListarAtivos).Methods("GET")
	r.HandleFunc("/cupons/validar", cupomHandler.Validar).Methods("POST")

	// Assistente de checkout (o comprador ainda não tem login)
	r.HandleFunc("/checkout/dados-cliente", checkoutHandler.DadosCliente).Methods("POST")
	r.HandleFunc("/checkout/completar-cadastro", checkoutHandler.CompletarCadastro).Methods("POST")
	r.HandleFunc("/checkout/processar", checkoutHandler.Processar).Methods("POST")

	// Retornos do gateway
	r.HandleFunc("/webhooks/pagamentos", webhookHandler.Receber).Methods("POST")
	r.HandleFunc("/pagamentos/consulta/{paymentId}", consultaHandler.Consultar).Methods("GET")

	// Área do cliente (JWT)
	clientes := r.PathPrefix("/clientes").Subrouter()
	clientes.Use(auth.MiddlewareAutenticacao)
	clientes.HandleFunc("/me", clienteHandler.Perfil).Methods("GET")
	clientes.HandleFunc("/me", clienteHandler.Atualizar).Methods("PUT")
	clientes.HandleFunc("/me/senha", clienteHandler.TrocarSenha).Methods("PUT")
	clientes.HandleFunc("/pets", petHandler.ListarMeus).Methods("GET")
	clientes.HandleFunc("/pets/{id}", petHandler.Atualizar).Methods("PUT")
	clientes.HandleFunc("/contratos", contratoHandler.ListarDoCliente).Methods("GET")
	clientes.HandleFunc("/contratos/{id}", contratoHandler.BuscarPorID).Methods("GET")
	clientes.HandleFunc("/contratos/{id}/regularizacao", checkoutHandler.Regularizacao).Methods("GET")
	clientes.HandleFunc("/parcelas", parcelaHandler.ListarDoCliente).Methods("GET")
	clientes.HandleFunc("/parcelas/pagar", checkoutHandler.PagarParcela).Methods("POST")

	// Retaguarda (JWT + admin)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.MiddlewareAutenticacao, auth.RequireAdmin)
	admin.HandleFunc("/planos", planoHandler.ListarTodos).Methods("GET")
	admin.HandleFunc("/planos", planoHandler.Criar).Methods("POST")
	admin.HandleFunc("/planos/{id}", planoHandler.BuscarPorID).Methods("GET")
	admin.HandleFunc("/planos/{id}", planoHandler.Atualizar).Methods("PUT")
	admin.HandleFunc("/planos/{id}", planoHandler.Desativar).Methods("DELETE")
	admin.HandleFunc("/contratos", contratoHandler.ListarTodos).Methods("GET")
	admin.HandleFunc("/contratos/{id}/status", contratoHandler.AtualizarStatus).Methods("PATCH")
	admin.HandleFunc("/contratos/{id}/parcelas", parcelaHandler.ListarPorContrato).Methods("GET")
	admin.HandleFunc("/cupons", cupomHandler.ListarTodos).Methods("GET")
	admin.HandleFunc("/cupons", cupomHandler.Criar).Methods("POST")
	admin.HandleFunc("/cupons/{id}", cupomHandler.Desativar).Methods("DELETE")

	c := cors.New(cors.Options{
		AllowedOrigins:   origensPermitidas(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Checkout-Token"},
		AllowCredentials: true,
	})

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}

	logger.Info("servidor iniciado", zap.String("porta", porta))
	if err := http.ListenAndServe(":"+porta, c.Handler(r)); err != nil {
		logger.Fatal("servidor encerrou com erro", zap.Error(err))
	}
}

func novoLogger() *zap.Logger {
	if os.Getenv("AMBIENTE") == "development" {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}

func origensPermitidas() []string {
	if o := os.Getenv("CORS_ORIGIN"); o != "" {
		return []string{o}
	}
	return []string{"http://localhost:3000"}
}
