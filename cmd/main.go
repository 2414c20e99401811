package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"goexam/config"
	"goexam/internal/pkg/cache"
	"goexam/internal/pkg/database"
	"goexam/internal/pkg/logger"
	"goexam/internal/pkg/mailer"
	"goexam/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"goexam/internal/api/auth" // Handlers
	"goexam/internal/api/exam"
	"goexam/internal/api/question"
	"goexam/internal/api/router" // Roteador central
	"goexam/internal/api/subject"
	"goexam/internal/api/user"
	"goexam/internal/repository/examrepo" // Acesso a Dados
	"goexam/internal/repository/questionrepo"
	"goexam/internal/repository/subjectrepo"
	"goexam/internal/repository/userrepo"
	"goexam/internal/service/authservice" // Lógica de Negócio
	"goexam/internal/service/examservice"
	"goexam/internal/service/questionservice"
	"goexam/internal/service/subjectservice"
	"goexam/internal/service/userservice"
)

// @title GoExam API
// @version 1.0
// @description API REST para professores gerenciarem disciplinas, provas e questões.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	stdlog.Println("⚡ Inicializando serviço GoExam...")

	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não for encontrado, avisamos, mas continuamos,
		// pois as variáveis essenciais podem estar no ambiente do sistema (ex: Docker).
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig() // Carrega as configurações (URLs, Timeouts, etc.)
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (MongoDB)
	db, err := database.NewMongoDB(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Disconnect(ctx, db)
	}()
	log.Info("Conexão MongoDB estabelecida.", nil)

	// Índices únicos (email de usuário, nome/código de disciplina, título de
	// prova, enunciado por disciplina). São a garantia real de unicidade; os
	// serviços fazem apenas pré-checagens para mensagens de erro melhores.
	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			cancel()
			log.Fatal("Falha ao criar os índices do banco de dados.", err)
		}
		cancel()
	}
	log.Info("Índices do MongoDB garantidos.", nil)

	// B. Cache (Redis) — usado pelo rate limiter das rotas de autenticação
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. E-mail. Sem MAIL_HOST, cai no sender de desenvolvimento que apenas loga.
	var mailSender mailer.Mailer
	if cfg.MailHost != "" {
		mailSender = mailer.NewSMTPMailer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.MailFrom)
		log.Info("Mailer SMTP configurado.", map[string]interface{}{"host": cfg.MailHost})
	} else {
		mailSender = mailer.NewLogMailer(log)
		log.Info("MAIL_HOST ausente: usando o mailer de desenvolvimento (somente log).", nil)
	}

	// D. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Montagem da Clean Architecture)
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	subjectRepo := subjectrepo.NewSubjectRepository(db, cfg.DBTimeout, log)
	examRepo := examrepo.NewExamRepository(db, cfg.DBTimeout, log)
	questionRepo := questionrepo.NewQuestionRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	userSvc := userservice.NewService(userRepo, log)
	authSvc := authservice.NewService(userSvc, tokenSvc, mailSender, cfg.ResetTokenTTL, log)
	subjectSvc := subjectservice.NewService(subjectRepo, log)
	examSvc := examservice.NewService(examRepo, subjectRepo, log)
	questionSvc := questionservice.NewService(questionRepo, subjectRepo, log)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	authHandler := auth.NewHandler(authSvc, log)
	subjectHandler := subject.NewHandler(subjectSvc, log)
	examHandler := exam.NewHandler(examSvc, log)
	questionHandler := question.NewHandler(questionSvc, log)
	userHandler := user.NewHandler(userSvc, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(router.Config{
		AuthHandler:     authHandler,
		SubjectHandler:  subjectHandler,
		ExamHandler:     examHandler,
		QuestionHandler: questionHandler,
		UserHandler:     userHandler,
		TokenSvc:        tokenSvc,
		Cache:           cacheClient,
		Logger:          log,
		RateLimitMax:    cfg.RateLimitMaxRequests,
		RateLimitPeriod: cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r, // O roteador final
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoExam ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou: %v", err)
		}
	}()

	// Lógica do Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	// Timeout para desligamento (usa o contexto)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
