package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "goexam/docs" // registra a especificação swagger gerada
	"goexam/internal/api/auth"
	"goexam/internal/api/exam"
	"goexam/internal/api/question"
	"goexam/internal/api/subject"
	"goexam/internal/api/user"
	"goexam/internal/domain"
	"goexam/internal/pkg/cache"
	"goexam/internal/pkg/logger"
	"goexam/internal/pkg/middleware"
)

// Config agrupa as dependências do roteador, já inicializadas no main.go.
type Config struct {
	AuthHandler     *auth.Handler
	SubjectHandler  *subject.Handler
	ExamHandler     *exam.Handler
	QuestionHandler *question.Handler
	UserHandler     *user.Handler
	TokenSvc        middleware.TokenService
	Cache           cache.Client
	Logger          logger.Logger
	RateLimitMax    int
	RateLimitPeriod time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Usamos o ServeMux padrão do net/http com os method patterns do Go 1.22.
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	// Middlewares reutilizáveis
	authn := middleware.NewAuthMiddleware(cfg.TokenSvc)
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)
	limited := middleware.RateLimiter(cfg.Cache, cfg.RateLimitMax, cfg.RateLimitPeriod)

	// --- 1. Health Check e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.Handler())

	// --- 2. Autenticação (com rate limiting por IP) ---
	mux.Handle("POST /auth/login", limited(http.HandlerFunc(cfg.AuthHandler.Login)))
	mux.Handle("POST /auth/register", limited(http.HandlerFunc(cfg.AuthHandler.Register)))
	mux.Handle("POST /auth/forgot-password", limited(http.HandlerFunc(cfg.AuthHandler.ForgotPassword)))
	mux.Handle("POST /auth/reset-password", limited(http.HandlerFunc(cfg.AuthHandler.ResetPassword)))
	mux.Handle("POST /auth/change-password", limited(authn(cfg.AuthHandler.ChangePassword)))
	mux.HandleFunc("GET /auth/profile", authn(cfg.AuthHandler.Profile))

	// --- 3. Disciplinas (autenticadas) ---
	mux.HandleFunc("POST /subjects", authn(cfg.SubjectHandler.Create))
	mux.HandleFunc("GET /subjects", authn(cfg.SubjectHandler.List))
	mux.HandleFunc("GET /subjects/{id}", authn(cfg.SubjectHandler.Get))
	mux.HandleFunc("PATCH /subjects/{id}", authn(cfg.SubjectHandler.Update))
	mux.HandleFunc("DELETE /subjects/{id}", authn(cfg.SubjectHandler.Delete))

	// --- 4. Provas (autenticadas) ---
	mux.HandleFunc("POST /exams", authn(cfg.ExamHandler.Create))
	mux.HandleFunc("GET /exams", authn(cfg.ExamHandler.List))
	mux.HandleFunc("GET /exams/{id}", authn(cfg.ExamHandler.Get))
	mux.HandleFunc("PATCH /exams/{id}", authn(cfg.ExamHandler.Update))
	mux.HandleFunc("DELETE /exams/{id}", authn(cfg.ExamHandler.Delete))

	// --- 5. Questões (autenticadas) ---
	mux.HandleFunc("POST /questions", authn(cfg.QuestionHandler.Create))
	mux.HandleFunc("GET /questions", authn(cfg.QuestionHandler.List))
	mux.HandleFunc("GET /questions/{id}", authn(cfg.QuestionHandler.Get))
	mux.HandleFunc("PATCH /questions/{id}", authn(cfg.QuestionHandler.Update))
	mux.HandleFunc("DELETE /questions/{id}", authn(cfg.QuestionHandler.Delete))

	// --- 6. Usuários ---
	// Edição de perfil (o próprio usuário ou admin) e remoção (caminho administrativo)
	mux.HandleFunc("PATCH /users/{id}", authn(cfg.UserHandler.Update))
	mux.HandleFunc("DELETE /users/{id}", authn(adminOnly(cfg.UserHandler.Delete)))

	// Middleware global: request-id + access log
	return middleware.RequestID(cfg.Logger)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
