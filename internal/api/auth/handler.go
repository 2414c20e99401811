package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"goexam/internal/api/respond"
	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
	"goexam/internal/pkg/middleware"
	"goexam/internal/service/authservice"
)

// AuthService define o contrato do serviço de autenticação consumido pelo Handler.
type AuthService interface {
	ValidateUser(ctx context.Context, email string, password string) (*domain.UserSummary, error)
	Login(ctx context.Context, user domain.UserSummary) (authservice.LoginResult, error)
	Register(ctx context.Context, registration domain.UserRegistration) (authservice.LoginResult, error)
	ForgotPassword(ctx context.Context, email string) (authservice.MessageResult, error)
	ResetPassword(ctx context.Context, email string, token string, newPassword string) (authservice.MessageResult, error)
	ChangePassword(ctx context.Context, email string, currentPassword string, newPassword string) (authservice.MessageResult, error)
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest representa o payload do fluxo "esqueci minha senha".
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest representa o payload de redefinição de senha via token.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ChangePasswordRequest representa o payload de troca de senha autenticada.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ProfileResponse são as claims do usuário autenticado, extraídas do token.
type ProfileResponse struct {
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"role"`
}

// Handler agrupa todos os métodos de Handler de autenticação.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// Login lida com a requisição POST /auth/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe email/senha, verifica as credenciais e emite um token de acesso.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário (email e senha)"
// @Success 200 {object} authservice.LoginResult "Token emitido e resumo do usuário"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou campos ausentes"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	// Campos ausentes são rejeitados na borda, antes de tocar no serviço
	if req.Email == "" || req.Password == "" {
		respond.Error(w, h.Logger, apperror.NewValidationError("Email e senha são obrigatórios."))
		return
	}

	user, err := h.Service.ValidateUser(ctx, req.Email, req.Password)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	if user == nil {
		// Ausência e senha incorreta recebem a mesma resposta 401
		respond.Error(w, h.Logger, apperror.NewUnauthorizedError("Credenciais inválidas."))
		return
	}

	result, err := h.Service.Login(ctx, *user)
	respond.Service(w, h.Logger, result, err, http.StatusOK)
}

// Register lida com a requisição POST /auth/register.
// @Summary Registra um novo usuário e o autentica
// @Description Cria o usuário (senha com hash, e-mail único) e já emite o token de acesso.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Dados de registro (nome, email e senha)"
// @Success 201 {object} authservice.LoginResult "Usuário criado e autenticado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	result, err := h.Service.Register(ctx, req)
	respond.Service(w, h.Logger, result, err, http.StatusCreated)
}

// ForgotPassword lida com a requisição POST /auth/forgot-password.
// @Summary Inicia a recuperação de senha
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "E-mail da conta"
// @Success 200 {object} authservice.MessageResult
// @Failure 400 {object} domain.ErrorResponse "E-mail desconhecido ou payload inválido"
// @Router /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	result, err := h.Service.ForgotPassword(ctx, req.Email)
	respond.Service(w, h.Logger, result, err, http.StatusOK)
}

// ResetPassword lida com a requisição POST /auth/reset-password.
// @Summary Redefine a senha com o token de recuperação
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "E-mail, token e nova senha"
// @Success 200 {object} authservice.MessageResult
// @Failure 400 {object} domain.ErrorResponse "Token/e-mail inválido ou expirado"
// @Router /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	result, err := h.Service.ResetPassword(ctx, req.Email, req.Token, req.NewPassword)
	respond.Service(w, h.Logger, result, err, http.StatusOK)
}

// ChangePassword lida com a requisição POST /auth/change-password (autenticada).
// @Summary Troca a senha do usuário autenticado
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Senha atual e nova senha"
// @Success 200 {object} authservice.MessageResult
// @Failure 400 {object} domain.ErrorResponse "Senha atual inválida"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Router /auth/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		respond.Error(w, h.Logger, apperror.NewUnauthorizedError("Autorização necessária."))
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	result, err := h.Service.ChangePassword(ctx, claims.Email, req.CurrentPassword, req.NewPassword)
	respond.Service(w, h.Logger, result, err, http.StatusOK)
}

// Profile lida com a requisição GET /auth/profile (autenticada).
// @Summary Retorna as claims do usuário autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Router /auth/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, h.Logger, apperror.NewUnauthorizedError("Autorização necessária."))
		return
	}

	respond.JSON(w, http.StatusOK, ProfileResponse{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	})
}
