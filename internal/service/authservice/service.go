package authservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
	"goexam/internal/pkg/mailer"
)

// UserManager é o contrato do colaborador de gestão de usuários
// (internal/service/userservice). A criação de usuário — incluindo o hashing
// da senha e a unicidade do e-mail — é responsabilidade dele.
type UserManager interface {
	Create(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	ApplyPatch(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string, email string, userRole string) (string, error)
}

// LoginResult é a resposta de login/registro: token de acesso + resumo do usuário.
type LoginResult struct {
	AccessToken string             `json:"access_token"`
	User        domain.UserSummary `json:"user"`
}

// MessageResult é a resposta dos fluxos de recuperação/troca de senha.
type MessageResult struct {
	Message string `json:"message"`
}

// Service orquestra login, registro e os fluxos de senha,
// usando o gestor de usuários, o emissor de tokens e o mailer.
type Service struct {
	Users         UserManager
	TokenSvc      TokenService
	Mailer        mailer.Mailer
	ResetTokenTTL time.Duration
	logger        logger.Logger
}

// NewService cria uma nova instância do serviço de autenticação.
func NewService(users UserManager, tokenSvc TokenService, mail mailer.Mailer, resetTokenTTL time.Duration, log logger.Logger) *Service {
	return &Service{
		Users:         users,
		TokenSvc:      tokenSvc,
		Mailer:        mail,
		ResetTokenTTL: resetTokenTTL,
		logger:        log,
	}
}

// ValidateUser verifica as credenciais informadas.
// Ausência do usuário ou senha incorreta NÃO são erros: retornam (nil, nil).
// Em caso de sucesso, retorna o resumo do usuário (sem o hash da senha).
func (s *Service) ValidateUser(ctx context.Context, email string, password string) (*domain.UserSummary, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		// Falha de infraestrutura (DB fora do ar etc.)
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}

	summary := user.Summary()
	return &summary, nil
}

// Login emite um JWT com as claims {email, sub, role} para um usuário já validado.
// Não há efeito colateral no banco.
func (s *Service) Login(ctx context.Context, user domain.UserSummary) (LoginResult, error) {
	tokenString, err := s.TokenSvc.GenerateToken(user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		return LoginResult{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	return LoginResult{
		AccessToken: tokenString,
		User:        user,
	}, nil
}

// Register delega a criação ao gestor de usuários (que faz o hashing e garante
// a unicidade do e-mail) e em seguida loga o usuário recém-criado.
func (s *Service) Register(ctx context.Context, registration domain.UserRegistration) (LoginResult, error) {
	newUser, err := s.Users.Create(ctx, registration)
	if err != nil {
		return LoginResult{}, err
	}

	return s.Login(ctx, newUser.Summary())
}

// ForgotPassword gera um token de recuperação, persiste o digest com validade
// explícita e envia o token em claro por e-mail.
func (s *Service) ForgotPassword(ctx context.Context, email string) (MessageResult, error) {
	if email == "" {
		return MessageResult{}, apperror.NewValidationError("O e-mail é obrigatório.")
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return MessageResult{}, apperror.NewValidationError("Usuário não encontrado para este e-mail.")
		}
		return MessageResult{}, err
	}

	// Token de 16 bytes de crypto/rand, enviado em claro e armazenado como
	// digest SHA-256 com janela de validade. Uso único.
	resetToken, err := generateResetToken()
	if err != nil {
		return MessageResult{}, apperror.NewInternalError("Falha ao gerar token de recuperação.", err)
	}

	tokenHash := hashResetToken(resetToken)
	expiresAt := time.Now().UTC().Add(s.ResetTokenTTL)

	_, err = s.Users.ApplyPatch(ctx, user.ID.Hex(), domain.UserPatch{
		ResetTokenHash:      &tokenHash,
		ResetTokenExpiresAt: &expiresAt,
	})
	if err != nil {
		return MessageResult{}, err
	}

	subject, textBody, htmlBody := mailer.BuildResetEmail(mailer.ResetEmailData{
		Name:      user.Name,
		Token:     resetToken,
		ExpiresIn: fmt.Sprintf("%d minutos", int(s.ResetTokenTTL.Minutes())),
	})

	if err := s.Mailer.Send(ctx, user.Email, subject, textBody, htmlBody); err != nil {
		s.logger.Error("Falha ao enviar e-mail de recuperação de senha.", err)
		return MessageResult{}, apperror.NewInternalError("Falha ao enviar e-mail de recuperação.", err)
	}

	s.logger.Info("E-mail de recuperação de senha enviado.", map[string]interface{}{"user_id": user.ID.Hex()})
	return MessageResult{Message: "E-mail de recuperação de senha enviado."}, nil
}

// ResetPassword consome o token de recuperação e redefine a senha.
// Token inexistente, divergente ou expirado falham com a mesma mensagem,
// para não servir de oráculo. O token é limpo após o uso.
func (s *Service) ResetPassword(ctx context.Context, email string, resetToken string, newPassword string) (MessageResult, error) {
	if email == "" || resetToken == "" || newPassword == "" {
		return MessageResult{}, apperror.NewValidationError("E-mail, token e nova senha são obrigatórios.")
	}
	if len(newPassword) < 6 {
		return MessageResult{}, apperror.NewValidationError("A nova senha deve ter pelo menos 6 caracteres.")
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return MessageResult{}, apperror.NewValidationError("Token ou e-mail inválido.")
		}
		return MessageResult{}, err
	}

	if !resetTokenMatches(user, resetToken) {
		return MessageResult{}, apperror.NewValidationError("Token ou e-mail inválido.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return MessageResult{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	newHash := string(hashedPassword)
	_, err = s.Users.ApplyPatch(ctx, user.ID.Hex(), domain.UserPatch{
		PasswordHash:    &newHash,
		ClearResetToken: true,
	})
	if err != nil {
		return MessageResult{}, err
	}

	return MessageResult{Message: "Senha redefinida com sucesso."}, nil
}

// ChangePassword troca a senha de um usuário autenticado após verificar a senha atual.
func (s *Service) ChangePassword(ctx context.Context, email string, currentPassword string, newPassword string) (MessageResult, error) {
	if currentPassword == "" || newPassword == "" {
		return MessageResult{}, apperror.NewValidationError("Senha atual e nova senha são obrigatórias.")
	}
	if len(newPassword) < 6 {
		return MessageResult{}, apperror.NewValidationError("A nova senha deve ter pelo menos 6 caracteres.")
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return MessageResult{}, apperror.NewValidationError("Usuário não encontrado.")
		}
		return MessageResult{}, err
	}

	if user.PasswordHash == "" {
		return MessageResult{}, apperror.NewValidationError("Usuário não encontrado.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return MessageResult{}, apperror.NewValidationError("Senha atual inválida.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return MessageResult{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	newHash := string(hashedPassword)
	_, err = s.Users.ApplyPatch(ctx, user.ID.Hex(), domain.UserPatch{PasswordHash: &newHash})
	if err != nil {
		return MessageResult{}, err
	}

	return MessageResult{Message: "Senha alterada com sucesso."}, nil
}

// generateResetToken produz 32 caracteres hex a partir de 16 bytes de crypto/rand.
func generateResetToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashResetToken calcula o digest SHA-256 (hex) armazenado no documento do usuário.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// resetTokenMatches compara o token apresentado com o digest pendente,
// em tempo constante, e verifica a janela de validade.
func resetTokenMatches(user domain.User, presented string) bool {
	if user.ResetTokenHash == "" || user.ResetTokenExpiresAt == nil {
		return false
	}
	if time.Now().UTC().After(*user.ResetTokenExpiresAt) {
		return false
	}

	presentedHash := hashResetToken(presented)
	return subtle.ConstantTimeCompare([]byte(user.ResetTokenHash), []byte(presentedHash)) == 1
}
