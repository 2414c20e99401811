package userservice

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
)

// emailRegexp valida o formato básico do e-mail na borda do serviço.
var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service é o colaborador de gestão de usuários: criação (com hashing e
// unicidade de e-mail), consultas, atualização parcial e o caminho
// administrativo de remoção.
type Service struct {
	UserRepo domain.UserRepository
	logger   logger.Logger
}

// NewService cria uma nova instância do serviço de usuários, injetando o Repositório.
func NewService(repo domain.UserRepository, log logger.Logger) *Service {
	return &Service{
		UserRepo: repo,
		logger:   log,
	}
}

// Create registra um novo usuário: valida o payload, faz o hashing da senha e
// persiste com role padrão "user". O pre-check de e-mail é apenas fast-path;
// a garantia real de unicidade é o índice único da coleção.
func (s *Service) Create(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	// 1. Validação de entrada
	if registration.Name == "" {
		return domain.User{}, apperror.NewValidationError("O nome é obrigatório.")
	}
	if registration.Email == "" || !emailRegexp.MatchString(registration.Email) {
		return domain.User{}, apperror.NewValidationError("O e-mail informado é inválido.")
	}
	if len(registration.Password) < 6 {
		return domain.User{}, apperror.NewValidationError("A senha deve ter pelo menos 6 caracteres.")
	}

	// 2. Pre-check de unicidade (UX): responde 409 sem tocar no índice
	if _, err := s.UserRepo.FindByEmail(ctx, registration.Email); err == nil {
		return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", registration.Email))
	} else {
		var notFound *apperror.NotFoundError
		if !errors.As(err, &notFound) {
			return domain.User{}, err
		}
	}

	// 3. Hashing da senha
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	// 4. Persistência (o repositório traduz duplicate key em ConflictError,
	// cobrindo o perdedor da corrida do check-then-write)
	newUser := domain.User{
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Name:         registration.Name,
		Role:         domain.RoleUser, // Role padrão; não há auto-escalação para admin
	}

	return s.UserRepo.Insert(ctx, newUser)
}

// FindByEmail busca um usuário pelo e-mail. Retorna NotFoundError tipado se ausente.
func (s *Service) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.UserRepo.FindByEmail(ctx, email)
}

// FindByID busca um usuário pelo ID em formato hex.
func (s *Service) FindByID(ctx context.Context, id string) (domain.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, apperror.NewValidationError("O ID do usuário deve ser um ObjectID válido.")
	}
	return s.UserRepo.FindByID(ctx, objectID)
}

// ApplyPatch aplica uma atualização parcial (nome, hash de senha, campos do
// token de reset). Usado pelo serviço de autenticação e pela edição de perfil.
func (s *Service) ApplyPatch(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, apperror.NewValidationError("O ID do usuário deve ser um ObjectID válido.")
	}

	if patch.Name != nil && *patch.Name == "" {
		return domain.User{}, apperror.NewValidationError("O nome não pode ser vazio.")
	}

	return s.UserRepo.Update(ctx, objectID, patch)
}

// Remove é o caminho administrativo de exclusão de usuário.
// Exposto apenas atrás do middleware de permissão (role admin).
func (s *Service) Remove(ctx context.Context, id string) (domain.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, apperror.NewValidationError("O ID do usuário deve ser um ObjectID válido.")
	}

	removed, err := s.UserRepo.Delete(ctx, objectID)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário removido pelo caminho administrativo.", map[string]interface{}{"user_id": id})
	return removed, nil
}
