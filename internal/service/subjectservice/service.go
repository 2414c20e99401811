package subjectservice

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
)

// Limites de tamanho dos campos da disciplina.
const (
	minNameLen        = 2
	maxNameLen        = 100
	minCodeLen        = 2
	maxCodeLen        = 20
	maxDescriptionLen = 500
)

// Service implementa a lógica de negócio de disciplinas: CRUD com checks
// de unicidade de nome e código. Os dois checks sequenciais são um fast-path
// de UX; o perdedor de uma corrida ainda recebe Conflict via índice único.
type Service struct {
	repo   domain.SubjectRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Disciplinas.
func NewService(repo domain.SubjectRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// Create valida o payload, rejeita duplicatas de nome e depois de código,
// e persiste a nova disciplina.
func (s *Service) Create(ctx context.Context, input domain.SubjectInput) (domain.Subject, error) {
	// 1. Validação de entrada
	if err := validateName(input.Name); err != nil {
		return domain.Subject{}, err
	}
	if err := validateCode(input.Code); err != nil {
		return domain.Subject{}, err
	}
	if err := validateDescription(input.Description); err != nil {
		return domain.Subject{}, err
	}

	// 2. Check de duplicidade por nome
	if taken, err := s.nameTaken(ctx, input.Name, primitive.NilObjectID); err != nil {
		return domain.Subject{}, err
	} else if taken {
		return domain.Subject{}, apperror.NewConflictError("Já existe uma disciplina com este nome.")
	}

	// 3. Check de duplicidade por código
	if taken, err := s.codeTaken(ctx, input.Code, primitive.NilObjectID); err != nil {
		return domain.Subject{}, err
	} else if taken {
		return domain.Subject{}, apperror.NewConflictError("Já existe uma disciplina com este código.")
	}

	// 4. Persistência
	subject := domain.Subject{
		Name:        input.Name,
		Code:        input.Code,
		Description: input.Description,
	}

	return s.repo.Insert(ctx, subject)
}

// FindAll retorna todas as disciplinas (sem paginação na camada de serviço).
func (s *Service) FindAll(ctx context.Context) ([]domain.Subject, error) {
	return s.repo.FindAll(ctx)
}

// FindOne busca uma disciplina pelo ID em formato hex.
func (s *Service) FindOne(ctx context.Context, id string) (domain.Subject, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Subject{}, apperror.NewValidationError("O ID da disciplina deve ser um ObjectID válido.")
	}

	return s.repo.FindByID(ctx, objectID)
}

// Update aplica uma atualização parcial. Se nome ou código estiverem mudando,
// re-executa o respectivo check de unicidade contra as DEMAIS disciplinas
// (sem falso positivo contra o próprio registro).
func (s *Service) Update(ctx context.Context, id string, patch domain.SubjectPatch) (domain.Subject, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Subject{}, apperror.NewValidationError("O ID da disciplina deve ser um ObjectID válido.")
	}

	existing, err := s.repo.FindByID(ctx, objectID)
	if err != nil {
		return domain.Subject{}, err
	}

	if patch.Name != nil && *patch.Name != existing.Name {
		if err := validateName(*patch.Name); err != nil {
			return domain.Subject{}, err
		}
		if taken, err := s.nameTaken(ctx, *patch.Name, objectID); err != nil {
			return domain.Subject{}, err
		} else if taken {
			return domain.Subject{}, apperror.NewConflictError("Já existe uma disciplina com este nome.")
		}
	}

	if patch.Code != nil && *patch.Code != existing.Code {
		if err := validateCode(*patch.Code); err != nil {
			return domain.Subject{}, err
		}
		if taken, err := s.codeTaken(ctx, *patch.Code, objectID); err != nil {
			return domain.Subject{}, err
		} else if taken {
			return domain.Subject{}, apperror.NewConflictError("Já existe uma disciplina com este código.")
		}
	}

	if patch.Description != nil {
		if err := validateDescription(*patch.Description); err != nil {
			return domain.Subject{}, err
		}
	}

	return s.repo.Update(ctx, objectID, patch)
}

// Remove exclui a disciplina e retorna o registro removido.
func (s *Service) Remove(ctx context.Context, id string) (domain.Subject, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Subject{}, apperror.NewValidationError("O ID da disciplina deve ser um ObjectID válido.")
	}

	return s.repo.Delete(ctx, objectID)
}

// nameTaken informa se outra disciplina (diferente de self) já usa o nome.
func (s *Service) nameTaken(ctx context.Context, name string, self primitive.ObjectID) (bool, error) {
	found, err := s.repo.FindByName(ctx, name)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return found.ID != self, nil
}

// codeTaken informa se outra disciplina (diferente de self) já usa o código.
func (s *Service) codeTaken(ctx context.Context, code string, self primitive.ObjectID) (bool, error) {
	found, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return found.ID != self, nil
}

func validateName(name string) error {
	length := utf8.RuneCountInString(name)
	if length < minNameLen {
		return apperror.NewValidationError(fmt.Sprintf("O nome da disciplina deve ter pelo menos %d caracteres.", minNameLen))
	}
	if length > maxNameLen {
		return apperror.NewValidationError(fmt.Sprintf("O nome da disciplina não pode exceder %d caracteres.", maxNameLen))
	}
	return nil
}

func validateCode(code string) error {
	length := utf8.RuneCountInString(code)
	if length < minCodeLen {
		return apperror.NewValidationError(fmt.Sprintf("O código da disciplina deve ter pelo menos %d caracteres.", minCodeLen))
	}
	if length > maxCodeLen {
		return apperror.NewValidationError(fmt.Sprintf("O código da disciplina não pode exceder %d caracteres.", maxCodeLen))
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return apperror.NewValidationError(fmt.Sprintf("A descrição não pode exceder %d caracteres.", maxDescriptionLen))
	}
	return nil
}
