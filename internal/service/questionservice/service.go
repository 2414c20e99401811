package questionservice

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
)

// Service implementa a lógica de negócio do banco de questões.
// Mesma forma dos demais CRUDs: check de duplicidade (enunciado dentro da
// disciplina) como fast-path sobre o índice único composto.
type Service struct {
	repo        domain.QuestionRepository
	subjectRepo domain.SubjectRepository
	logger      logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Questões.
func NewService(repo domain.QuestionRepository, subjectRepo domain.SubjectRepository, log logger.Logger) *Service {
	return &Service{repo: repo, subjectRepo: subjectRepo, logger: log}
}

// Create valida o payload, confere a disciplina referenciada, rejeita
// enunciados duplicados na mesma disciplina e persiste a questão.
func (s *Service) Create(ctx context.Context, input domain.QuestionInput) (domain.Question, error) {
	// 1. Validação de entrada
	if input.Content == "" {
		return domain.Question{}, apperror.NewValidationError("O enunciado da questão é obrigatório.")
	}
	if !domain.IsValidQuestionType(input.Type) {
		return domain.Question{}, apperror.NewValidationError("O tipo da questão deve ser multiple_choice, true_false ou essay.")
	}
	if input.Type == domain.QuestionMultipleChoice && len(input.Options) < 2 {
		return domain.Question{}, apperror.NewValidationError("Questões de múltipla escolha exigem pelo menos 2 alternativas.")
	}

	subjectID, err := primitive.ObjectIDFromHex(input.SubjectID)
	if err != nil {
		return domain.Question{}, apperror.NewValidationError("O subject_id deve ser um ObjectID válido.")
	}

	// 2. A disciplina referenciada precisa existir
	if _, err := s.subjectRepo.FindByID(ctx, subjectID); err != nil {
		return domain.Question{}, err
	}

	// 3. Check de duplicidade de enunciado dentro da disciplina
	if _, err := s.repo.FindByContent(ctx, subjectID, input.Content); err == nil {
		return domain.Question{}, apperror.NewConflictError("Já existe uma questão com este enunciado nesta disciplina.")
	} else {
		var notFound *apperror.NotFoundError
		if !errors.As(err, &notFound) {
			return domain.Question{}, err
		}
	}

	// 4. Persistência
	question := domain.Question{
		SubjectID: subjectID,
		Content:   input.Content,
		Type:      input.Type,
		Options:   input.Options,
		Answer:    input.Answer,
	}

	return s.repo.Insert(ctx, question)
}

// FindAll retorna todas as questões (sem paginação na camada de serviço).
func (s *Service) FindAll(ctx context.Context) ([]domain.Question, error) {
	return s.repo.FindAll(ctx)
}

// FindOne busca uma questão pelo ID em formato hex.
func (s *Service) FindOne(ctx context.Context, id string) (domain.Question, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Question{}, apperror.NewValidationError("O ID da questão deve ser um ObjectID válido.")
	}

	return s.repo.FindByID(ctx, objectID)
}

// Update aplica uma atualização parcial, re-validando tipo e enunciado quando mudarem.
func (s *Service) Update(ctx context.Context, id string, patch domain.QuestionPatch) (domain.Question, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Question{}, apperror.NewValidationError("O ID da questão deve ser um ObjectID válido.")
	}

	existing, err := s.repo.FindByID(ctx, objectID)
	if err != nil {
		return domain.Question{}, err
	}

	if patch.Type != nil && !domain.IsValidQuestionType(*patch.Type) {
		return domain.Question{}, apperror.NewValidationError("O tipo da questão deve ser multiple_choice, true_false ou essay.")
	}

	// O par tipo/alternativas é validado sobre o resultado da mesclagem:
	// mudar só o tipo (ou só as alternativas) não pode produzir uma questão
	// de múltipla escolha sem alternativas suficientes.
	effectiveType := existing.Type
	if patch.Type != nil {
		effectiveType = *patch.Type
	}
	effectiveOptions := existing.Options
	if patch.Options != nil {
		effectiveOptions = *patch.Options
	}
	if effectiveType == domain.QuestionMultipleChoice && len(effectiveOptions) < 2 {
		return domain.Question{}, apperror.NewValidationError("Questões de múltipla escolha exigem pelo menos 2 alternativas.")
	}

	if patch.Content != nil && *patch.Content != existing.Content {
		if *patch.Content == "" {
			return domain.Question{}, apperror.NewValidationError("O enunciado da questão é obrigatório.")
		}
		if found, err := s.repo.FindByContent(ctx, existing.SubjectID, *patch.Content); err == nil {
			if found.ID != objectID {
				return domain.Question{}, apperror.NewConflictError("Já existe uma questão com este enunciado nesta disciplina.")
			}
		} else {
			var notFound *apperror.NotFoundError
			if !errors.As(err, &notFound) {
				return domain.Question{}, err
			}
		}
	}

	return s.repo.Update(ctx, objectID, patch)
}

// Remove exclui a questão e retorna o registro removido.
func (s *Service) Remove(ctx context.Context, id string) (domain.Question, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Question{}, apperror.NewValidationError("O ID da questão deve ser um ObjectID válido.")
	}

	return s.repo.Delete(ctx, objectID)
}
