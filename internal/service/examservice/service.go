package examservice

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
)

// Service implementa a lógica de negócio de provas.
// Segue a mesma forma do serviço de disciplinas: CRUD com check de
// unicidade (título) como fast-path sobre o índice único.
type Service struct {
	repo        domain.ExamRepository
	subjectRepo domain.SubjectRepository
	logger      logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Provas.
func NewService(repo domain.ExamRepository, subjectRepo domain.SubjectRepository, log logger.Logger) *Service {
	return &Service{repo: repo, subjectRepo: subjectRepo, logger: log}
}

// Create valida o payload, confere a existência da disciplina referenciada,
// rejeita títulos duplicados e persiste a nova prova.
func (s *Service) Create(ctx context.Context, input domain.ExamInput) (domain.Exam, error) {
	// 1. Validação de entrada
	if input.Title == "" {
		return domain.Exam{}, apperror.NewValidationError("O título da prova é obrigatório.")
	}
	if input.DurationMinutes <= 0 {
		return domain.Exam{}, apperror.NewValidationError("A duração da prova deve ser positiva.")
	}
	if input.TotalPoints < 0 {
		return domain.Exam{}, apperror.NewValidationError("A pontuação total não pode ser negativa.")
	}

	subjectID, err := primitive.ObjectIDFromHex(input.SubjectID)
	if err != nil {
		return domain.Exam{}, apperror.NewValidationError("O subject_id deve ser um ObjectID válido.")
	}

	// 2. A disciplina referenciada precisa existir
	if _, err := s.subjectRepo.FindByID(ctx, subjectID); err != nil {
		return domain.Exam{}, err
	}

	// 3. Check de duplicidade por título
	if taken, err := s.titleTaken(ctx, input.Title, primitive.NilObjectID); err != nil {
		return domain.Exam{}, err
	} else if taken {
		return domain.Exam{}, apperror.NewConflictError("Já existe uma prova com este título.")
	}

	// 4. Persistência
	exam := domain.Exam{
		Title:           input.Title,
		SubjectID:       subjectID,
		DurationMinutes: input.DurationMinutes,
		TotalPoints:     input.TotalPoints,
		Description:     input.Description,
	}

	return s.repo.Insert(ctx, exam)
}

// FindAll retorna todas as provas (sem paginação na camada de serviço).
func (s *Service) FindAll(ctx context.Context) ([]domain.Exam, error) {
	return s.repo.FindAll(ctx)
}

// FindOne busca uma prova pelo ID em formato hex.
func (s *Service) FindOne(ctx context.Context, id string) (domain.Exam, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Exam{}, apperror.NewValidationError("O ID da prova deve ser um ObjectID válido.")
	}

	return s.repo.FindByID(ctx, objectID)
}

// Update aplica uma atualização parcial, re-executando o check de unicidade
// de título contra as demais provas quando ele estiver mudando.
func (s *Service) Update(ctx context.Context, id string, patch domain.ExamPatch) (domain.Exam, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Exam{}, apperror.NewValidationError("O ID da prova deve ser um ObjectID válido.")
	}

	existing, err := s.repo.FindByID(ctx, objectID)
	if err != nil {
		return domain.Exam{}, err
	}

	if patch.Title != nil && *patch.Title != existing.Title {
		if *patch.Title == "" {
			return domain.Exam{}, apperror.NewValidationError("O título da prova é obrigatório.")
		}
		if taken, err := s.titleTaken(ctx, *patch.Title, objectID); err != nil {
			return domain.Exam{}, err
		} else if taken {
			return domain.Exam{}, apperror.NewConflictError("Já existe uma prova com este título.")
		}
	}

	if patch.SubjectID != nil {
		subjectID, err := primitive.ObjectIDFromHex(*patch.SubjectID)
		if err != nil {
			return domain.Exam{}, apperror.NewValidationError("O subject_id deve ser um ObjectID válido.")
		}
		if _, err := s.subjectRepo.FindByID(ctx, subjectID); err != nil {
			return domain.Exam{}, err
		}
	}

	if patch.DurationMinutes != nil && *patch.DurationMinutes <= 0 {
		return domain.Exam{}, apperror.NewValidationError("A duração da prova deve ser positiva.")
	}
	if patch.TotalPoints != nil && *patch.TotalPoints < 0 {
		return domain.Exam{}, apperror.NewValidationError("A pontuação total não pode ser negativa.")
	}

	return s.repo.Update(ctx, objectID, patch)
}

// Remove exclui a prova e retorna o registro removido.
func (s *Service) Remove(ctx context.Context, id string) (domain.Exam, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Exam{}, apperror.NewValidationError("O ID da prova deve ser um ObjectID válido.")
	}

	return s.repo.Delete(ctx, objectID)
}

// titleTaken informa se outra prova (diferente de self) já usa o título.
func (s *Service) titleTaken(ctx context.Context, title string, self primitive.ObjectID) (bool, error) {
	found, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return found.ID != self, nil
}
