package questionservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
	"goexam/internal/service/questionservice"
)

// MockQuestionRepository é uma implementação mock da interface QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Insert(ctx context.Context, question domain.Question) (domain.Question, error) {
	args := m.Called(ctx, question)
	return args.Get(0).(domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindAll(ctx context.Context) ([]domain.Question, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Question, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByContent(ctx context.Context, subjectID primitive.ObjectID, content string) (domain.Question, error) {
	args := m.Called(ctx, subjectID, content)
	return args.Get(0).(domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.QuestionPatch) (domain.Question, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.Question, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Question), args.Error(1)
}

// MockSubjectRepository é um mock mínimo do SubjectRepository para o check
// de existência da disciplina referenciada.
type MockSubjectRepository struct {
	mock.Mock
}

func (m *MockSubjectRepository) Insert(ctx context.Context, subject domain.Subject) (domain.Subject, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).(domain.Subject), args.Error(1)
}

func (m *MockSubjectRepository) FindAll(ctx context.Context) ([]domain.Subject, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Subject), args.Error(1)
}

func (m *MockSubjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Subject, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Subject), args.Error(1)
}

func (m *MockSubjectRepository) FindByName(ctx context.Context, name string) (domain.Subject, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.Subject), args.Error(1)
}

func (m *MockSubjectRepository) FindByCode(ctx context.Context, code string) (domain.Subject, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.Subject), args.Error(1)
}

func (m *MockSubjectRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.SubjectPatch) (domain.Subject, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Subject), args.Error(1)
}

func (m *MockSubjectRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.Subject, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Subject), args.Error(1)
}

var errQuestionNotFound = apperror.NewNotFoundError("Questão não encontrada.")

// TestCreateQuestion_Success testa a criação de uma questão de múltipla escolha.
func TestCreateQuestion_Success(t *testing.T) {
	mockRepo := new(MockQuestionRepository)
	mockSubjects := new(MockSubjectRepository)
	svc := questionservice.NewService(mockRepo, mockSubjects, logger.NewLogger("debug"))

	subject := domain.Subject{ID: primitive.NewObjectID(), Name: "Matemática", Code: "MATH101"}
	input := domain.QuestionInput{
		SubjectID: subject.ID.Hex(),
		Content:   "Quanto é 2 + 2?",
		Type:      domain.QuestionMultipleChoice,
		Options:   []string{"3", "4", "5"},
		Answer:    "4",
	}
	expected := domain.Question{ID: primitive.NewObjectID(), SubjectID: subject.ID, Content: input.Content, Type: input.Type, Options: input.Options, Answer: input.Answer}

	mockSubjects.On("FindByID", mock.Anything, subject.ID).Return(subject, nil)
	mockRepo.On("FindByContent", mock.Anything, subject.ID, input.Content).Return(domain.Question{}, errQuestionNotFound)
	mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("domain.Question")).Return(expected, nil)

	question, err := svc.Create(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, expected, question)
	mockRepo.AssertExpectations(t)
}

// TestCreateQuestion_InvalidType testa a rejeição de um tipo desconhecido.
func TestCreateQuestion_InvalidType(t *testing.T) {
	svc := questionservice.NewService(new(MockQuestionRepository), new(MockSubjectRepository), logger.NewLogger("debug"))

	input := domain.QuestionInput{
		SubjectID: primitive.NewObjectID().Hex(),
		Content:   "Quanto é 2 + 2?",
		Type:      domain.QuestionType("dissertation"),
	}

	_, err := svc.Create(context.Background(), input)

	assert.Error(t, err)
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}

// TestCreateQuestion_MultipleChoiceNeedsOptions testa o mínimo de 2 alternativas.
func TestCreateQuestion_MultipleChoiceNeedsOptions(t *testing.T) {
	svc := questionservice.NewService(new(MockQuestionRepository), new(MockSubjectRepository), logger.NewLogger("debug"))

	input := domain.QuestionInput{
		SubjectID: primitive.NewObjectID().Hex(),
		Content:   "Quanto é 2 + 2?",
		Type:      domain.QuestionMultipleChoice,
		Options:   []string{"4"},
	}

	_, err := svc.Create(context.Background(), input)

	assert.Error(t, err)
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}

// TestCreateQuestion_DuplicateContent testa o conflito de enunciado dentro da disciplina.
func TestCreateQuestion_DuplicateContent(t *testing.T) {
	mockRepo := new(MockQuestionRepository)
	mockSubjects := new(MockSubjectRepository)
	svc := questionservice.NewService(mockRepo, mockSubjects, logger.NewLogger("debug"))

	subject := domain.Subject{ID: primitive.NewObjectID(), Name: "Matemática", Code: "MATH101"}
	input := domain.QuestionInput{
		SubjectID: subject.ID.Hex(),
		Content:   "Quanto é 2 + 2?",
		Type:      domain.QuestionEssay,
	}
	existing := domain.Question{ID: primitive.NewObjectID(), SubjectID: subject.ID, Content: input.Content}

	mockSubjects.On("FindByID", mock.Anything, subject.ID).Return(subject, nil)
	mockRepo.On("FindByContent", mock.Anything, subject.ID, input.Content).Return(existing, nil)

	_, err := svc.Create(context.Background(), input)

	assert.Error(t, err)
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestUpdateQuestion_TypeChangeNeedsOptions testa que mudar o tipo para
// múltipla escolha sem alternativas suficientes é rejeitado: a validação
// considera o resultado da mesclagem, não só os campos do patch.
func TestUpdateQuestion_TypeChangeNeedsOptions(t *testing.T) {
	mockRepo := new(MockQuestionRepository)
	mockSubjects := new(MockSubjectRepository)
	svc := questionservice.NewService(mockRepo, mockSubjects, logger.NewLogger("debug"))

	// Questão verdadeiro/falso não carrega alternativas.
	existing := domain.Question{
		ID:        primitive.NewObjectID(),
		SubjectID: primitive.NewObjectID(),
		Content:   "A Terra é plana?",
		Type:      domain.QuestionTrueFalse,
	}
	newType := domain.QuestionMultipleChoice
	patch := domain.QuestionPatch{Type: &newType}

	mockRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)

	_, err := svc.Update(context.Background(), existing.ID.Hex(), patch)

	assert.Error(t, err)
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateQuestion_TypeChangeWithOptions testa que a mesma mudança de tipo
// passa quando o patch também traz as alternativas.
func TestUpdateQuestion_TypeChangeWithOptions(t *testing.T) {
	mockRepo := new(MockQuestionRepository)
	mockSubjects := new(MockSubjectRepository)
	svc := questionservice.NewService(mockRepo, mockSubjects, logger.NewLogger("debug"))

	existing := domain.Question{
		ID:        primitive.NewObjectID(),
		SubjectID: primitive.NewObjectID(),
		Content:   "A Terra é plana?",
		Type:      domain.QuestionTrueFalse,
	}
	newType := domain.QuestionMultipleChoice
	options := []string{"Sim", "Não"}
	patch := domain.QuestionPatch{Type: &newType, Options: &options}

	expected := existing
	expected.Type = newType
	expected.Options = options

	mockRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing.ID, patch).Return(expected, nil)

	updated, err := svc.Update(context.Background(), existing.ID.Hex(), patch)

	assert.NoError(t, err)
	assert.Equal(t, expected, updated)
	mockRepo.AssertExpectations(t)
}

// TestUpdateQuestion_SameContentNoConflict testa que reenviar o próprio
// enunciado não dispara falso positivo de duplicidade.
func TestUpdateQuestion_SameContentNoConflict(t *testing.T) {
	mockRepo := new(MockQuestionRepository)
	mockSubjects := new(MockSubjectRepository)
	svc := questionservice.NewService(mockRepo, mockSubjects, logger.NewLogger("debug"))

	existing := domain.Question{
		ID:        primitive.NewObjectID(),
		SubjectID: primitive.NewObjectID(),
		Content:   "Quanto é 2 + 2?",
		Type:      domain.QuestionEssay,
	}
	sameContent := existing.Content
	patch := domain.QuestionPatch{Content: &sameContent}

	mockRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing.ID, patch).Return(existing, nil)

	updated, err := svc.Update(context.Background(), existing.ID.Hex(), patch)

	assert.NoError(t, err)
	assert.Equal(t, existing, updated)
	mockRepo.AssertNotCalled(t, "FindByContent", mock.Anything, mock.Anything, mock.Anything)
}
