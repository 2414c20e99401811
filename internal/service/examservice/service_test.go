package examservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
	"goexam/internal/service/examservice"
)

// MockExamRepository é uma implementação mock da interface ExamRepository
type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) Insert(ctx context.Context, exam domain.Exam) (domain.Exam, error) {
	args := m.Called(ctx, exam)
	return args.Get(0).(domain.Exam), args.Error(1)
}

func (m *MockExamRepository) FindAll(ctx context.Context) ([]domain.Exam, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Exam), args.Error(1)
}

func (m *MockExamRepository) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Exam, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Exam), args.Error(1)
}

func (m *MockExamRepository) FindByTitle(ctx context.Context, title string) (domain.Exam, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(domain.Exam), args.Error(1)
}

func (m *MockExamRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.ExamPatch) (domain.Exam, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Exam), args.Error(1)
}

func (m *MockExamRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.Exam, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Exam), args.Error(1)
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

var errExamNotFound = apperror.NewNotFoundError("Prova não encontrada.")

// TestCreateExam_Success testa a criação de uma prova com disciplina existente.
func TestCreateExam_Success(t *testing.T) {
	mockRepo := new(MockExamRepository)
	mockSubjects := new(MockSubjectRepository)
	svc := examservice.NewService(mockRepo, mockSubjects, logger.NewLogger("debug"))

	subject := domain.Subject{ID: primitive.NewObjectID(), Name: "Matemática", Code: "MATH101"}
	input := domain.ExamInput{
		Title:           "Prova Final de Matemática",
		SubjectID:       subject.ID.Hex(),
		DurationMinutes: 90,
		TotalPoints:     100,
	}
	expected := domain.Exam{ID: primitive.NewObjectID(), Title: input.Title, SubjectID: subject.ID, DurationMinutes: 90, TotalPoints: 100}

	mockSubjects.On("FindByID", mock.Anything, subject.ID).Return(subject, nil)
	mockRepo.On("FindByTitle", mock.Anything, input.Title).Return(domain.Exam{}, errExamNotFound)
	mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("domain.Exam")).Return(expected, nil)

	exam, err := svc.Create(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, expected, exam)
	mockRepo.AssertExpectations(t)
	mockSubjects.AssertExpectations(t)
}

// TestCreateExam_SubjectMissing testa que a prova não é criada sem a disciplina.
func TestCreateExam_SubjectMissing(t *testing.T) {
	mockRepo := new(MockExamRepository)
	mockSubjects := new(MockSubjectRepository)
	svc := examservice.NewService(mockRepo, mockSubjects, logger.NewLogger("debug"))

	subjectID := primitive.NewObjectID()
	input := domain.ExamInput{Title: "Prova Final", SubjectID: subjectID.Hex(), DurationMinutes: 60}

	mockSubjects.On("FindByID", mock.Anything, subjectID).
		Return(domain.Subject{}, apperror.NewNotFoundError("Disciplina não encontrada."))

	_, err := svc.Create(context.Background(), input)

	assert.Error(t, err)
	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestCreateExam_DuplicateTitle testa o conflito por título já cadastrado.
func TestCreateExam_DuplicateTitle(t *testing.T) {
	mockRepo := new(MockExamRepository)
	mockSubjects := new(MockSubjectRepository)
	svc := examservice.NewService(mockRepo, mockSubjects, logger.NewLogger("debug"))

	subject := domain.Subject{ID: primitive.NewObjectID(), Name: "Matemática", Code: "MATH101"}
	input := domain.ExamInput{Title: "Prova Final", SubjectID: subject.ID.Hex(), DurationMinutes: 60}
	existing := domain.Exam{ID: primitive.NewObjectID(), Title: "Prova Final"}

	mockSubjects.On("FindByID", mock.Anything, subject.ID).Return(subject, nil)
	mockRepo.On("FindByTitle", mock.Anything, input.Title).Return(existing, nil)

	_, err := svc.Create(context.Background(), input)

	assert.Error(t, err)
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestCreateExam_InvalidDuration testa que a duração precisa ser positiva.
func TestCreateExam_InvalidDuration(t *testing.T) {
	svc := examservice.NewService(new(MockExamRepository), new(MockSubjectRepository), logger.NewLogger("debug"))

	input := domain.ExamInput{Title: "Prova Final", SubjectID: primitive.NewObjectID().Hex(), DurationMinutes: 0}
	_, err := svc.Create(context.Background(), input)

	assert.Error(t, err)
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}

// TestUpdateExam_SameTitleNoConflict testa que reenviar o próprio título
// não dispara falso positivo de duplicidade.
func TestUpdateExam_SameTitleNoConflict(t *testing.T) {
	mockRepo := new(MockExamRepository)
	mockSubjects := new(MockSubjectRepository)
	svc := examservice.NewService(mockRepo, mockSubjects, logger.NewLogger("debug"))

	existing := domain.Exam{ID: primitive.NewObjectID(), Title: "Prova Final", DurationMinutes: 60}
	sameTitle := existing.Title
	patch := domain.ExamPatch{Title: &sameTitle}

	mockRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing.ID, patch).Return(existing, nil)

	updated, err := svc.Update(context.Background(), existing.ID.Hex(), patch)

	assert.NoError(t, err)
	assert.Equal(t, existing, updated)
	mockRepo.AssertNotCalled(t, "FindByTitle", mock.Anything, mock.Anything)
}
