package subjectservice_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
	"goexam/internal/service/subjectservice"
)

// MockSubjectRepository é uma implementação mock da interface SubjectRepository
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

var errNotFound = apperror.NewNotFoundError("Disciplina não encontrada.")

// TestCreateSubject_Success testa a criação de uma disciplina válida.
func TestCreateSubject_Success(t *testing.T) {
	mockRepo := new(MockSubjectRepository)
	svc := subjectservice.NewService(mockRepo, logger.NewLogger("debug"))

	input := domain.SubjectInput{Name: "Matemática", Code: "MATH101", Description: "Fundamentos de álgebra."}
	expected := domain.Subject{ID: primitive.NewObjectID(), Name: input.Name, Code: input.Code, Description: input.Description}

	mockRepo.On("FindByName", mock.Anything, input.Name).Return(domain.Subject{}, errNotFound)
	mockRepo.On("FindByCode", mock.Anything, input.Code).Return(domain.Subject{}, errNotFound)
	mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("domain.Subject")).Return(expected, nil)

	subject, err := svc.Create(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, expected, subject)
	mockRepo.AssertExpectations(t)
}

// TestCreateSubject_DuplicateName testa o conflito por nome já cadastrado.
func TestCreateSubject_DuplicateName(t *testing.T) {
	mockRepo := new(MockSubjectRepository)
	svc := subjectservice.NewService(mockRepo, logger.NewLogger("debug"))

	input := domain.SubjectInput{Name: "Matemática", Code: "MATH101"}
	existing := domain.Subject{ID: primitive.NewObjectID(), Name: "Matemática", Code: "OUTRO01"}

	mockRepo.On("FindByName", mock.Anything, input.Name).Return(existing, nil)

	_, err := svc.Create(context.Background(), input)

	assert.Error(t, err)
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestCreateSubject_DuplicateCode testa o conflito por código já cadastrado.
func TestCreateSubject_DuplicateCode(t *testing.T) {
	mockRepo := new(MockSubjectRepository)
	svc := subjectservice.NewService(mockRepo, logger.NewLogger("debug"))

	input := domain.SubjectInput{Name: "Matemática", Code: "MATH101"}
	existing := domain.Subject{ID: primitive.NewObjectID(), Name: "Outra Disciplina", Code: "MATH101"}

	mockRepo.On("FindByName", mock.Anything, input.Name).Return(domain.Subject{}, errNotFound)
	mockRepo.On("FindByCode", mock.Anything, input.Code).Return(existing, nil)

	_, err := svc.Create(context.Background(), input)

	assert.Error(t, err)
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestCreateSubject_InvalidBounds testa os limites de tamanho de nome, código e descrição.
func TestCreateSubject_InvalidBounds(t *testing.T) {
	mockRepo := new(MockSubjectRepository)
	svc := subjectservice.NewService(mockRepo, logger.NewLogger("debug"))

	cases := []struct {
		name  string
		input domain.SubjectInput
	}{
		{"nome curto demais", domain.SubjectInput{Name: "M", Code: "MATH101"}},
		{"nome longo demais", domain.SubjectInput{Name: strings.Repeat("a", 101), Code: "MATH101"}},
		{"código curto demais", domain.SubjectInput{Name: "Matemática", Code: "M"}},
		{"código longo demais", domain.SubjectInput{Name: "Matemática", Code: strings.Repeat("X", 21)}},
		{"descrição longa demais", domain.SubjectInput{Name: "Matemática", Code: "MATH101", Description: strings.Repeat("d", 501)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)

			assert.Error(t, err)
			var validation *apperror.ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}

	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestFindOneSubject_InvalidID testa que um ID fora do formato ObjectID é rejeitado.
func TestFindOneSubject_InvalidID(t *testing.T) {
	mockRepo := new(MockSubjectRepository)
	svc := subjectservice.NewService(mockRepo, logger.NewLogger("debug"))

	_, err := svc.FindOne(context.Background(), "não-é-um-id")

	assert.Error(t, err)
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestUpdateSubject_SameNameNoConflict testa que reenviar o próprio nome
// não dispara falso positivo de duplicidade.
func TestUpdateSubject_SameNameNoConflict(t *testing.T) {
	mockRepo := new(MockSubjectRepository)
	svc := subjectservice.NewService(mockRepo, logger.NewLogger("debug"))

	existing := domain.Subject{ID: primitive.NewObjectID(), Name: "Matemática", Code: "MATH101"}
	sameName := existing.Name
	patch := domain.SubjectPatch{Name: &sameName}

	mockRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing.ID, patch).Return(existing, nil)

	updated, err := svc.Update(context.Background(), existing.ID.Hex(), patch)

	assert.NoError(t, err)
	assert.Equal(t, existing, updated)
	// Nome não mudou: o check de duplicidade nem é executado.
	mockRepo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
}

// TestUpdateSubject_NewNameTaken testa o conflito ao renomear para um nome de outra disciplina.
func TestUpdateSubject_NewNameTaken(t *testing.T) {
	mockRepo := new(MockSubjectRepository)
	svc := subjectservice.NewService(mockRepo, logger.NewLogger("debug"))

	existing := domain.Subject{ID: primitive.NewObjectID(), Name: "Matemática", Code: "MATH101"}
	other := domain.Subject{ID: primitive.NewObjectID(), Name: "Física", Code: "PHYS101"}

	newName := other.Name
	patch := domain.SubjectPatch{Name: &newName}

	mockRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	mockRepo.On("FindByName", mock.Anything, newName).Return(other, nil)

	_, err := svc.Update(context.Background(), existing.ID.Hex(), patch)

	assert.Error(t, err)
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateSubject_NotFound testa a atualização de uma disciplina inexistente.
func TestUpdateSubject_NotFound(t *testing.T) {
	mockRepo := new(MockSubjectRepository)
	svc := subjectservice.NewService(mockRepo, logger.NewLogger("debug"))

	id := primitive.NewObjectID()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Subject{}, errNotFound)

	newName := "Física"
	_, err := svc.Update(context.Background(), id.Hex(), domain.SubjectPatch{Name: &newName})

	assert.Error(t, err)
	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// TestRemoveSubject_Success testa a remoção, que retorna o registro removido.
func TestRemoveSubject_Success(t *testing.T) {
	mockRepo := new(MockSubjectRepository)
	svc := subjectservice.NewService(mockRepo, logger.NewLogger("debug"))

	existing := domain.Subject{ID: primitive.NewObjectID(), Name: "Matemática", Code: "MATH101"}
	mockRepo.On("Delete", mock.Anything, existing.ID).Return(existing, nil)

	removed, err := svc.Remove(context.Background(), existing.ID.Hex())

	assert.NoError(t, err)
	assert.Equal(t, existing, removed)
	mockRepo.AssertExpectations(t)
}

// TestFindAllSubjects_Empty testa a listagem sem disciplinas cadastradas.
func TestFindAllSubjects_Empty(t *testing.T) {
	mockRepo := new(MockSubjectRepository)
	svc := subjectservice.NewService(mockRepo, logger.NewLogger("debug"))

	mockRepo.On("FindAll", mock.Anything).Return([]domain.Subject{}, nil)

	subjects, err := svc.FindAll(context.Background())

	assert.NoError(t, err)
	assert.NotNil(t, subjects)
	assert.Len(t, subjects, 0)
}
