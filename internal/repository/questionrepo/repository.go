package questionrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/database"
	"goexam/internal/pkg/logger"
)

// QuestionRepository implementa a interface domain.QuestionRepository sobre a coleção "questions".
type QuestionRepository struct {
	Collection *mongo.Collection
	DBTimeout  time.Duration
	logger     logger.Logger
}

// NewQuestionRepository cria uma nova instância do QuestionRepository, injetando o database.
func NewQuestionRepository(db *mongo.Database, dbTimeout time.Duration, log logger.Logger) *QuestionRepository {
	return &QuestionRepository{
		Collection: db.Collection("questions"),
		DBTimeout:  dbTimeout,
		logger:     log,
	}
}

// Insert insere uma nova questão. O índice único composto (subject_id, content)
// cobre corridas do check-then-write.
func (r *QuestionRepository) Insert(ctx context.Context, question domain.Question) (domain.Question, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	question.ID = primitive.NewObjectID()
	question.CreatedAt = time.Now().UTC()
	question.UpdatedAt = question.CreatedAt

	if _, err := r.Collection.InsertOne(ctxTimeout, question); err != nil {
		if database.IsDup(err) {
			return domain.Question{}, apperror.NewConflictError("Já existe uma questão com este enunciado nesta disciplina.")
		}
		r.logger.Error("Falha ao inserir questão no DB.", err)
		return domain.Question{}, apperror.NewDBError("failed to insert question", err)
	}

	return question, nil
}

// FindAll retorna todas as questões, sem paginação na camada de serviço.
func (r *QuestionRepository) FindAll(ctx context.Context) ([]domain.Question, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	cursor, err := r.Collection.Find(ctxTimeout, bson.M{})
	if err != nil {
		r.logger.Error("Falha ao listar questões no DB.", err)
		return nil, apperror.NewDBError("failed to list questions", err)
	}
	defer cursor.Close(ctxTimeout)

	questions := []domain.Question{}
	if err := cursor.All(ctxTimeout, &questions); err != nil {
		r.logger.Error("Falha ao decodificar questões do cursor.", err)
		return nil, apperror.NewDBError("failed to decode questions", err)
	}

	return questions, nil
}

// FindByID busca uma questão pelo ObjectID.
func (r *QuestionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Question, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var question domain.Question
	err := r.Collection.FindOne(ctxTimeout, bson.M{"_id": id}).Decode(&question)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Question{}, apperror.NewNotFoundError(fmt.Sprintf("Questão com ID %s não encontrada.", id.Hex()))
		}
		r.logger.Error("Falha ao buscar questão no DB.", err)
		return domain.Question{}, apperror.NewDBError("failed to find question", err)
	}

	return question, nil
}

// FindByContent busca uma questão pelo enunciado exato dentro de uma disciplina
// (usado no check de unicidade).
func (r *QuestionRepository) FindByContent(ctx context.Context, subjectID primitive.ObjectID, content string) (domain.Question, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var question domain.Question
	err := r.Collection.FindOne(ctxTimeout, bson.M{"subject_id": subjectID, "content": content}).Decode(&question)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Question{}, apperror.NewNotFoundError("Questão não encontrada para este enunciado.")
		}
		r.logger.Error("Falha ao buscar questão por enunciado no DB.", err)
		return domain.Question{}, apperror.NewDBError("failed to find question by content", err)
	}

	return question, nil
}

// Update aplica uma atualização parcial e retorna o documento já atualizado.
func (r *QuestionRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.QuestionPatch) (domain.Question, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Type != nil {
		set["type"] = *patch.Type
	}
	if patch.Options != nil {
		set["options"] = *patch.Options
	}
	if patch.Answer != nil {
		set["answer"] = *patch.Answer
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var updated domain.Question
	err := r.Collection.FindOneAndUpdate(ctxTimeout, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Question{}, apperror.NewNotFoundError(fmt.Sprintf("Questão com ID %s não encontrada.", id.Hex()))
		}
		if database.IsDup(err) {
			return domain.Question{}, apperror.NewConflictError("Já existe uma questão com este enunciado nesta disciplina.")
		}
		r.logger.Error("Falha ao atualizar questão no DB.", err)
		return domain.Question{}, apperror.NewDBError("failed to update question", err)
	}

	return updated, nil
}

// Delete remove a questão e retorna o documento removido.
func (r *QuestionRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.Question, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var removed domain.Question
	err := r.Collection.FindOneAndDelete(ctxTimeout, bson.M{"_id": id}).Decode(&removed)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Question{}, apperror.NewNotFoundError(fmt.Sprintf("Questão com ID %s não encontrada.", id.Hex()))
		}
		r.logger.Error("Falha ao remover questão no DB.", err)
		return domain.Question{}, apperror.NewDBError("failed to delete question", err)
	}

	return removed, nil
}
