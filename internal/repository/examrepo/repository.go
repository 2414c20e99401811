package examrepo

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

// ExamRepository implementa a interface domain.ExamRepository sobre a coleção "exams".
type ExamRepository struct {
	Collection *mongo.Collection
	DBTimeout  time.Duration
	logger     logger.Logger
}

// NewExamRepository cria uma nova instância do ExamRepository, injetando o database.
func NewExamRepository(db *mongo.Database, dbTimeout time.Duration, log logger.Logger) *ExamRepository {
	return &ExamRepository{
		Collection: db.Collection("exams"),
		DBTimeout:  dbTimeout,
		logger:     log,
	}
}

// Insert insere uma nova prova. O índice único de title cobre corridas do check-then-write.
func (r *ExamRepository) Insert(ctx context.Context, exam domain.Exam) (domain.Exam, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	exam.ID = primitive.NewObjectID()
	exam.CreatedAt = time.Now().UTC()
	exam.UpdatedAt = exam.CreatedAt

	if _, err := r.Collection.InsertOne(ctxTimeout, exam); err != nil {
		if database.IsDup(err) {
			return domain.Exam{}, apperror.NewConflictError("Já existe uma prova com este título.")
		}
		r.logger.Error("Falha ao inserir prova no DB.", err)
		return domain.Exam{}, apperror.NewDBError("failed to insert exam", err)
	}

	r.logger.Info("Prova salva no repositório.", map[string]interface{}{"exam_id": exam.ID.Hex(), "title": exam.Title})
	return exam, nil
}

// FindAll retorna todas as provas, sem paginação na camada de serviço.
func (r *ExamRepository) FindAll(ctx context.Context) ([]domain.Exam, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	cursor, err := r.Collection.Find(ctxTimeout, bson.M{})
	if err != nil {
		r.logger.Error("Falha ao listar provas no DB.", err)
		return nil, apperror.NewDBError("failed to list exams", err)
	}
	defer cursor.Close(ctxTimeout)

	exams := []domain.Exam{}
	if err := cursor.All(ctxTimeout, &exams); err != nil {
		r.logger.Error("Falha ao decodificar provas do cursor.", err)
		return nil, apperror.NewDBError("failed to decode exams", err)
	}

	return exams, nil
}

// FindByID busca uma prova pelo ObjectID.
func (r *ExamRepository) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Exam, error) {
	return r.findOne(ctx, bson.M{"_id": id}, fmt.Sprintf("Prova com ID %s não encontrada.", id.Hex()))
}

// FindByTitle busca uma prova pelo título exato (usado no check de unicidade).
func (r *ExamRepository) FindByTitle(ctx context.Context, title string) (domain.Exam, error) {
	return r.findOne(ctx, bson.M{"title": title}, fmt.Sprintf("Prova com título '%s' não encontrada.", title))
}

func (r *ExamRepository) findOne(ctx context.Context, filter bson.M, notFoundMsg string) (domain.Exam, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exam domain.Exam
	err := r.Collection.FindOne(ctxTimeout, filter).Decode(&exam)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Exam{}, apperror.NewNotFoundError(notFoundMsg)
		}
		r.logger.Error("Falha ao buscar prova no DB.", err)
		return domain.Exam{}, apperror.NewDBError("failed to find exam", err)
	}

	return exam, nil
}

// Update aplica uma atualização parcial e retorna o documento já atualizado.
func (r *ExamRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.ExamPatch) (domain.Exam, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.SubjectID != nil {
		subjectID, err := primitive.ObjectIDFromHex(*patch.SubjectID)
		if err != nil {
			return domain.Exam{}, apperror.NewValidationError("O subject_id deve ser um ObjectID válido.")
		}
		set["subject_id"] = subjectID
	}
	if patch.DurationMinutes != nil {
		set["duration_minutes"] = *patch.DurationMinutes
	}
	if patch.TotalPoints != nil {
		set["total_points"] = *patch.TotalPoints
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var updated domain.Exam
	err := r.Collection.FindOneAndUpdate(ctxTimeout, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Exam{}, apperror.NewNotFoundError(fmt.Sprintf("Prova com ID %s não encontrada.", id.Hex()))
		}
		if database.IsDup(err) {
			return domain.Exam{}, apperror.NewConflictError("Já existe uma prova com este título.")
		}
		r.logger.Error("Falha ao atualizar prova no DB.", err)
		return domain.Exam{}, apperror.NewDBError("failed to update exam", err)
	}

	return updated, nil
}

// Delete remove a prova e retorna o documento removido.
func (r *ExamRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.Exam, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var removed domain.Exam
	err := r.Collection.FindOneAndDelete(ctxTimeout, bson.M{"_id": id}).Decode(&removed)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Exam{}, apperror.NewNotFoundError(fmt.Sprintf("Prova com ID %s não encontrada.", id.Hex()))
		}
		r.logger.Error("Falha ao remover prova no DB.", err)
		return domain.Exam{}, apperror.NewDBError("failed to delete exam", err)
	}

	return removed, nil
}
