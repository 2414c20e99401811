package subjectrepo

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

// SubjectRepository implementa a interface domain.SubjectRepository sobre a coleção "subjects".
type SubjectRepository struct {
	Collection *mongo.Collection
	DBTimeout  time.Duration
	logger     logger.Logger
}

// NewSubjectRepository cria uma nova instância do SubjectRepository, injetando o database.
func NewSubjectRepository(db *mongo.Database, dbTimeout time.Duration, log logger.Logger) *SubjectRepository {
	return &SubjectRepository{
		Collection: db.Collection("subjects"),
		DBTimeout:  dbTimeout,
		logger:     log,
	}
}

// Insert insere uma nova disciplina.
// Os índices únicos de name e code transformam corridas do check-then-write em ConflictError.
func (r *SubjectRepository) Insert(ctx context.Context, subject domain.Subject) (domain.Subject, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	subject.ID = primitive.NewObjectID()
	subject.CreatedAt = time.Now().UTC()
	subject.UpdatedAt = subject.CreatedAt

	if _, err := r.Collection.InsertOne(ctxTimeout, subject); err != nil {
		if database.IsDup(err) {
			return domain.Subject{}, apperror.NewConflictError("Já existe uma disciplina com este nome ou código.")
		}
		r.logger.Error("Falha ao inserir disciplina no DB.", err)
		return domain.Subject{}, apperror.NewDBError("failed to insert subject", err)
	}

	r.logger.Info("Disciplina salva no repositório.", map[string]interface{}{"subject_id": subject.ID.Hex(), "code": subject.Code})
	return subject, nil
}

// FindAll retorna todas as disciplinas, sem paginação na camada de serviço.
func (r *SubjectRepository) FindAll(ctx context.Context) ([]domain.Subject, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	cursor, err := r.Collection.Find(ctxTimeout, bson.M{})
	if err != nil {
		r.logger.Error("Falha ao listar disciplinas no DB.", err)
		return nil, apperror.NewDBError("failed to list subjects", err)
	}
	defer cursor.Close(ctxTimeout)

	subjects := []domain.Subject{}
	if err := cursor.All(ctxTimeout, &subjects); err != nil {
		r.logger.Error("Falha ao decodificar disciplinas do cursor.", err)
		return nil, apperror.NewDBError("failed to decode subjects", err)
	}

	return subjects, nil
}

// FindByID busca uma disciplina pelo ObjectID.
func (r *SubjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Subject, error) {
	return r.findOne(ctx, bson.M{"_id": id}, fmt.Sprintf("Disciplina com ID %s não encontrada.", id.Hex()))
}

// FindByName busca uma disciplina pelo nome exato (usado nos checks de unicidade).
func (r *SubjectRepository) FindByName(ctx context.Context, name string) (domain.Subject, error) {
	return r.findOne(ctx, bson.M{"name": name}, fmt.Sprintf("Disciplina com nome '%s' não encontrada.", name))
}

// FindByCode busca uma disciplina pelo código exato (usado nos checks de unicidade).
func (r *SubjectRepository) FindByCode(ctx context.Context, code string) (domain.Subject, error) {
	return r.findOne(ctx, bson.M{"code": code}, fmt.Sprintf("Disciplina com código '%s' não encontrada.", code))
}

func (r *SubjectRepository) findOne(ctx context.Context, filter bson.M, notFoundMsg string) (domain.Subject, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var subject domain.Subject
	err := r.Collection.FindOne(ctxTimeout, filter).Decode(&subject)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Subject{}, apperror.NewNotFoundError(notFoundMsg)
		}
		r.logger.Error("Falha ao buscar disciplina no DB.", err)
		return domain.Subject{}, apperror.NewDBError("failed to find subject", err)
	}

	return subject, nil
}

// Update aplica uma atualização parcial e retorna o documento já atualizado.
func (r *SubjectRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.SubjectPatch) (domain.Subject, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Code != nil {
		set["code"] = *patch.Code
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var updated domain.Subject
	err := r.Collection.FindOneAndUpdate(ctxTimeout, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Subject{}, apperror.NewNotFoundError(fmt.Sprintf("Disciplina com ID %s não encontrada.", id.Hex()))
		}
		if database.IsDup(err) {
			return domain.Subject{}, apperror.NewConflictError("Já existe uma disciplina com este nome ou código.")
		}
		r.logger.Error("Falha ao atualizar disciplina no DB.", err)
		return domain.Subject{}, apperror.NewDBError("failed to update subject", err)
	}

	return updated, nil
}

// Delete remove a disciplina e retorna o documento removido.
func (r *SubjectRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.Subject, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var removed domain.Subject
	err := r.Collection.FindOneAndDelete(ctxTimeout, bson.M{"_id": id}).Decode(&removed)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Subject{}, apperror.NewNotFoundError(fmt.Sprintf("Disciplina com ID %s não encontrada.", id.Hex()))
		}
		r.logger.Error("Falha ao remover disciplina no DB.", err)
		return domain.Subject{}, apperror.NewDBError("failed to delete subject", err)
	}

	return removed, nil
}
