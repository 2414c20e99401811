package userrepo

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

// UserRepository implementa a interface domain.UserRepository sobre a coleção "users".
type UserRepository struct {
	Collection *mongo.Collection
	DBTimeout  time.Duration
	logger     logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o database.
func NewUserRepository(db *mongo.Database, dbTimeout time.Duration, log logger.Logger) *UserRepository {
	return &UserRepository{
		Collection: db.Collection("users"),
		DBTimeout:  dbTimeout,
		logger:     log,
	}
}

// Insert insere um novo usuário na coleção.
// A unicidade do e-mail é garantida pelo índice único; violações viram ConflictError.
func (r *UserRepository) Insert(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Insert de usuário no repositório.", map[string]interface{}{"email": user.Email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	if _, err := r.Collection.InsertOne(ctxTimeout, user); err != nil {
		if database.IsDup(err) {
			r.logger.Info("Insert de usuário rejeitado por e-mail duplicado.", map[string]interface{}{"email": user.Email})
			return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", user.Email))
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID.Hex(), "email": user.Email})
	return user, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail (case-sensitive, como armazenado).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var user domain.User
	err := r.Collection.FindOne(ctxTimeout, bson.M{"email": email}).Decode(&user)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado.", email))
		}
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by email", err)
	}

	return user, nil
}

// FindByID busca um usuário pelo ObjectID.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var user domain.User
	err := r.Collection.FindOne(ctxTimeout, bson.M{"_id": id}).Decode(&user)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", id.Hex()))
		}
		r.logger.Error("Falha ao buscar usuário por ID no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by id", err)
	}

	return user, nil
}

// Update aplica uma atualização parcial e retorna o documento já atualizado.
func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.UserPatch) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.PasswordHash != nil {
		set["password"] = *patch.PasswordHash
	}
	if patch.ResetTokenHash != nil {
		set["reset_token_hash"] = *patch.ResetTokenHash
	}
	if patch.ResetTokenExpiresAt != nil {
		set["reset_token_expires_at"] = *patch.ResetTokenExpiresAt
	}
	if patch.RefreshToken != nil {
		set["refresh_token"] = *patch.RefreshToken
	}
	if patch.ClearResetToken {
		// Token de reset é de uso único: removido por completo após consumo.
		delete(set, "reset_token_hash")
		delete(set, "reset_token_expires_at")
		unset["reset_token_hash"] = ""
		unset["reset_token_expires_at"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var updated domain.User
	err := r.Collection.FindOneAndUpdate(ctxTimeout, bson.M{"_id": id}, update, opts).Decode(&updated)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", id.Hex()))
		}
		r.logger.Error("Falha ao atualizar usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to update user", err)
	}

	return updated, nil
}

// Delete remove o usuário e retorna o documento removido.
func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var removed domain.User
	err := r.Collection.FindOneAndDelete(ctxTimeout, bson.M{"_id": id}).Decode(&removed)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", id.Hex()))
		}
		r.logger.Error("Falha ao remover usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to delete user", err)
	}

	r.logger.Info("Usuário removido do repositório.", map[string]interface{}{"user_id": id.Hex()})
	return removed, nil
}
