package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subject representa uma disciplina do catálogo (e.g., "Matemática", código "MATH101").
// Nome e código são únicos na coleção; a garantia real vem dos índices únicos.
type Subject struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Code        string             `bson:"code" json:"code"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// SubjectInput representa o payload de criação de disciplina.
type SubjectInput struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// SubjectPatch descreve uma atualização parcial; campos nil não são alterados.
type SubjectPatch struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SubjectRepository define o contrato de persistência para a entidade Subject.
type SubjectRepository interface {
	Insert(ctx context.Context, subject Subject) (Subject, error)
	FindAll(ctx context.Context) ([]Subject, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (Subject, error)
	FindByName(ctx context.Context, name string) (Subject, error)
	FindByCode(ctx context.Context, code string) (Subject, error)
	Update(ctx context.Context, id primitive.ObjectID, patch SubjectPatch) (Subject, error)
	Delete(ctx context.Context, id primitive.ObjectID) (Subject, error)
}
