package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exam representa uma prova montada pelo professor sobre uma disciplina.
// O título é único na coleção.
type Exam struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	SubjectID       primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	DurationMinutes int                `bson:"duration_minutes" json:"duration_minutes"`
	TotalPoints     int                `bson:"total_points" json:"total_points"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// ExamInput representa o payload de criação de prova.
type ExamInput struct {
	Title           string `json:"title"`
	SubjectID       string `json:"subject_id"`
	DurationMinutes int    `json:"duration_minutes"`
	TotalPoints     int    `json:"total_points"`
	Description     string `json:"description,omitempty"`
}

// ExamPatch descreve uma atualização parcial; campos nil não são alterados.
type ExamPatch struct {
	Title           *string `json:"title,omitempty"`
	SubjectID       *string `json:"subject_id,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	TotalPoints     *int    `json:"total_points,omitempty"`
	Description     *string `json:"description,omitempty"`
}

// ExamRepository define o contrato de persistência para a entidade Exam.
type ExamRepository interface {
	Insert(ctx context.Context, exam Exam) (Exam, error)
	FindAll(ctx context.Context) ([]Exam, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (Exam, error)
	FindByTitle(ctx context.Context, title string) (Exam, error)
	Update(ctx context.Context, id primitive.ObjectID, patch ExamPatch) (Exam, error)
	Delete(ctx context.Context, id primitive.ObjectID) (Exam, error)
}
