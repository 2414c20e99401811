package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionType enumera os formatos de questão suportados.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionEssay          QuestionType = "essay"
)

// IsValidQuestionType informa se o tipo está entre os suportados.
func IsValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionEssay:
		return true
	}
	return false
}

// Question representa uma questão do banco de questões de uma disciplina.
// O enunciado é único dentro da disciplina.
type Question struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubjectID primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	Content   string             `bson:"content" json:"content"`
	Type      QuestionType       `bson:"type" json:"type"`
	Options   []string           `bson:"options,omitempty" json:"options,omitempty"`
	Answer    string             `bson:"answer,omitempty" json:"answer,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// QuestionInput representa o payload de criação de questão.
type QuestionInput struct {
	SubjectID string       `json:"subject_id"`
	Content   string       `json:"content"`
	Type      QuestionType `json:"type"`
	Options   []string     `json:"options,omitempty"`
	Answer    string       `json:"answer,omitempty"`
}

// QuestionPatch descreve uma atualização parcial; campos nil não são alterados.
type QuestionPatch struct {
	Content *string       `json:"content,omitempty"`
	Type    *QuestionType `json:"type,omitempty"`
	Options *[]string     `json:"options,omitempty"`
	Answer  *string       `json:"answer,omitempty"`
}

// QuestionRepository define o contrato de persistência para a entidade Question.
type QuestionRepository interface {
	Insert(ctx context.Context, question Question) (Question, error)
	FindAll(ctx context.Context) ([]Question, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (Question, error)
	FindByContent(ctx context.Context, subjectID primitive.ObjectID, content string) (Question, error)
	Update(ctx context.Context, id primitive.ObjectID, patch QuestionPatch) (Question, error)
	Delete(ctx context.Context, id primitive.ObjectID) (Question, error)
}
