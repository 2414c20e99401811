package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User representa a entidade do usuário no sistema.
// O hash da senha e os campos de recuperação nunca são expostos no JSON de resposta.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password,omitempty" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Role         UserRole           `bson:"role" json:"role"`

	// Recuperação de senha: o token é armazenado como digest SHA-256,
	// com janela de validade explícita, e é de uso único.
	ResetTokenHash      string     `bson:"reset_token_hash,omitempty" json:"-"`
	ResetTokenExpiresAt *time.Time `bson:"reset_token_expires_at,omitempty" json:"-"`

	// Reservado para rotação de sessão; persistido mas sem endpoint associado.
	RefreshToken string `bson:"refresh_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Constantes para os papéis de usuário
const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// UserSummary é a projeção mínima do usuário devolvida no login/registro.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Email string             `json:"email"`
	Name  string             `json:"name"`
	Role  UserRole           `json:"role"`
}

// Summary projeta a entidade completa na forma mínima (sem o hash da senha).
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserPatch descreve uma atualização parcial do usuário.
// Campos nil não são alterados; ponteiros para o valor zero limpam o campo.
type UserPatch struct {
	Name                *string
	PasswordHash        *string
	ResetTokenHash      *string
	ResetTokenExpiresAt *time.Time
	ClearResetToken     bool
	RefreshToken        *string
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Insert(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (User, error)
	Update(ctx context.Context, id primitive.ObjectID, patch UserPatch) (User, error)
	Delete(ctx context.Context, id primitive.ObjectID) (User, error)
}
