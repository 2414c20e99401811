package user

import (
	"context"
	"encoding/json"
	"net/http"

	"goexam/internal/api/respond"
	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
	"goexam/internal/pkg/middleware"
)

// UserService define o contrato do serviço de usuários consumido pelo Handler.
type UserService interface {
	ApplyPatch(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error)
	Remove(ctx context.Context, id string) (domain.User, error)
}

// UpdateProfileRequest representa o payload de edição de perfil.
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// Handler agrupa os métodos de Handler de usuários.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// Update lida com a requisição PATCH /users/{id} (autenticada).
// O usuário só pode editar o próprio perfil; admins podem editar qualquer um.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		respond.Error(w, h.Logger, apperror.NewUnauthorizedError("Autorização necessária."))
		return
	}
	if claims.UserID != id && claims.Role != domain.RoleAdmin {
		respond.JSON(w, http.StatusForbidden, domain.ErrorResponse{
			Code:     http.StatusForbidden,
			Category: "FORBIDDEN",
			Message:  "Você só pode editar o próprio perfil.",
		})
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	updated, err := h.Service.ApplyPatch(ctx, id, domain.UserPatch{Name: &req.Name})
	respond.Service(w, h.Logger, updated, err, http.StatusOK)
}

// Delete lida com a requisição DELETE /users/{id}.
// Caminho administrativo: o roteador aplica o PermissionMiddleware(RoleAdmin).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Service.Remove(r.Context(), r.PathValue("id"))
	respond.Service(w, h.Logger, removed, err, http.StatusOK)
}
