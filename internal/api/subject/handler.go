package subject

import (
	"context"
	"encoding/json"
	"net/http"

	"goexam/internal/api/respond"
	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
)

// SubjectService define o contrato do serviço de disciplinas consumido pelo Handler.
type SubjectService interface {
	Create(ctx context.Context, input domain.SubjectInput) (domain.Subject, error)
	FindAll(ctx context.Context) ([]domain.Subject, error)
	FindOne(ctx context.Context, id string) (domain.Subject, error)
	Update(ctx context.Context, id string, patch domain.SubjectPatch) (domain.Subject, error)
	Remove(ctx context.Context, id string) (domain.Subject, error)
}

// Handler agrupa todos os métodos de Handler de disciplinas.
type Handler struct {
	Service SubjectService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SubjectService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// Create lida com a requisição POST /subjects.
// @Summary Cria uma disciplina
// @Description Rejeita com 409 nomes ou códigos já cadastrados.
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subject body domain.SubjectInput true "Dados da disciplina"
// @Success 201 {object} domain.Subject
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Nome ou código duplicado"
// @Router /subjects [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.SubjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	subject, err := h.Service.Create(r.Context(), input)
	respond.Service(w, h.Logger, subject, err, http.StatusCreated)
}

// List lida com a requisição GET /subjects.
// @Summary Lista todas as disciplinas
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Subject
// @Router /subjects [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.Service.FindAll(r.Context())
	respond.Service(w, h.Logger, subjects, err, http.StatusOK)
}

// Get lida com a requisição GET /subjects/{id}.
// @Summary Busca uma disciplina pelo ID
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da disciplina"
// @Success 200 {object} domain.Subject
// @Failure 404 {object} domain.ErrorResponse "Disciplina não encontrada"
// @Router /subjects/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	subject, err := h.Service.FindOne(r.Context(), r.PathValue("id"))
	respond.Service(w, h.Logger, subject, err, http.StatusOK)
}

// Update lida com a requisição PATCH /subjects/{id}.
// @Summary Atualiza parcialmente uma disciplina
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da disciplina"
// @Param patch body domain.SubjectPatch true "Campos a atualizar"
// @Success 200 {object} domain.Subject
// @Failure 404 {object} domain.ErrorResponse "Disciplina não encontrada"
// @Failure 409 {object} domain.ErrorResponse "Nome ou código duplicado"
// @Router /subjects/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.SubjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	subject, err := h.Service.Update(r.Context(), r.PathValue("id"), patch)
	respond.Service(w, h.Logger, subject, err, http.StatusOK)
}

// Delete lida com a requisição DELETE /subjects/{id}.
// @Summary Remove uma disciplina
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da disciplina"
// @Success 200 {object} domain.Subject "Registro removido"
// @Failure 404 {object} domain.ErrorResponse "Disciplina não encontrada"
// @Router /subjects/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Service.Remove(r.Context(), r.PathValue("id"))
	respond.Service(w, h.Logger, removed, err, http.StatusOK)
}
