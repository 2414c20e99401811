package exam

import (
	"context"
	"encoding/json"
	"net/http"

	"goexam/internal/api/respond"
	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
)

// ExamService define o contrato do serviço de provas consumido pelo Handler.
type ExamService interface {
	Create(ctx context.Context, input domain.ExamInput) (domain.Exam, error)
	FindAll(ctx context.Context) ([]domain.Exam, error)
	FindOne(ctx context.Context, id string) (domain.Exam, error)
	Update(ctx context.Context, id string, patch domain.ExamPatch) (domain.Exam, error)
	Remove(ctx context.Context, id string) (domain.Exam, error)
}

// Handler agrupa todos os métodos de Handler de provas.
type Handler struct {
	Service ExamService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ExamService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// Create lida com a requisição POST /exams.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ExamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	exam, err := h.Service.Create(r.Context(), input)
	respond.Service(w, h.Logger, exam, err, http.StatusCreated)
}

// List lida com a requisição GET /exams.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	exams, err := h.Service.FindAll(r.Context())
	respond.Service(w, h.Logger, exams, err, http.StatusOK)
}

// Get lida com a requisição GET /exams/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	exam, err := h.Service.FindOne(r.Context(), r.PathValue("id"))
	respond.Service(w, h.Logger, exam, err, http.StatusOK)
}

// Update lida com a requisição PATCH /exams/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.ExamPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	exam, err := h.Service.Update(r.Context(), r.PathValue("id"), patch)
	respond.Service(w, h.Logger, exam, err, http.StatusOK)
}

// Delete lida com a requisição DELETE /exams/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Service.Remove(r.Context(), r.PathValue("id"))
	respond.Service(w, h.Logger, removed, err, http.StatusOK)
}
