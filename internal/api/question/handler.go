package question

import (
	"context"
	"encoding/json"
	"net/http"

	"goexam/internal/api/respond"
	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
)

// QuestionService define o contrato do serviço de questões consumido pelo Handler.
type QuestionService interface {
	Create(ctx context.Context, input domain.QuestionInput) (domain.Question, error)
	FindAll(ctx context.Context) ([]domain.Question, error)
	FindOne(ctx context.Context, id string) (domain.Question, error)
	Update(ctx context.Context, id string, patch domain.QuestionPatch) (domain.Question, error)
	Remove(ctx context.Context, id string) (domain.Question, error)
}

// Handler agrupa todos os métodos de Handler de questões.
type Handler struct {
	Service QuestionService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc QuestionService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// Create lida com a requisição POST /questions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	question, err := h.Service.Create(r.Context(), input)
	respond.Service(w, h.Logger, question, err, http.StatusCreated)
}

// List lida com a requisição GET /questions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.Service.FindAll(r.Context())
	respond.Service(w, h.Logger, questions, err, http.StatusOK)
}

// Get lida com a requisição GET /questions/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	question, err := h.Service.FindOne(r.Context(), r.PathValue("id"))
	respond.Service(w, h.Logger, question, err, http.StatusOK)
}

// Update lida com a requisição PATCH /questions/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.QuestionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	question, err := h.Service.Update(r.Context(), r.PathValue("id"), patch)
	respond.Service(w, h.Logger, question, err, http.StatusOK)
}

// Delete lida com a requisição DELETE /questions/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Service.Remove(r.Context(), r.PathValue("id"))
	respond.Service(w, h.Logger, removed, err, http.StatusOK)
}
