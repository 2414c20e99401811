package subject_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"goexam/internal/api/subject"
	"goexam/internal/domain"
	apperror "goexam/internal/errors"
	"goexam/internal/pkg/logger"
	"goexam/internal/service/subjectservice"
)

// memSubjectRepo é um SubjectRepository em memória para exercitar o handler
// real de ponta a ponta, sem um MongoDB de verdade.
type memSubjectRepo struct {
	mu       sync.Mutex
	subjects map[primitive.ObjectID]domain.Subject
}

func newMemSubjectRepo() *memSubjectRepo {
	return &memSubjectRepo{subjects: make(map[primitive.ObjectID]domain.Subject)}
}

func (r *memSubjectRepo) Insert(ctx context.Context, s domain.Subject) (domain.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = primitive.NewObjectID()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	r.subjects[s.ID] = s
	return s, nil
}

func (r *memSubjectRepo) FindAll(ctx context.Context) ([]domain.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := []domain.Subject{}
	for _, s := range r.subjects {
		all = append(all, s)
	}
	return all, nil
}

func (r *memSubjectRepo) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.subjects[id]
	if !ok {
		return domain.Subject{}, apperror.NewNotFoundError(fmt.Sprintf("Disciplina com ID %s não encontrada.", id.Hex()))
	}
	return s, nil
}

func (r *memSubjectRepo) FindByName(ctx context.Context, name string) (domain.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.subjects {
		if s.Name == name {
			return s, nil
		}
	}
	return domain.Subject{}, apperror.NewNotFoundError(fmt.Sprintf("Disciplina com nome '%s' não encontrada.", name))
}

func (r *memSubjectRepo) FindByCode(ctx context.Context, code string) (domain.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.subjects {
		if s.Code == code {
			return s, nil
		}
	}
	return domain.Subject{}, apperror.NewNotFoundError(fmt.Sprintf("Disciplina com código '%s' não encontrada.", code))
}

func (r *memSubjectRepo) Update(ctx context.Context, id primitive.ObjectID, patch domain.SubjectPatch) (domain.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.subjects[id]
	if !ok {
		return domain.Subject{}, apperror.NewNotFoundError(fmt.Sprintf("Disciplina com ID %s não encontrada.", id.Hex()))
	}

	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Code != nil {
		s.Code = *patch.Code
	}
	if patch.Description != nil {
		s.Description = *patch.Description
	}
	s.UpdatedAt = time.Now().UTC()

	r.subjects[id] = s
	return s, nil
}

func (r *memSubjectRepo) Delete(ctx context.Context, id primitive.ObjectID) (domain.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.subjects[id]
	if !ok {
		return domain.Subject{}, apperror.NewNotFoundError(fmt.Sprintf("Disciplina com ID %s não encontrada.", id.Hex()))
	}
	delete(r.subjects, id)
	return s, nil
}

// newSubjectServer monta a cadeia real repositório (memória) -> serviço ->
// handler, com as mesmas rotas do roteador da aplicação.
func newSubjectServer(t *testing.T) *httptest.Server {
	t.Helper()

	repo := newMemSubjectRepo()
	svc := subjectservice.NewService(repo, logger.NewLogger("debug"))
	handler := subject.NewHandler(svc, logger.NewLogger("debug"))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /subjects", handler.Create)
	mux.HandleFunc("GET /subjects", handler.List)
	mux.HandleFunc("GET /subjects/{id}", handler.Get)
	mux.HandleFunc("PATCH /subjects/{id}", handler.Update)
	mux.HandleFunc("DELETE /subjects/{id}", handler.Delete)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) int {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		assert.NoError(t, err)
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// TestSubjectLifecycle_HTTP testa o ciclo completo de uma disciplina pela
// camada HTTP real: criar, listar, atualizar, buscar, remover e confirmar o 404.
func TestSubjectLifecycle_HTTP(t *testing.T) {
	server := newSubjectServer(t)

	// 1. Criação: 201 com o registro persistido
	var created domain.Subject
	status := doJSON(t, http.MethodPost, server.URL+"/subjects",
		domain.SubjectInput{Name: "Toán", Code: "MATH101"}, &created)

	assert.Equal(t, http.StatusCreated, status)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Toán", created.Name)
	assert.Equal(t, "MATH101", created.Code)

	// 2. Listagem: a disciplina recém-criada aparece
	var listed []domain.Subject
	status = doJSON(t, http.MethodGet, server.URL+"/subjects", nil, &listed)

	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	// 3. Atualização parcial da descrição
	description := "Toán học cơ bản"
	var updated domain.Subject
	status = doJSON(t, http.MethodPatch, server.URL+"/subjects/"+created.ID.Hex(),
		domain.SubjectPatch{Description: &description}, &updated)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, description, updated.Description)
	assert.Equal(t, "Toán", updated.Name)

	// 4. Busca por ID reflete a atualização
	var fetched domain.Subject
	status = doJSON(t, http.MethodGet, server.URL+"/subjects/"+created.ID.Hex(), nil, &fetched)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, description, fetched.Description)

	// 5. Remoção retorna o registro removido
	var removed domain.Subject
	status = doJSON(t, http.MethodDelete, server.URL+"/subjects/"+created.ID.Hex(), nil, &removed)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, removed.ID)

	// 6. Buscar a disciplina removida responde 404 padronizado
	var errResp domain.ErrorResponse
	status = doJSON(t, http.MethodGet, server.URL+"/subjects/"+created.ID.Hex(), nil, &errResp)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errResp.Category)
}

// TestSubjectDuplicate_HTTP testa que a duplicidade de nome chega ao cliente como 409.
func TestSubjectDuplicate_HTTP(t *testing.T) {
	server := newSubjectServer(t)

	status := doJSON(t, http.MethodPost, server.URL+"/subjects",
		domain.SubjectInput{Name: "Toán", Code: "MATH101"}, nil)
	assert.Equal(t, http.StatusCreated, status)

	var errResp domain.ErrorResponse
	status = doJSON(t, http.MethodPost, server.URL+"/subjects",
		domain.SubjectInput{Name: "Toán", Code: "MATH102"}, &errResp)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errResp.Category)
}
