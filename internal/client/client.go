// Package client implementa o cliente HTTP da API GoExam e a sessão
// persistida usada por ferramentas de linha de comando e integrações.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"goexam/internal/domain"
)

// APIError representa uma resposta de erro da API ({code, category, message}).
type APIError struct {
	StatusCode int    `json:"code"`
	Category   string `json:"category"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Category, e.Message)
}

// LoginResult espelha a resposta de login/registro da API.
type LoginResult struct {
	AccessToken string             `json:"access_token"`
	User        domain.UserSummary `json:"user"`
}

// Profile espelha a resposta de GET /auth/profile.
type Profile struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Client é o cliente HTTP da API GoExam. As operações autenticadas usam o
// token da Session; Login e Register atualizam a Session automaticamente.
type Client struct {
	baseURL string
	httpc   *http.Client
	session *Session
}

// New cria um cliente apontando para baseURL (ex.: "http://localhost:8080"),
// compartilhando a sessão persistida informada.
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

// Session expõe a sessão associada ao cliente.
func (c *Client) Session() *Session {
	return c.session
}

// do executa uma requisição JSON e decodifica a resposta em out (se não nil).
// Status >= 400 é convertido em *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authenticated bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("falha ao serializar o corpo da requisição: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token := c.session.Token()
		if token == "" {
			return &APIError{StatusCode: http.StatusUnauthorized, Category: "UNAUTHORIZED", Message: "Sessão não autenticada."}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Category: "UNKNOWN"}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = resp.Status
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("falha ao decodificar a resposta: %w", err)
		}
	}
	return nil
}

// Ping verifica a disponibilidade do servidor.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil, false)
}

// --- Autenticação ---

// Login autentica com e-mail e senha e grava token e usuário na sessão.
func (c *Client) Login(ctx context.Context, email, password string) (domain.UserSummary, error) {
	var result LoginResult
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, &result, false); err != nil {
		return domain.UserSummary{}, err
	}
	if err := c.session.Login(result.AccessToken, result.User); err != nil {
		return domain.UserSummary{}, err
	}
	return result.User, nil
}

// Register cria a conta e já inicia a sessão do usuário recém-cadastrado.
func (c *Client) Register(ctx context.Context, name, email, password string) (domain.UserSummary, error) {
	var result LoginResult
	payload := domain.UserRegistration{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", payload, &result, false); err != nil {
		return domain.UserSummary{}, err
	}
	if err := c.session.Login(result.AccessToken, result.User); err != nil {
		return domain.UserSummary{}, err
	}
	return result.User, nil
}

// Logout encerra a sessão local. A API não mantém estado de sessão no
// servidor, então não há chamada remota.
func (c *Client) Logout() error {
	return c.session.Logout()
}

// ForgotPassword inicia a recuperação de senha para o e-mail informado.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	payload := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", payload, &result, false); err != nil {
		return "", err
	}
	return result.Message, nil
}

// ResetPassword conclui a recuperação usando o token recebido por e-mail.
func (c *Client) ResetPassword(ctx context.Context, email, token, newPassword string) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	payload := map[string]string{"email": email, "token": token, "newPassword": newPassword}
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password", payload, &result, false); err != nil {
		return "", err
	}
	return result.Message, nil
}

// ChangePassword troca a senha do usuário autenticado.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	payload := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	if err := c.do(ctx, http.MethodPost, "/auth/change-password", payload, &result, true); err != nil {
		return "", err
	}
	return result.Message, nil
}

// Profile retorna as claims do token da sessão atual.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &p, true)
	return p, err
}

// UpdateProfile edita o nome do usuário da sessão e sincroniza a cópia local.
func (c *Client) UpdateProfile(ctx context.Context, name string) (domain.User, error) {
	current := c.session.User()
	if current == nil {
		return domain.User{}, &APIError{StatusCode: http.StatusUnauthorized, Category: "UNAUTHORIZED", Message: "Sessão não autenticada."}
	}

	var updated domain.User
	payload := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPatch, "/users/"+current.ID.Hex(), payload, &updated, true); err != nil {
		return domain.User{}, err
	}
	if err := c.session.UpdateUser(updated.Summary()); err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

// DeleteUser remove um usuário (requer a role admin).
func (c *Client) DeleteUser(ctx context.Context, id string) (domain.User, error) {
	var removed domain.User
	err := c.do(ctx, http.MethodDelete, "/users/"+id, nil, &removed, true)
	return removed, err
}

// --- Disciplinas ---

func (c *Client) CreateSubject(ctx context.Context, input domain.SubjectInput) (domain.Subject, error) {
	var subject domain.Subject
	err := c.do(ctx, http.MethodPost, "/subjects", input, &subject, true)
	return subject, err
}

func (c *Client) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	var subjects []domain.Subject
	err := c.do(ctx, http.MethodGet, "/subjects", nil, &subjects, true)
	return subjects, err
}

func (c *Client) GetSubject(ctx context.Context, id string) (domain.Subject, error) {
	var subject domain.Subject
	err := c.do(ctx, http.MethodGet, "/subjects/"+id, nil, &subject, true)
	return subject, err
}

func (c *Client) UpdateSubject(ctx context.Context, id string, patch domain.SubjectPatch) (domain.Subject, error) {
	var subject domain.Subject
	err := c.do(ctx, http.MethodPatch, "/subjects/"+id, patch, &subject, true)
	return subject, err
}

func (c *Client) DeleteSubject(ctx context.Context, id string) (domain.Subject, error) {
	var removed domain.Subject
	err := c.do(ctx, http.MethodDelete, "/subjects/"+id, nil, &removed, true)
	return removed, err
}

// --- Provas ---

func (c *Client) CreateExam(ctx context.Context, input domain.ExamInput) (domain.Exam, error) {
	var exam domain.Exam
	err := c.do(ctx, http.MethodPost, "/exams", input, &exam, true)
	return exam, err
}

func (c *Client) ListExams(ctx context.Context) ([]domain.Exam, error) {
	var exams []domain.Exam
	err := c.do(ctx, http.MethodGet, "/exams", nil, &exams, true)
	return exams, err
}

func (c *Client) GetExam(ctx context.Context, id string) (domain.Exam, error) {
	var exam domain.Exam
	err := c.do(ctx, http.MethodGet, "/exams/"+id, nil, &exam, true)
	return exam, err
}

func (c *Client) UpdateExam(ctx context.Context, id string, patch domain.ExamPatch) (domain.Exam, error) {
	var exam domain.Exam
	err := c.do(ctx, http.MethodPatch, "/exams/"+id, patch, &exam, true)
	return exam, err
}

func (c *Client) DeleteExam(ctx context.Context, id string) (domain.Exam, error) {
	var removed domain.Exam
	err := c.do(ctx, http.MethodDelete, "/exams/"+id, nil, &removed, true)
	return removed, err
}

// --- Questões ---

func (c *Client) CreateQuestion(ctx context.Context, input domain.QuestionInput) (domain.Question, error) {
	var question domain.Question
	err := c.do(ctx, http.MethodPost, "/questions", input, &question, true)
	return question, err
}

func (c *Client) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	var questions []domain.Question
	err := c.do(ctx, http.MethodGet, "/questions", nil, &questions, true)
	return questions, err
}

func (c *Client) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	var question domain.Question
	err := c.do(ctx, http.MethodGet, "/questions/"+id, nil, &question, true)
	return question, err
}

func (c *Client) UpdateQuestion(ctx context.Context, id string, patch domain.QuestionPatch) (domain.Question, error) {
	var question domain.Question
	err := c.do(ctx, http.MethodPatch, "/questions/"+id, patch, &question, true)
	return question, err
}

func (c *Client) DeleteQuestion(ctx context.Context, id string) (domain.Question, error) {
	var removed domain.Question
	err := c.do(ctx, http.MethodDelete, "/questions/"+id, nil, &removed, true)
	return removed, err
}
