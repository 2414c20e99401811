package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"goexam/internal/client"
	"goexam/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *client.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session, err := client.NewSession(sessionPath(t))
	assert.NoError(t, err)

	return client.New(server.URL, session)
}

// TestClientLogin_UpdatesSession testa que o login grava token e usuário na sessão.
func TestClientLogin_UpdatesSession(t *testing.T) {
	user := testUser()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "professor@escola.com", payload["email"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(client.LoginResult{AccessToken: "jwt-assinado", User: user})
	})

	c := newTestClient(t, mux)
	logged, err := c.Login(context.Background(), "professor@escola.com", "segredo123")

	assert.NoError(t, err)
	assert.Equal(t, user, logged)
	assert.True(t, c.Session().IsAuthenticated())
	assert.Equal(t, "jwt-assinado", c.Session().Token())
}

// TestClientLogin_InvalidCredentials testa a decodificação do erro da API.
func TestClientLogin_InvalidCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
			Code:     http.StatusUnauthorized,
			Category: "UNAUTHORIZED",
			Message:  "Credenciais inválidas.",
		})
	})

	c := newTestClient(t, mux)
	_, err := c.Login(context.Background(), "professor@escola.com", "senha-errada")

	assert.Error(t, err)
	var apiErr *client.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Category)
	assert.False(t, c.Session().IsAuthenticated())
}

// TestClientListSubjects_SendsBearerToken testa que operações autenticadas
// enviam o token da sessão no header Authorization.
func TestClientListSubjects_SendsBearerToken(t *testing.T) {
	subjects := []domain.Subject{
		{ID: primitive.NewObjectID(), Name: "Matemática", Code: "MATH101"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /subjects", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-assinado", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(subjects)
	})

	c := newTestClient(t, mux)
	assert.NoError(t, c.Session().Login("jwt-assinado", testUser()))

	listed, err := c.ListSubjects(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, subjects, listed)
}

// TestClientAuthenticatedCall_WithoutSession testa que chamadas autenticadas
// falham localmente quando não há sessão, sem bater no servidor.
func TestClientAuthenticatedCall_WithoutSession(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	c := newTestClient(t, mux)
	_, err := c.ListSubjects(context.Background())

	assert.Error(t, err)
	var apiErr *client.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, called)
}

// TestClientUpdateProfile_SyncsSession testa que a edição de perfil
// atualiza a cópia local do usuário preservando o token.
func TestClientUpdateProfile_SyncsSession(t *testing.T) {
	user := testUser()
	renamed := domain.User{
		ID:    user.ID,
		Email: user.Email,
		Name:  "Professor Renomeado",
		Role:  user.Role,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, user.ID.Hex(), r.PathValue("id"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(renamed)
	})

	c := newTestClient(t, mux)
	assert.NoError(t, c.Session().Login("jwt-assinado", user))

	updated, err := c.UpdateProfile(context.Background(), "Professor Renomeado")

	assert.NoError(t, err)
	assert.Equal(t, "Professor Renomeado", updated.Name)
	assert.Equal(t, "Professor Renomeado", c.Session().User().Name)
	assert.Equal(t, "jwt-assinado", c.Session().Token())
}

// TestClientLogout_ClearsSession testa o encerramento local da sessão.
func TestClientLogout_ClearsSession(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())
	assert.NoError(t, c.Session().Login("jwt-assinado", testUser()))

	assert.NoError(t, c.Logout())
	assert.False(t, c.Session().IsAuthenticated())
}

// TestClientForgotPassword testa o fluxo de recuperação (sem autenticação).
func TestClientForgotPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "E-mail de recuperação de senha enviado."})
	})

	c := newTestClient(t, mux)
	msg, err := c.ForgotPassword(context.Background(), "professor@escola.com")

	assert.NoError(t, err)
	assert.Equal(t, "E-mail de recuperação de senha enviado.", msg)
}
