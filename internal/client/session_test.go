package client_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"goexam/internal/client"
	"goexam/internal/domain"
)

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func testUser() domain.UserSummary {
	return domain.UserSummary{
		ID:    primitive.NewObjectID(),
		Email: "professor@escola.com",
		Name:  "Professor",
		Role:  domain.RoleUser,
	}
}

// TestSession_StartsLoggedOut testa que uma sessão nova começa deslogada.
func TestSession_StartsLoggedOut(t *testing.T) {
	s, err := client.NewSession(sessionPath(t))

	assert.NoError(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
}

// TestSession_LoginPersistsAcrossReloads testa que o estado sobrevive a um reload.
func TestSession_LoginPersistsAcrossReloads(t *testing.T) {
	path := sessionPath(t)
	user := testUser()

	s, err := client.NewSession(path)
	assert.NoError(t, err)
	assert.NoError(t, s.Login("jwt-assinado", user))

	// Recarrega a partir do arquivo, simulando uma nova execução.
	reloaded, err := client.NewSession(path)
	assert.NoError(t, err)
	assert.True(t, reloaded.IsAuthenticated())
	assert.Equal(t, "jwt-assinado", reloaded.Token())
	assert.Equal(t, &user, reloaded.User())
}

// TestSession_Logout testa que o logout limpa token e usuário, inclusive em disco.
func TestSession_Logout(t *testing.T) {
	path := sessionPath(t)
	s, err := client.NewSession(path)
	assert.NoError(t, err)

	assert.NoError(t, s.Login("jwt-assinado", testUser()))
	assert.NoError(t, s.Logout())

	assert.False(t, s.IsAuthenticated())

	reloaded, err := client.NewSession(path)
	assert.NoError(t, err)
	assert.False(t, reloaded.IsAuthenticated())
	assert.Nil(t, reloaded.User())
}

// TestSession_UpdateUserKeepsToken testa que a edição de perfil preserva o token.
func TestSession_UpdateUserKeepsToken(t *testing.T) {
	s, err := client.NewSession(sessionPath(t))
	assert.NoError(t, err)

	user := testUser()
	assert.NoError(t, s.Login("jwt-assinado", user))

	user.Name = "Professor Renomeado"
	assert.NoError(t, s.UpdateUser(user))

	assert.Equal(t, "jwt-assinado", s.Token())
	assert.Equal(t, "Professor Renomeado", s.User().Name)
}

// TestSession_TokenWithoutUserResets testa que um token órfão (sem usuário)
// não conta como sessão ativa: o estado parcial é limpo por inteiro.
func TestSession_TokenWithoutUserResets(t *testing.T) {
	path := sessionPath(t)
	assert.NoError(t, os.WriteFile(path, []byte(`{"token":"jwt-orfao"}`), 0o600))

	s, err := client.NewSession(path)

	assert.NoError(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())

	// As duas chaves foram limpas juntas, inclusive em disco.
	reloaded, err := client.NewSession(path)
	assert.NoError(t, err)
	assert.False(t, reloaded.IsAuthenticated())
	assert.Empty(t, reloaded.Token())
}

// TestSession_UserWithoutTokenResets testa o estado parcial inverso:
// usuário persistido sem token também recomeça deslogado.
func TestSession_UserWithoutTokenResets(t *testing.T) {
	path := sessionPath(t)
	state := `{"token":"","user":{"id":"64f1b2c3d4e5f60718293a4b","email":"professor@escola.com","name":"Professor","role":"user"}}`
	assert.NoError(t, os.WriteFile(path, []byte(state), 0o600))

	s, err := client.NewSession(path)

	assert.NoError(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

// TestSession_CorruptFileResets testa a autorrecuperação: um arquivo ilegível
// não derruba o cliente, apenas recomeça a sessão deslogada.
func TestSession_CorruptFileResets(t *testing.T) {
	path := sessionPath(t)
	assert.NoError(t, os.WriteFile(path, []byte("{isto não é json"), 0o600))

	s, err := client.NewSession(path)

	assert.NoError(t, err)
	assert.False(t, s.IsAuthenticated())

	// O arquivo foi regravado limpo: o próximo load não encontra lixo.
	reloaded, err := client.NewSession(path)
	assert.NoError(t, err)
	assert.False(t, reloaded.IsAuthenticated())
}
