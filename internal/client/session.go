package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"goexam/internal/domain"
)

// sessionState é o estado persistido em disco. Mantemos exatamente duas
// chaves, token e user: a presença do token define se há sessão ativa.
type sessionState struct {
	Token string              `json:"token"`
	User  *domain.UserSummary `json:"user,omitempty"`
}

// Session mantém o estado de autenticação do cliente entre execuções,
// persistido em um arquivo JSON. Todas as operações são seguras para uso
// concorrente.
type Session struct {
	mu    sync.RWMutex
	path  string
	state sessionState
}

// NewSession carrega (ou cria) a sessão persistida no caminho informado.
// Um arquivo corrompido não é um erro fatal: o estado é descartado e a
// sessão recomeça deslogada.
func NewSession(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao ler o arquivo de sessão: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		// Estado ilegível: recomeça deslogado e regrava o arquivo limpo.
		s.state = sessionState{}
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}

	// Estado parcial (token sem usuário, ou usuário sem token) é tratado como
	// corrompido: as duas chaves são limpas juntas, nunca restauradas pela metade.
	if (s.state.Token != "") != (s.state.User != nil) {
		s.state = sessionState{}
		if err := s.save(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Token retorna o token de acesso da sessão atual (vazio se deslogado).
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User retorna o usuário da sessão atual, ou nil se deslogado.
func (s *Session) User() *domain.UserSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// IsAuthenticated indica se há uma sessão ativa. É derivado da presença
// do usuário, nunca armazenado separadamente.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil
}

// Login grava o token e o usuário autenticado e persiste o estado.
func (s *Session) Login(token string, user domain.UserSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	s.state.User = &user
	return s.save()
}

// UpdateUser substitui o usuário da sessão (após edição de perfil),
// preservando o token.
func (s *Session) UpdateUser(user domain.UserSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = &user
	return s.save()
}

// Logout limpa token e usuário e persiste o estado vazio.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = sessionState{}
	return s.save()
}

// save persiste o estado atual. Deve ser chamado com o lock de escrita adquirido.
func (s *Session) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("falha ao serializar a sessão: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("falha ao criar o diretório da sessão: %w", err)
		}
	}

	// 0600: o arquivo carrega um token de acesso.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("falha ao gravar o arquivo de sessão: %w", err)
	}
	return nil
}
