package api

import (
	"context"
	"sync"

	"github.com/diogo/intellibrowse/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	mu sync.Mutex

	// Mock return values
	LoginToken  string
	LoginErr    error
	SignupErr   error
	VerifyErr   error
	Chats       []models.ChatTurn
	GetChatsErr error
	ChatReply   string
	ChatErr     error

	// Call counters/recorders
	LoginCalls    int
	SignupCalls   int
	VerifyCalls   int
	GetChatsCalls int
	ChatCalls     int
	LastCreds     models.Credentials
	LastSignup    models.SignupRequest
	LastMessage   string
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginCalls++
	m.LastCreds = creds
	return m.LoginToken, m.LoginErr
}

func (m *MockClient) Signup(ctx context.Context, req models.SignupRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignupCalls++
	m.LastSignup = req
	return m.SignupErr
}

func (m *MockClient) VerifyToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VerifyCalls++
	return m.VerifyErr
}

func (m *MockClient) GetChats(ctx context.Context) ([]models.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetChatsCalls++
	if m.GetChatsErr != nil {
		return nil, m.GetChatsErr
	}
	out := make([]models.ChatTurn, len(m.Chats))
	copy(out, m.Chats)
	return out, nil
}

func (m *MockClient) SendChat(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls++
	m.LastMessage = message
	return m.ChatReply, m.ChatErr
}

// Calls returns the number of calls made per operation
func (m *MockClient) Calls() (login, signup, verify, getChats, chat int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoginCalls, m.SignupCalls, m.VerifyCalls, m.GetChatsCalls, m.ChatCalls
}
