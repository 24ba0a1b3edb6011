package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/christalomclavite-hash/talom/internal/model"
	"github.com/christalomclavite-hash/talom/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, session *model.Session) error
	findByTokenFn   func(ctx context.Context, token string) (*model.Session, error)
	deleteByTokenFn func(ctx context.Context, token string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	if m.findByTokenFn != nil {
		return m.findByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFn != nil {
		return m.deleteByTokenFn(ctx, token)
	}
	return nil
}

// --- compile-time interface checks ---
var _ repository.UserRepository = (*mockUserRepo)(nil)
var _ repository.SessionRepository = (*mockSessionRepo)(nil)

// --- Register のテスト ---

func TestRegister_Success(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, nil)

	user, err := svc.Register(context.Background(), "John Smith", "john@x.edu", "pw")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected non-empty user ID")
	}
	if user.Role == "" {
		t.Error("expected default role to be assigned")
	}
	if created == nil {
		t.Fatal("expected user to be stored")
	}
	if created.Email != "john@x.edu" {
		t.Errorf("stored email = %q, want %q", created.Email, "john@x.edu")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, nil)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "a@example.com", "pw"},
		{"empty email", "A", "", "pw"},
		{"empty password", "A", "a@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Code != model.ErrCodeMissingField {
				t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeMissingField)
			}
		})
	}
}

func TestRegister_DuplicateEmail_ReturnsDuplicateIdentity(t *testing.T) {
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicateEmail
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, nil)

	_, err := svc.Register(context.Background(), "A", "dup@example.com", "pw")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateIdentity {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateIdentity)
	}
}

// --- Login のテスト ---

func TestLogin_Success_IssuesToken(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Name: "John Smith", Email: email, Password: "pw"}, nil
		},
	}
	var saved *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			saved = session
			return nil
		},
	}
	svc := NewService(userRepo, sessionRepo, nil)

	user, token, err := svc.Login(context.Background(), "john@x.edu", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Name != "John Smith" {
		t.Errorf("Name = %q, want %q", user.Name, "John Smith")
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if saved == nil {
		t.Fatal("expected session to be stored")
	}
	if saved.Token != token {
		t.Errorf("stored token = %q, want %q", saved.Token, token)
	}
	if saved.Email != "john@x.edu" {
		t.Errorf("stored email = %q, want %q", saved.Email, "john@x.edu")
	}
}

func TestLogin_UnknownEmail_ReturnsInvalidCredentials(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, nil)

	_, _, err := svc.Login(context.Background(), "unknown@x.edu", "x")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidCredentials)
	}
}

func TestLogin_WrongPassword_ReturnsInvalidCredentials(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, Password: "correct"}, nil
		},
	}
	sessionCreated := false
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			sessionCreated = true
			return nil
		},
	}
	svc := NewService(userRepo, sessionRepo, nil)

	_, _, err := svc.Login(context.Background(), "a@x.edu", "wrong")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidCredentials)
	}
	if sessionCreated {
		t.Error("failed login must not create a session")
	}
}

// 同時ログインでも発行されるトークンはすべて異なること。
func TestLogin_ConcurrentLogins_DistinctTokens(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, Password: "pw"}, nil
		},
	}
	sessionRepo := repository.NewMemorySessionRepo()
	svc := NewService(userRepo, sessionRepo, nil)

	const goroutines = 30
	var wg sync.WaitGroup
	tokens := make(chan string, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, token, err := svc.Login(context.Background(), "a@x.edu", "pw")
			if err != nil {
				t.Errorf("Login failed: %v", err)
				return
			}
			tokens <- token
		}()
	}
	wg.Wait()
	close(tokens)

	seen := make(map[string]bool)
	for token := range tokens {
		if seen[token] {
			t.Errorf("duplicate token issued: %s", token)
		}
		seen[token] = true

		// すべてのトークンが正しいメールアドレスに解決されること
		session, _ := sessionRepo.FindByToken(context.Background(), token)
		if session == nil || session.Email != "a@x.edu" {
			t.Errorf("token did not resolve correctly: %+v", session)
		}
	}
	if len(seen) != goroutines {
		t.Errorf("distinct tokens = %d, want %d", len(seen), goroutines)
	}
}

// --- Logout のテスト ---

func TestLogout_DeletesSession(t *testing.T) {
	deleted := ""
	sessionRepo := &mockSessionRepo{
		deleteByTokenFn: func(ctx context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	svc := NewService(&mockUserRepo{}, sessionRepo, nil)

	if err := svc.Logout(context.Background(), "token-abc"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if deleted != "token-abc" {
		t.Errorf("deleted token = %q, want %q", deleted, "token-abc")
	}
}

func TestLogout_EmptyToken_IsNoOp(t *testing.T) {
	called := false
	sessionRepo := &mockSessionRepo{
		deleteByTokenFn: func(ctx context.Context, token string) error {
			called = true
			return nil
		},
	}
	svc := NewService(&mockUserRepo{}, sessionRepo, nil)

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if called {
		t.Error("empty token should not hit the session repo")
	}
}

// --- CurrentUser のテスト ---

func TestCurrentUser_ValidToken_ReturnsUser(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByTokenFn: func(ctx context.Context, token string) (*model.Session, error) {
			return &model.Session{Token: token, Email: "john@x.edu"}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Name: "John Smith", Email: email}, nil
		},
	}
	svc := NewService(userRepo, sessionRepo, nil)

	user, err := svc.CurrentUser(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user == nil || user.Name != "John Smith" {
		t.Errorf("user = %+v, want John Smith", user)
	}
}

func TestCurrentUser_UnknownToken_ReturnsNil(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, nil)

	user, err := svc.CurrentUser(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil (anonymous), got %+v", user)
	}
}

func TestCurrentUser_EmptyToken_ReturnsNil(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, nil)

	user, err := svc.CurrentUser(context.Background(), "")
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil (anonymous), got %+v", user)
	}
}

// セッションの参照先ユーザーが存在しない場合は失敗ではなく匿名扱いになること。
func TestCurrentUser_DanglingSession_ReturnsNil(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByTokenFn: func(ctx context.Context, token string) (*model.Session, error) {
			return &model.Session{Token: token, Email: "ghost@x.edu"}, nil
		},
	}
	// ユーザーは見つからない
	svc := NewService(&mockUserRepo{}, sessionRepo, nil)

	user, err := svc.CurrentUser(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil (anonymous) for dangling session, got %+v", user)
	}
}

// --- generateToken のテスト ---

func TestGenerateToken_ReturnsUniqueValues(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := generateToken()
		if err != nil {
			t.Fatalf("generateToken failed: %v", err)
		}
		if len(token) != 64 {
			t.Fatalf("token length = %d, want 64", len(token))
		}
		if seen[token] {
			t.Fatalf("duplicate token: %s", token)
		}
		seen[token] = true
	}
}
