// Package auth はユーザー登録・ログイン・セッション管理のドメインロジックを提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/christalomclavite-hash/talom/internal/model"
	"github.com/christalomclavite-hash/talom/internal/repository"
)

// defaultRole は登録時にユーザーへ付与するロール。
const defaultRole = "BSIT Student"

// Metrics は認証系イベントの記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type Metrics interface {
	RecordRegistration()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordSessionRevoked()
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	metrics     Metrics
}

// NewService はServiceを生成する。metricsはnilを許容する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	metrics Metrics,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		metrics:     metrics,
	}
}

// Register は新規ユーザーを登録する。
// name/email/passwordのいずれかが空の場合はMISSING_FIELD、
// メールアドレスが登録済みの場合はDUPLICATE_IDENTITYを返す。
// 外部IDは推測不能なopaque文字列としてUUIDを採番する。
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if name == "" {
		return nil, model.NewMissingFieldError("name")
	}
	if email == "" {
		return nil, model.NewMissingFieldError("email")
	}
	if password == "" {
		return nil, model.NewMissingFieldError("password")
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      defaultRole,
		Password:  password,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewDuplicateIdentityError(email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)

	return user, nil
}

// Login は資格情報を検証し、セッショントークンを発行する。
// メールアドレスが未登録、またはパスワードが一致しない場合はINVALID_CREDENTIALSを返す。
// パスワードは平文で比較する（開発用モック層の仕様。ハッシュ化はここでは行わない）。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" {
		return nil, "", model.NewMissingFieldError("email")
	}
	if password == "" {
		return nil, "", model.NewMissingFieldError("password")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || user.Password != password {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return nil, "", model.NewInvalidCredentialsError()
	}

	token, err := generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &model.Session{
		Token:     token,
		Email:     user.Email,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to save session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return user, token, nil
}

// Logout はセッションを失効させる。
// 空トークンや未知のトークンに対しては何もせず成功を返す（冪等）。
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSessionRevoked()
	}

	slog.Info("user logged out")
	return nil
}

// CurrentUser はトークンから現在のユーザーを解決する。
// トークンが空・未知・失効済みの場合は匿名扱いとして(nil, nil)を返す。
// セッションの参照先ユーザーが存在しない場合も失敗ではなく匿名扱いにする。
func (s *Service) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByEmail(ctx, session.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// generateToken は暗号的に安全なセッショントークンを生成する。
// 256ビットの乱数を16進数文字列にエンコードする。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
