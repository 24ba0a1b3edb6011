// Package repository はデータストアのインターフェースとインメモリ実装を定義する。
//
// 本サービスは設計上すべての状態をプロセス内メモリに保持する。
// プロセス再起動でユーザー・セッション・面談予約はすべて消える。
// これは偶然ではなく、開発用モック層としての明示的な仕様である。
package repository

import (
	"context"
	"errors"

	"github.com/christalomclavite-hash/talom/internal/model"
)

// ErrDuplicateEmail は登録済みメールアドレスで再登録しようとした場合に返すエラー。
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository はユーザーデータのストアインターフェース。
type UserRepository interface {
	// Create はユーザーを登録する。
	// メールアドレスが登録済みの場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionRepository はセッションデータのストアインターフェース。
type SessionRepository interface {
	// Create はセッションを保存する。
	Create(ctx context.Context, session *model.Session) error

	// FindByToken は指定トークンのセッションを取得する。
	// 未知のトークン・失効済みのトークンの場合はnilを返す。
	FindByToken(ctx context.Context, token string) (*model.Session, error)

	// DeleteByToken は指定トークンのセッションを削除する。
	// 存在しないトークンに対しては何もしない（冪等）。
	DeleteByToken(ctx context.Context, token string) error
}

// AppointmentRepository は面談予約データのストアインターフェース。
type AppointmentRepository interface {
	// Create は予約を作成し、単調増加カウンターからIDを採番して返す。
	// 採番されたIDはプロセス生存期間内で再利用されない。
	Create(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error)

	// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Appointment, error)

	// UpdateStatus は指定IDの予約状態を更新し、更新後の予約を返す。
	// 現在状態の読み取りと書き込みは単一のクリティカルセクションで行う。
	// 見つからない場合はnilを返す。
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (*model.Appointment, error)
}
