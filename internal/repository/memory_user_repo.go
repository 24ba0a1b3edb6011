package repository

import (
	"context"
	"sync"

	"github.com/christalomclavite-hash/talom/internal/model"
)

// MemoryUserRepo はプロセス内メモリにユーザーを保持するリポジトリ。
// メールアドレスをキーとし、重複チェックと書き込みを同一ロック内で直列化する。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]*model.User // email -> user
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		users: make(map[string]*model.User),
	}
}

// Create はユーザーを登録する。メールアドレスが登録済みの場合はErrDuplicateEmailを返す。
// チェックと書き込みを書き込みロック内で行うため、同時登録でも重複は発生しない。
func (r *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return ErrDuplicateEmail
	}

	u := *user
	r.users[user.Email] = &u
	return nil
}

// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
// 呼び出し側が内部状態を書き換えられないよう、コピーを返す。
func (r *MemoryUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, nil
	}

	u := *user
	return &u, nil
}

// compile-time interface check
var _ UserRepository = (*MemoryUserRepo)(nil)
