package repository

import (
	"context"
	"sync"

	"github.com/christalomclavite-hash/talom/internal/model"
)

// MemorySessionRepo はプロセス内メモリにセッションを保持するリポジトリ。
// トークンをキーとする。セッションに有効期限はなく、
// DeleteByTokenによる失効までずっと有効。
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session // token -> session
}

// NewMemorySessionRepo はMemorySessionRepoを生成する。
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[string]*model.Session),
	}
}

// Create はセッションを保存する。
func (r *MemorySessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := *session
	r.sessions[session.Token] = &s
	return nil
}

// FindByToken は指定トークンのセッションを取得する。
// 未知のトークン・失効済みのトークンの場合はnilを返す。
func (r *MemorySessionRepo) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}

	s := *session
	return &s, nil
}

// DeleteByToken は指定トークンのセッションを削除する。
// 存在しないトークンに対しては何もしない（冪等）。
func (r *MemorySessionRepo) DeleteByToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}

// compile-time interface check
var _ SessionRepository = (*MemorySessionRepo)(nil)
