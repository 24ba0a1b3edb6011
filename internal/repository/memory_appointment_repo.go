package repository

import (
	"context"
	"strconv"
	"sync"

	"github.com/christalomclavite-hash/talom/internal/model"
)

// initialAppointmentID は予約ID採番の開始値。
const initialAppointmentID = 1000

// MemoryAppointmentRepo はプロセス内メモリに面談予約を保持するリポジトリ。
// IDは単調増加カウンターから採番し、プロセス生存期間内で再利用しない。
type MemoryAppointmentRepo struct {
	mu           sync.RWMutex
	appointments map[string]*model.Appointment // id -> appointment
	nextID       int64
}

// NewMemoryAppointmentRepo はMemoryAppointmentRepoを生成する。
func NewMemoryAppointmentRepo() *MemoryAppointmentRepo {
	return &MemoryAppointmentRepo{
		appointments: make(map[string]*model.Appointment),
		nextID:       initialAppointmentID,
	}
}

// Create は予約を作成し、採番したIDを設定したコピーを返す。
// 採番と書き込みを同一ロック内で行うため、同時作成でもIDは衝突しない。
func (r *MemoryAppointmentRepo) Create(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := *appointment
	a.ID = strconv.FormatInt(r.nextID, 10)
	r.nextID++

	r.appointments[a.ID] = &a

	result := a
	return &result, nil
}

// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
// 呼び出し側が内部状態を書き換えられないよう、コピーを返す。
func (r *MemoryAppointmentRepo) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appointment, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}

	a := *appointment
	return &a, nil
}

// UpdateStatus は指定IDの予約状態を更新し、更新後の予約のコピーを返す。
// 読み取りと書き込みを同一ロック内で行うため、状態遷移はID単位でアトミックになる。
// 見つからない場合はnilを返す。
func (r *MemoryAppointmentRepo) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appointment, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}

	appointment.Status = status

	a := *appointment
	return &a, nil
}

// compile-time interface check
var _ AppointmentRepository = (*MemoryAppointmentRepo)(nil)
