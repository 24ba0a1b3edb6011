// Package appointment は面談予約のドメインロジックを提供する。
package appointment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/christalomclavite-hash/talom/internal/model"
	"github.com/christalomclavite-hash/talom/internal/repository"
)

// Metrics は予約系イベントの記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type Metrics interface {
	RecordAppointmentCreated()
	RecordAppointmentAccepted()
}

// Service は面談予約のライフサイクル（作成・承認・参照）を提供する。
// 認証の強制はハンドラー層の責務であり、ここではフィールドの妥当性のみを検証する。
type Service struct {
	repo    repository.AppointmentRepository
	metrics Metrics
}

// NewService はServiceを生成する。metricsはnilを許容する。
func NewService(repo repository.AppointmentRepository, metrics Metrics) *Service {
	return &Service{
		repo:    repo,
		metrics: metrics,
	}
}

// Create は面談予約を作成する。初期状態はpending。
// requesterName/counterpartName/scheduledAtのいずれかが空の場合はMISSING_FIELDを返す。
// scheduledAtは文字列のまま保持し、日付としての妥当性検証は行わない。
func (s *Service) Create(ctx context.Context, requesterName, counterpartName, scheduledAt, notes string) (*model.Appointment, error) {
	if requesterName == "" {
		return nil, model.NewMissingFieldError("requester_name")
	}
	if counterpartName == "" {
		return nil, model.NewMissingFieldError("counterpart_name")
	}
	if scheduledAt == "" {
		return nil, model.NewMissingFieldError("scheduled_at")
	}

	appointment, err := s.repo.Create(ctx, &model.Appointment{
		RequesterName:   requesterName,
		CounterpartName: counterpartName,
		ScheduledAt:     scheduledAt,
		Notes:           notes,
		Status:          model.AppointmentStatusPending,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordAppointmentCreated()
	}

	slog.Info("appointment created",
		slog.String("appointment_id", appointment.ID),
	)

	return appointment, nil
}

// Accept は予約を承認済みに遷移させる。
// 指定IDの予約が存在しない場合はAPPOINTMENT_NOT_FOUNDを返す。
// 承認済みの予約への再承認は状態を変えずに成功を返す（終端状態の自己ループ）。
func (s *Service) Accept(ctx context.Context, id string) (*model.Appointment, error) {
	appointment, err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	if appointment == nil {
		return nil, model.NewAppointmentNotFoundError(id)
	}

	if s.metrics != nil {
		s.metrics.RecordAppointmentAccepted()
	}

	slog.Info("appointment accepted",
		slog.String("appointment_id", id),
	)

	return appointment, nil
}

// Get は指定IDの予約を取得する。見つからない場合はAPPOINTMENT_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	if appointment == nil {
		return nil, model.NewAppointmentNotFoundError(id)
	}
	return appointment, nil
}
