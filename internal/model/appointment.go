package model

import "time"

// AppointmentStatus は面談予約のライフサイクル状態を表す。
type AppointmentStatus string

const (
	// AppointmentStatusPending は承認待ちの状態。作成直後の初期状態。
	AppointmentStatusPending AppointmentStatus = "pending"
	// AppointmentStatusAccepted は承認済みの状態。終端状態であり、以降の遷移はない。
	AppointmentStatusAccepted AppointmentStatus = "accepted"
)

// Appointment は学生と教員の間の面談予約を表す。
// ScheduledAtは呼び出し側が指定した文字列をそのまま保持し、
// 日付としての妥当性検証は行わない。
type Appointment struct {
	ID              string
	RequesterName   string
	CounterpartName string
	ScheduledAt     string
	Notes           string
	Status          AppointmentStatus
	CreatedAt       time.Time
}
