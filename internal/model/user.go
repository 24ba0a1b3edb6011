// Package model はドメインモデルを定義する。
package model

import "time"

// User は登録済みユーザー（学生・教員）を表す。
// Passwordは開発用モック層の仕様として平文のまま保持する。
// APIレスポンスには決して含めないこと。
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	Password  string
	CreatedAt time.Time
}

// Session はログインセッションを表す。
// Tokenは推測不能なopaque文字列。有効期限は持たず、
// ログアウトによる失効までずっと有効。
// 同一ユーザーが複数の端末から同時にログインできるよう、
// 1つのメールアドレスに対して複数のセッションが存在しうる。
type Session struct {
	Token     string
	Email     string
	CreatedAt time.Time
}
