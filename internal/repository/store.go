package repository

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUserNotFound = errors.New("user not found")

	//メールアドレスは大文字小文字を区別せず一意
	ErrDuplicateEmail = errors.New("email already registered")

	//許可された集合にないステータス
	ErrInvalidStatus = errors.New("invalid order status")
)

// 書き込みがどの経路で完了したか。
// ハード失敗はerrorで返るので、Outcomeは成功時の品質を表す。
type Outcome int

const (
	//両方のストアに書けた（リレーショナル未設定のCSVのみ構成もこちら）
	OutcomeOK Outcome = iota

	//リレーショナル側のミラーに失敗し、CSVだけに書けた
	OutcomeDegraded
)

func (o Outcome) String() string {
	if o == OutcomeDegraded {
		return "degraded"
	}
	return "ok"
}

// 永続化の約束ごと。ハンドラ層が使うのはこのインターフェースだけで、
// CSVストア・リレーショナルストア・二重書き込みコーディネータが同じ面を実装する。
type Store interface {
	UserStore
	ProductStore
	OrderStore
	ConsentStore
	AuditStore
	PrivacyStore
}
