package gormstore

import (
	"context"
	"errors"
	"fmt"

	"app/internal/domain/model"
	"app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// リレーショナル側のストア。スキーマと外部キーで整合性を持たせる。
// 未設定・接続不可の環境もあり得るので、呼び出し側（コーディネータ）が
// 失敗を吸収する前提。
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

func Open(dsn string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.Consent{},
		&model.AuditEntry{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	s := &Store{db: db, log: log}
	s.ensureForeignKeys()
	return s, nil
}

// NewWithDB はテストや既存接続の再利用向け。
func NewWithDB(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// 注文・同意・監査ログからusers(id)への外部キー。
// スキーマレベルのカスケードは張らない。削除順はEraseUserが面倒を見る。
func (s *Store) ensureForeignKeys() {
	stmts := []string{
		`ALTER TABLE orders ADD CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users(id)`,
		`ALTER TABLE user_consents ADD CONSTRAINT fk_user_consents_user FOREIGN KEY (user_id) REFERENCES users(id)`,
		`ALTER TABLE audit_log ADD CONSTRAINT fk_audit_log_user FOREIGN KEY (user_id) REFERENCES users(id)`,
	}
	for _, stmt := range stmts {
		if err := s.db.Exec(stmt).Error; err != nil && !isDuplicateObject(err) {
			s.log.Warn().Err(err).Msg("add foreign key")
		}
	}
}

// 明示IDで入れたあとにシーケンスを追いつかせる（移行とミラー書き込みのため）。
func (s *Store) SyncSequences(ctx context.Context) error {
	tables := []string{"users", "products", "orders", "user_consents", "audit_log"}
	for _, t := range tables {
		err := s.db.WithContext(ctx).Exec(
			`SELECT setval(pg_get_serial_sequence(?, 'id'), GREATEST((SELECT COALESCE(MAX(id), 1) FROM `+t+`), 1))`,
			t,
		).Error
		if err != nil {
			return fmt.Errorf("sync sequence %s: %w", t, err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isDuplicateObject(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42710"
}

var _ repository.Store = (*Store)(nil)
