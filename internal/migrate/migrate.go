package migrate

import (
	"context"
	"math"
	"time"

	"app/internal/repository"

	"github.com/rs/zerolog"
)

// Result は移行の集計。Skippedは移行先に既にあった行と
// 不正でスキップした行の合計。
type Result struct {
	Users        int `json:"users"`
	Products     int `json:"products"`
	Orders       int `json:"orders"`
	Consents     int `json:"consents"`
	AuditEntries int `json:"audit_entries"`
	Skipped      int `json:"skipped"`
	Failed       int `json:"failed"`
}

// Migrator はCSVストアの全データをリレーショナルストアへ写す。
// IDはそのまま引き継ぎ、既存行は飛ばすので何度実行しても安全。
type Migrator struct {
	src repository.Store
	dst repository.Store
	log zerolog.Logger
}

func New(src, dst repository.Store, log zerolog.Logger) *Migrator {
	return &Migrator{
		src: src,
		dst: dst,
		log: log.With().Str("component", "migrate").Logger(),
	}
}

// Run は users → products → orders → consents → audit の順で移す。
// 注文が参照するユーザーを先に入れるための順序。
// 1行の失敗は記録して続行し、全体は止めない。
func (m *Migrator) Run(ctx context.Context) (Result, error) {
	var res Result

	if err := m.migrateUsers(ctx, &res); err != nil {
		return res, err
	}
	if err := m.migrateProducts(ctx, &res); err != nil {
		return res, err
	}
	if err := m.migrateOrders(ctx, &res); err != nil {
		return res, err
	}
	if err := m.migrateConsents(ctx, &res); err != nil {
		return res, err
	}
	if err := m.migrateAudit(ctx, &res); err != nil {
		return res, err
	}

	//自動採番の連番を引き継いだIDの先に進める
	if s, ok := m.dst.(interface{ SyncSequences(context.Context) error }); ok {
		if err := s.SyncSequences(ctx); err != nil {
			m.log.Warn().Err(err).Msg("sequence sync failed")
		}
	}

	m.log.Info().
		Int("users", res.Users).
		Int("products", res.Products).
		Int("orders", res.Orders).
		Int("consents", res.Consents).
		Int("audit_entries", res.AuditEntries).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("migration finished")
	return res, nil
}

func (m *Migrator) migrateUsers(ctx context.Context, res *Result) error {
	users, err := m.src.GetAllUsers(ctx)
	if err != nil {
		return err
	}
	existing, err := m.dst.GetAllUsers(ctx)
	if err != nil {
		return err
	}
	seen := make(map[int64]bool, len(existing))
	for _, u := range existing {
		seen[u.ID] = true
	}

	for _, u := range users {
		if seen[u.ID] {
			res.Skipped++
			continue
		}
		if _, _, err := m.dst.CreateUser(ctx, u); err != nil {
			res.Failed++
			m.log.Error().Err(err).Int64("user_id", u.ID).Msg("user migration failed")
			continue
		}
		res.Users++
	}
	return nil
}

func (m *Migrator) migrateProducts(ctx context.Context, res *Result) error {
	products, err := m.src.GetAllProducts(ctx)
	if err != nil {
		return err
	}
	existing, err := m.dst.GetAllProducts(ctx)
	if err != nil {
		return err
	}
	seen := make(map[int64]bool, len(existing))
	for _, p := range existing {
		seen[p.ID] = true
	}

	for _, p := range products {
		if seen[p.ID] {
			res.Skipped++
			continue
		}
		if _, _, err := m.dst.CreateProduct(ctx, p); err != nil {
			res.Failed++
			m.log.Error().Err(err).Int64("product_id", p.ID).Msg("product migration failed")
			continue
		}
		res.Products++
	}
	return nil
}

func (m *Migrator) migrateOrders(ctx context.Context, res *Result) error {
	orders, err := m.src.GetAllOrders(ctx)
	if err != nil {
		return err
	}
	existing, err := m.dst.GetAllOrders(ctx)
	if err != nil {
		return err
	}
	seen := make(map[int64]bool, len(existing))
	for _, o := range existing {
		seen[o.ID] = true
	}

	for _, o := range orders {
		if seen[o.ID] {
			res.Skipped++
			continue
		}
		//user_idの無い古い注文は外部キーを張れないので移さない
		if o.UserID == nil {
			res.Skipped++
			m.log.Warn().Int64("order_id", o.ID).Msg("order without user_id skipped")
			continue
		}
		if _, _, err := m.dst.CreateOrder(ctx, o); err != nil {
			res.Failed++
			m.log.Error().Err(err).Int64("order_id", o.ID).Msg("order migration failed")
			continue
		}
		res.Orders++
	}
	return nil
}

func (m *Migrator) migrateConsents(ctx context.Context, res *Result) error {
	existingUsers, err := m.dst.GetAllUsers(ctx)
	if err != nil {
		return err
	}

	for _, u := range existingUsers {
		consents, err := m.src.GetUserConsents(ctx, u.ID)
		if err != nil {
			return err
		}
		existing, err := m.dst.GetUserConsents(ctx, u.ID)
		if err != nil {
			return err
		}
		seen := make(map[int64]bool, len(existing))
		for _, c := range existing {
			seen[c.ID] = true
		}

		for _, c := range consents {
			if seen[c.ID] {
				res.Skipped++
				continue
			}
			if _, _, err := m.dst.SaveConsent(ctx, c); err != nil {
				res.Failed++
				m.log.Error().Err(err).Int64("consent_id", c.ID).Msg("consent migration failed")
				continue
			}
			res.Consents++
		}
	}
	return nil
}

// migrateAudit は監査ログを移す。ログファイル側に行IDが無く
// 行単位の突き合わせができないため、移行先にある最新タイムスタンプを
// 高水位として、それより後のエントリだけを移す。途中で落ちた移行も
// 再実行すれば続きから入る。
func (m *Migrator) migrateAudit(ctx context.Context, res *Result) error {
	existing, err := m.dst.GetAuditLogs(ctx, repository.AuditQuery{Limit: math.MaxInt32})
	if err != nil {
		return err
	}
	var highWater time.Time
	for _, e := range existing {
		if e.Timestamp.After(highWater) {
			highWater = e.Timestamp
		}
	}

	entries, err := m.src.GetAuditLogs(ctx, repository.AuditQuery{Limit: math.MaxInt32})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !highWater.IsZero() && !e.Timestamp.After(highWater) {
			res.Skipped++
			continue
		}
		if _, err := m.dst.LogAudit(ctx, e); err != nil {
			res.Failed++
			m.log.Error().Err(err).Str("event_type", string(e.EventType)).Msg("audit entry migration failed")
			continue
		}
		res.AuditEntries++
	}
	return nil
}
