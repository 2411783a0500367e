package hybrid

import (
	"context"

	"app/internal/domain/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// Coordinator はCSVストアを正として、リレーショナルストアに
// ベストエフォートでミラーする。リレーショナル側の失敗は呼び出し元に
// 伝播させず、フォールバックログに積んでOutcomeDegradedで返す。
// 読み取りはリレーショナルが使えるうちはそちらを先に見て、
// 空振り・失敗ならCSVへ落ちる。
type Coordinator struct {
	primary   repository.Store //CSV。常に存在する。
	secondary repository.Store //リレーショナル。未設定ならnil。
	fallbacks *FallbackLog
	health    *health
	log       zerolog.Logger
}

func New(primary, secondary repository.Store, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		primary:   primary,
		secondary: secondary,
		fallbacks: &FallbackLog{},
		health:    newHealth(),
		log:       log.With().Str("component", "hybrid").Logger(),
	}
}

func (c *Coordinator) Fallbacks() []Fallback { return c.fallbacks.Entries() }
func (c *Coordinator) ClearFallbacks()       { c.fallbacks.Clear() }
func (c *Coordinator) Health() State         { return c.health.current() }

// mirror はリレーショナル側への書き込みを一回試す。
// 失敗しても呼び出し元にはOutcomeでしか伝えない。
func (c *Coordinator) mirror(op string, fn func(repository.Store) error) repository.Outcome {
	if c.secondary == nil {
		return repository.OutcomeOK
	}
	if !c.health.usable() {
		return repository.OutcomeDegraded
	}
	if err := fn(c.secondary); err != nil {
		c.health.fail()
		c.fallbacks.Record(op, err)
		c.log.Warn().Err(err).Str("op", op).Msg("relational mirror failed, csv remains authoritative")
		return repository.OutcomeDegraded
	}
	c.health.ok()
	return repository.OutcomeOK
}

// readable は読み取りにリレーショナル側を使ってよいか。
func (c *Coordinator) readable() bool {
	return c.secondary != nil && c.health.usable()
}

// readFailed は読み取り失敗を記録してCSVへフォールバックさせる。
func (c *Coordinator) readFailed(op string, err error) {
	c.health.fail()
	c.fallbacks.Record(op, err)
	c.log.Warn().Err(err).Str("op", op).Msg("relational read failed, falling back to csv")
}

// ---- users ----

func (c *Coordinator) GetAllUsers(ctx context.Context) ([]model.User, error) {
	if c.readable() {
		users, err := c.secondary.GetAllUsers(ctx)
		if err == nil && len(users) > 0 {
			c.health.ok()
			return users, nil
		}
		if err != nil {
			c.readFailed("get_all_users", err)
		}
	}
	return c.primary.GetAllUsers(ctx)
}

// ID指定の読み取りもリレーショナル優先。ミラーされなかった行は
// あちらに無いだけなので、not-foundは記録せずCSVへ落ちる。
func (c *Coordinator) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	if c.readable() {
		u, err := c.secondary.GetUserByID(ctx, id)
		if err == nil {
			c.health.ok()
			return u, nil
		}
		if err != repository.ErrUserNotFound {
			c.readFailed("get_user_by_id", err)
		}
	}
	return c.primary.GetUserByID(ctx, id)
}

func (c *Coordinator) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	if c.readable() {
		u, err := c.secondary.GetUserByEmail(ctx, email)
		if err == nil {
			c.health.ok()
			return u, nil
		}
		if err != repository.ErrUserNotFound {
			c.readFailed("get_user_by_email", err)
		}
	}
	return c.primary.GetUserByEmail(ctx, email)
}

// CreateUser はCSVで採番してからリレーショナルに同じIDでミラーする。
// CSV側のエラーだけが呼び出し元に返る。
func (c *Coordinator) CreateUser(ctx context.Context, u model.User) (int64, repository.Outcome, error) {
	id, _, err := c.primary.CreateUser(ctx, u)
	if err != nil {
		return 0, repository.OutcomeOK, err
	}
	u.ID = id
	outcome := c.mirror("create_user", func(s repository.Store) error {
		_, _, err := s.CreateUser(ctx, u)
		return err
	})
	return id, outcome, nil
}

func (c *Coordinator) UpdateUser(ctx context.Context, u model.User) (repository.Outcome, error) {
	if _, err := c.primary.UpdateUser(ctx, u); err != nil {
		return repository.OutcomeOK, err
	}
	outcome := c.mirror("update_user", func(s repository.Store) error {
		_, err := s.UpdateUser(ctx, u)
		return err
	})
	return outcome, nil
}

// ---- products ----

func (c *Coordinator) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	if c.readable() {
		products, err := c.secondary.GetAllProducts(ctx)
		if err == nil && len(products) > 0 {
			c.health.ok()
			return products, nil
		}
		if err != nil {
			c.readFailed("get_all_products", err)
		}
	}
	return c.primary.GetAllProducts(ctx)
}

func (c *Coordinator) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	if c.readable() {
		p, err := c.secondary.GetProductByID(ctx, id)
		if err == nil {
			c.health.ok()
			return p, nil
		}
		if err != repository.ErrNotFound {
			c.readFailed("get_product_by_id", err)
		}
	}
	return c.primary.GetProductByID(ctx, id)
}

func (c *Coordinator) CreateProduct(ctx context.Context, p model.Product) (int64, repository.Outcome, error) {
	id, _, err := c.primary.CreateProduct(ctx, p)
	if err != nil {
		return 0, repository.OutcomeOK, err
	}
	p.ID = id
	outcome := c.mirror("create_product", func(s repository.Store) error {
		_, _, err := s.CreateProduct(ctx, p)
		return err
	})
	return id, outcome, nil
}

func (c *Coordinator) UpdateProduct(ctx context.Context, p model.Product) (repository.Outcome, error) {
	if _, err := c.primary.UpdateProduct(ctx, p); err != nil {
		return repository.OutcomeOK, err
	}
	outcome := c.mirror("update_product", func(s repository.Store) error {
		_, err := s.UpdateProduct(ctx, p)
		return err
	})
	return outcome, nil
}

func (c *Coordinator) DeleteProduct(ctx context.Context, id int64) (repository.Outcome, error) {
	if _, err := c.primary.DeleteProduct(ctx, id); err != nil {
		return repository.OutcomeOK, err
	}
	outcome := c.mirror("delete_product", func(s repository.Store) error {
		_, err := s.DeleteProduct(ctx, id)
		return err
	})
	return outcome, nil
}

func (c *Coordinator) AddProductImage(ctx context.Context, id int64, filename string) (repository.Outcome, error) {
	if _, err := c.primary.AddProductImage(ctx, id, filename); err != nil {
		return repository.OutcomeOK, err
	}
	outcome := c.mirror("add_product_image", func(s repository.Store) error {
		_, err := s.AddProductImage(ctx, id, filename)
		return err
	})
	return outcome, nil
}

func (c *Coordinator) RemoveProductImage(ctx context.Context, id int64, filename string) (repository.Outcome, error) {
	if _, err := c.primary.RemoveProductImage(ctx, id, filename); err != nil {
		return repository.OutcomeOK, err
	}
	outcome := c.mirror("remove_product_image", func(s repository.Store) error {
		_, err := s.RemoveProductImage(ctx, id, filename)
		return err
	})
	return outcome, nil
}

// ---- orders ----

func (c *Coordinator) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	if c.readable() {
		orders, err := c.secondary.GetAllOrders(ctx)
		if err == nil && len(orders) > 0 {
			c.health.ok()
			return orders, nil
		}
		if err != nil {
			c.readFailed("get_all_orders", err)
		}
	}
	return c.primary.GetAllOrders(ctx)
}

func (c *Coordinator) GetOrderByID(ctx context.Context, id int64) (model.Order, error) {
	if c.readable() {
		o, err := c.secondary.GetOrderByID(ctx, id)
		if err == nil {
			c.health.ok()
			return o, nil
		}
		if err != repository.ErrNotFound {
			c.readFailed("get_order_by_id", err)
		}
	}
	return c.primary.GetOrderByID(ctx, id)
}

func (c *Coordinator) GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if c.readable() {
		orders, err := c.secondary.GetOrdersByUser(ctx, userID)
		if err == nil && len(orders) > 0 {
			c.health.ok()
			return orders, nil
		}
		if err != nil {
			c.readFailed("get_orders_by_user", err)
		}
	}
	return c.primary.GetOrdersByUser(ctx, userID)
}

func (c *Coordinator) GetOrderByProviderID(ctx context.Context, providerID string) (model.Order, error) {
	if c.readable() {
		o, err := c.secondary.GetOrderByProviderID(ctx, providerID)
		if err == nil {
			c.health.ok()
			return o, nil
		}
		if err != repository.ErrNotFound {
			c.readFailed("get_order_by_provider_id", err)
		}
	}
	return c.primary.GetOrderByProviderID(ctx, providerID)
}

func (c *Coordinator) CreateOrder(ctx context.Context, o model.Order) (int64, repository.Outcome, error) {
	id, _, err := c.primary.CreateOrder(ctx, o)
	if err != nil {
		return 0, repository.OutcomeOK, err
	}
	o.ID = id
	outcome := c.mirror("create_order", func(s repository.Store) error {
		_, _, err := s.CreateOrder(ctx, o)
		return err
	})
	return id, outcome, nil
}

func (c *Coordinator) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (repository.Outcome, error) {
	if _, err := c.primary.UpdateOrderStatus(ctx, id, status); err != nil {
		return repository.OutcomeOK, err
	}
	outcome := c.mirror("update_order_status", func(s repository.Store) error {
		_, err := s.UpdateOrderStatus(ctx, id, status)
		return err
	})
	return outcome, nil
}

func (c *Coordinator) DeleteOrder(ctx context.Context, id int64) (repository.Outcome, error) {
	if _, err := c.primary.DeleteOrder(ctx, id); err != nil {
		return repository.OutcomeOK, err
	}
	outcome := c.mirror("delete_order", func(s repository.Store) error {
		_, err := s.DeleteOrder(ctx, id)
		return err
	})
	return outcome, nil
}

// ---- consents ----

func (c *Coordinator) SaveConsent(ctx context.Context, consent model.Consent) (int64, repository.Outcome, error) {
	id, _, err := c.primary.SaveConsent(ctx, consent)
	if err != nil {
		return 0, repository.OutcomeOK, err
	}
	consent.ID = id
	outcome := c.mirror("save_consent", func(s repository.Store) error {
		_, _, err := s.SaveConsent(ctx, consent)
		return err
	})
	return id, outcome, nil
}

func (c *Coordinator) GetUserConsents(ctx context.Context, userID int64) ([]model.Consent, error) {
	if c.readable() {
		consents, err := c.secondary.GetUserConsents(ctx, userID)
		if err == nil && len(consents) > 0 {
			c.health.ok()
			return consents, nil
		}
		if err != nil {
			c.readFailed("get_user_consents", err)
		}
	}
	return c.primary.GetUserConsents(ctx, userID)
}

// ---- audit ----

func (c *Coordinator) LogAudit(ctx context.Context, e model.AuditEntry) (repository.Outcome, error) {
	if _, err := c.primary.LogAudit(ctx, e); err != nil {
		return repository.OutcomeOK, err
	}
	outcome := c.mirror("log_audit", func(s repository.Store) error {
		_, err := s.LogAudit(ctx, e)
		return err
	})
	return outcome, nil
}

func (c *Coordinator) GetAuditLogs(ctx context.Context, q repository.AuditQuery) ([]model.AuditEntry, error) {
	if c.readable() {
		entries, err := c.secondary.GetAuditLogs(ctx, q)
		if err == nil && len(entries) > 0 {
			c.health.ok()
			return entries, nil
		}
		if err != nil {
			c.readFailed("get_audit_logs", err)
		}
	}
	return c.primary.GetAuditLogs(ctx, q)
}

// ---- privacy ----

func (c *Coordinator) ExportUserData(ctx context.Context, userID int64) (model.UserExport, error) {
	if c.readable() {
		export, err := c.secondary.ExportUserData(ctx, userID)
		if err == nil {
			c.health.ok()
			return export, nil
		}
		if err != repository.ErrUserNotFound {
			c.readFailed("export_user_data", err)
		}
	}
	return c.primary.ExportUserData(ctx, userID)
}

// EraseUser は消し漏れを避けるため両方のストアを消す。
// リレーショナル側の失敗も通常どおり記録だけして、CSV側の削除は必ず行う。
func (c *Coordinator) EraseUser(ctx context.Context, userID int64) (repository.Outcome, error) {
	outcome := c.mirror("erase_user", func(s repository.Store) error {
		_, err := s.EraseUser(ctx, userID)
		return err
	})
	if _, err := c.primary.EraseUser(ctx, userID); err != nil {
		return repository.OutcomeOK, err
	}
	return outcome, nil
}

var _ repository.Store = (*Coordinator)(nil)
