package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestNewCreatesTableFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := New(dir, zerolog.Nop())
	require.NoError(t, err)

	for _, name := range []string{"users.csv", "products.csv", "orders.csv", "user_consents.csv", "audit_log.csv"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NotEmpty(t, raw, name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "audit_log.csv"))
	require.NoError(t, err)
	require.Equal(t, "timestamp,event_type,user_id,user_email,action,resource_type,resource_id,details,ip_address,status\n", string(raw))
}

func TestMigrateLegacyUsernameColumn(t *testing.T) {
	dir := t.TempDir()
	legacy := "id,username,email,password,role,privacy_accept,marketing_consent,analytics_consent,created_at\n" +
		"1,maria,maria@example.com,hash,user,true,false,false,2023-01-01T00:00:00Z\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.csv"), []byte(legacy), 0o644))

	s, err := New(dir, zerolog.Nop())
	require.NoError(t, err)

	u, err := s.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "maria", u.Name)

	raw, err := os.ReadFile(filepath.Join(dir, "users.csv"))
	require.NoError(t, err)
	require.Contains(t, string(raw), "id,name,email")
	require.NotContains(t, string(raw), "username")
}

func TestCreateUserAssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, outcome, err := s.CreateUser(ctx, model.User{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	require.Equal(t, repository.OutcomeOK, outcome)
	require.Equal(t, int64(1), id1)

	id2, _, err := s.CreateUser(ctx, model.User{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)
	require.Equal(t, int64(2), id2)
}

func TestNextIDIgnoresMalformedIDs(t *testing.T) {
	rows := []map[string]string{
		{"id": "abc"},
		{"id": ""},
		{"id": "7"},
		{"id": "3"},
	}
	require.Equal(t, int64(8), nextID(rows))
}

func TestCreateUserDuplicateEmailCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.CreateUser(ctx, model.User{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	_, _, err = s.CreateUser(ctx, model.User{Name: "A2", Email: "A@Example.COM"})
	require.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestGetUserByEmailCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.CreateUser(ctx, model.User{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	u, err := s.GetUserByEmail(ctx, "A@EXAMPLE.com")
	require.NoError(t, err)
	require.Equal(t, "A", u.Name)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestCreateUserHonorsPresetID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _, err := s.CreateUser(ctx, model.User{ID: 42, Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	//次の採番は43
	id2, _, err := s.CreateUser(ctx, model.User{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)
	require.Equal(t, int64(43), id2)
}

func TestProductImagesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _, err := s.CreateProduct(ctx, model.Product{Name: "Mug", Price: 9.99, Images: []string{"a.jpg", "b.jpg"}})
	require.NoError(t, err)

	p, err := s.GetProductByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
}

func TestProductImagesSingleQuoteLegacyRows(t *testing.T) {
	dir := t.TempDir()
	content := "id,name,category,price,description,images,stock\n" +
		"1,Mug,kitchen,9.99,,\"['a.jpg', 'b.jpg']\",5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.csv"), []byte(content), 0o644))

	s, err := New(dir, zerolog.Nop())
	require.NoError(t, err)

	p, err := s.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
}

func TestProductImagesCorruptColumnReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	content := "id,name,category,price,description,images,stock\n" +
		"1,Mug,kitchen,9.99,,not-json-at-all,5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.csv"), []byte(content), 0o644))

	s, err := New(dir, zerolog.Nop())
	require.NoError(t, err)

	p, err := s.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, p.Images)
	require.Empty(t, p.Images)
}

func TestAddProductImageCapAndDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _, err := s.CreateProduct(ctx, model.Product{Name: "Mug", Price: 9.99})
	require.NoError(t, err)

	for i := 0; i < model.MaxProductImages; i++ {
		_, err := s.AddProductImage(ctx, id, "img-"+string(rune('a'+i))+".jpg")
		require.NoError(t, err)
	}

	p, err := s.GetProductByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.Images, model.MaxProductImages)

	//上限到達後はno-op
	_, err = s.AddProductImage(ctx, id, "overflow.jpg")
	require.NoError(t, err)
	p, _ = s.GetProductByID(ctx, id)
	require.Len(t, p.Images, model.MaxProductImages)
	require.NotContains(t, p.Images, "overflow.jpg")

	//重複もno-op
	_, err = s.RemoveProductImage(ctx, id, p.Images[0])
	require.NoError(t, err)
	_, err = s.AddProductImage(ctx, id, "img-b.jpg")
	require.NoError(t, err)
	p, _ = s.GetProductByID(ctx, id)
	require.Len(t, p.Images, model.MaxProductImages-1)
}

func TestOrderSnapshotSurvivesProductChanges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pid, _, err := s.CreateProduct(ctx, model.Product{Name: "Mug", Price: 9.99})
	require.NoError(t, err)

	userID := int64(1)
	oid, _, err := s.CreateOrder(ctx, model.Order{
		UserID: &userID,
		Items:  []model.OrderItem{{ProductID: pid, Name: "Mug", Price: 9.99, Quantity: 2}},
		Total:  19.98,
	})
	require.NoError(t, err)

	//商品を値上げしても注文明細は変わらない
	p, _ := s.GetProductByID(ctx, pid)
	p.Price = 14.99
	_, err = s.UpdateProduct(ctx, p)
	require.NoError(t, err)

	o, err := s.GetOrderByID(ctx, oid)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, o.Status)
	require.Equal(t, 9.99, o.Items[0].Price)
	require.Equal(t, 19.98, o.Total)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := int64(1)
	oid, _, err := s.CreateOrder(ctx, model.Order{UserID: &userID, Total: 5})
	require.NoError(t, err)

	_, err = s.UpdateOrderStatus(ctx, oid, model.OrderStatus("refunded"))
	require.ErrorIs(t, err, repository.ErrInvalidStatus)

	//保存値は変わらない
	o, err := s.GetOrderByID(ctx, oid)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, o.Status)

	_, err = s.UpdateOrderStatus(ctx, oid, model.OrderStatusShipped)
	require.NoError(t, err)
	o, _ = s.GetOrderByID(ctx, oid)
	require.Equal(t, model.OrderStatusShipped, o.Status)
}

func TestGetOrderByProviderID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := int64(1)
	oid, _, err := s.CreateOrder(ctx, model.Order{UserID: &userID, PaymentProvider: "stripe", ProviderID: "cs_123"})
	require.NoError(t, err)

	o, err := s.GetOrderByProviderID(ctx, "cs_123")
	require.NoError(t, err)
	require.Equal(t, oid, o.ID)

	_, err = s.GetOrderByProviderID(ctx, "")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConsentsAppendOnlyLastWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.SaveConsent(ctx, model.Consent{UserID: 1, ConsentType: model.ConsentMarketing, Value: true})
	require.NoError(t, err)
	_, _, err = s.SaveConsent(ctx, model.Consent{UserID: 1, ConsentType: model.ConsentMarketing, Value: false})
	require.NoError(t, err)
	_, _, err = s.SaveConsent(ctx, model.Consent{UserID: 2, ConsentType: model.ConsentMarketing, Value: true})
	require.NoError(t, err)

	consents, err := s.GetUserConsents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, consents, 2)
	require.True(t, consents[0].Value)
	require.False(t, consents[1].Value)
}

func TestAuditLogAppendAndFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1, u2 := int64(1), int64(2)
	_, err := s.LogAudit(ctx, model.AuditEntry{EventType: model.AuditUserLogin, UserID: &u1, Action: "login"})
	require.NoError(t, err)
	_, err = s.LogAudit(ctx, model.AuditEntry{EventType: model.AuditUserLogin, UserID: &u2, Action: "login"})
	require.NoError(t, err)
	_, err = s.LogAudit(ctx, model.AuditEntry{
		EventType: model.AuditOrderCreated,
		UserID:    &u1,
		Action:    "order created",
		Details:   map[string]any{"total": 19.98},
	})
	require.NoError(t, err)

	all, err := s.GetAuditLogs(ctx, repository.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, model.AuditStatusSuccess, all[0].Status)
	require.False(t, all[0].Timestamp.IsZero())

	mine, err := s.GetAuditLogs(ctx, repository.AuditQuery{UserID: &u1})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, 19.98, mine[1].Details["total"])

	limited, err := s.GetAuditLogs(ctx, repository.AuditQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestExportUserDataOmitsPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _, err := s.CreateUser(ctx, model.User{Name: "A", Email: "a@example.com", PasswordHash: "secret-hash"})
	require.NoError(t, err)

	_, _, err = s.SaveConsent(ctx, model.Consent{UserID: id, ConsentType: model.ConsentPrivacyPolicy, Value: true})
	require.NoError(t, err)
	_, err = s.LogAudit(ctx, model.AuditEntry{EventType: model.AuditUserRegistration, UserID: &id, Action: "registered"})
	require.NoError(t, err)

	export, err := s.ExportUserData(ctx, id)
	require.NoError(t, err)
	require.Empty(t, export.Profile.PasswordHash)
	require.Len(t, export.Consents, 1)
	require.Len(t, export.AuditLogs, 1)
}

func TestEraseUserRemovesAllTraces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _, err := s.CreateUser(ctx, model.User{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	other, _, err := s.CreateUser(ctx, model.User{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	_, _, err = s.CreateOrder(ctx, model.Order{UserID: &id, Total: 5})
	require.NoError(t, err)
	_, _, err = s.CreateOrder(ctx, model.Order{UserID: &other, Total: 7})
	require.NoError(t, err)
	_, _, err = s.SaveConsent(ctx, model.Consent{UserID: id, ConsentType: model.ConsentMarketing, Value: true})
	require.NoError(t, err)
	_, err = s.LogAudit(ctx, model.AuditEntry{EventType: model.AuditUserLogin, UserID: &id, Action: "login"})
	require.NoError(t, err)
	_, err = s.LogAudit(ctx, model.AuditEntry{EventType: model.AuditUserLogin, UserID: &other, Action: "login"})
	require.NoError(t, err)

	_, err = s.EraseUser(ctx, id)
	require.NoError(t, err)

	_, err = s.GetUserByID(ctx, id)
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	orders, err := s.GetOrdersByUser(ctx, id)
	require.NoError(t, err)
	require.Empty(t, orders)

	consents, err := s.GetUserConsents(ctx, id)
	require.NoError(t, err)
	require.Empty(t, consents)

	logs, err := s.GetAuditLogs(ctx, repository.AuditQuery{UserID: &id})
	require.NoError(t, err)
	require.Empty(t, logs)

	//他のユーザーは無事
	_, err = s.GetUserByID(ctx, other)
	require.NoError(t, err)
	otherOrders, _ := s.GetOrdersByUser(ctx, other)
	require.Len(t, otherOrders, 1)
	otherLogs, _ := s.GetAuditLogs(ctx, repository.AuditQuery{UserID: &other})
	require.Len(t, otherLogs, 1)
}

func TestTimeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	id, _, err := s.CreateUser(ctx, model.User{Name: "A", Email: "a@example.com", CreatedAt: created})
	require.NoError(t, err)

	u, err := s.GetUserByID(ctx, id)
	require.NoError(t, err)
	require.True(t, created.Equal(u.CreatedAt))
}
