package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const (
	usersFile    = "users.csv"
	productsFile = "products.csv"
	ordersFile   = "orders.csv"
	consentsFile = "user_consents.csv"
	auditFile    = "audit_log.csv"
)

// テーブルごとの固定ヘッダ。初回作成時と全書き換え時に使う。
var tableHeaders = map[string][]string{
	usersFile:    {"id", "name", "email", "password", "role", "privacy_accept", "marketing_consent", "analytics_consent", "created_at"},
	productsFile: {"id", "name", "category", "price", "description", "images", "stock"},
	ordersFile:   {"id", "user_id", "items", "total", "customer", "status", "payment_provider", "provider_id", "created_at"},
	consentsFile: {"id", "user_id", "consent_type", "value", "timestamp"},
	auditFile:    {"timestamp", "event_type", "user_id", "user_email", "action", "resource_type", "resource_id", "details", "ip_address", "status"},
}

// フラットファイルのストア。外部のDBエンジン無しで常に使える、最後の砦。
// 書き込みは毎回テーブル全体を読み直して書き戻す。テーブル単位のロックで
// 並行書き込みの取り違えを防ぐ。
type Store struct {
	dir string
	log zerolog.Logger

	mu     sync.Mutex
	tables map[string]*sync.Mutex
}

func New(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		dir:    dir,
		log:    log,
		tables: make(map[string]*sync.Mutex),
	}

	//ヘッダ行付きでテーブルファイルを用意
	for name := range tableHeaders {
		if err := s.ensureFile(name); err != nil {
			return nil, err
		}
	}

	//旧フォーマット（username列）を移行
	if err := s.migrateLegacyUsers(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) tableMu(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.tables[name]
	if !ok {
		mu = &sync.Mutex{}
		s.tables[name] = mu
	}
	return mu
}

func (s *Store) ensureFile(name string) error {
	p := s.path(name)
	if _, err := os.Stat(p); err == nil {
		return nil
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tableHeaders[name]); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}
	w.Flush()
	return w.Error()
}

// readTable はヘッダ行をキーにした行のリストを返す。
// 古いファイルの列構成もそのまま読めるように、列数の違いは許容する。
func (s *Store) readTable(name string) ([]map[string]string, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeTable は固定ヘッダでテーブル全体を書き戻す。
// 一時ファイルに書いてからrenameする。
func (s *Store) writeTable(name string, rows []map[string]string) error {
	header := tableHeaders[name]

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("temp %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header %s: %w", name, err)
	}
	for _, row := range rows {
		rec := make([]string, len(header))
		for i, col := range header {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return fmt.Errorf("write row %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// mutate はテーブルロックの中でread-modify-writeを行う。
// fnがnil,nilを返したら書き戻しはしない。
func (s *Store) mutate(name string, fn func(rows []map[string]string) ([]map[string]string, error)) error {
	mu := s.tableMu(name)
	mu.Lock()
	defer mu.Unlock()

	rows, err := s.readTable(name)
	if err != nil {
		return err
	}
	out, err := fn(rows)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return s.writeTable(name, out)
}

func (s *Store) readLocked(name string) ([]map[string]string, error) {
	mu := s.tableMu(name)
	mu.Lock()
	defer mu.Unlock()
	return s.readTable(name)
}

// appendRow は監査ログ用の追記。テーブル全体は読み直さない。
func (s *Store) appendRow(name string, row map[string]string) error {
	mu := s.tableMu(name)
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(s.path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	header := tableHeaders[name]
	rec := make([]string, len(header))
	for i, col := range header {
		rec[i] = row[col]
	}

	w := csv.NewWriter(f)
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("append %s: %w", name, err)
	}
	w.Flush()
	return w.Error()
}

// 昔のusers.csvはname列がusernameという名前だった。初回ロード前に直す。
func (s *Store) migrateLegacyUsers() error {
	f, err := os.Open(s.path(usersFile))
	if err != nil {
		return err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	f.Close()
	if err != nil || len(records) == 0 {
		return err
	}

	header := records[0]
	idx := -1
	for i, col := range header {
		if col == "username" {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}

	s.log.Info().Msg("migrating legacy users.csv column username -> name")
	header[idx] = "name"

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return s.writeTable(usersFile, rows)
}
