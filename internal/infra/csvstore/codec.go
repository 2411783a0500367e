package csvstore

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// decodeJSONColumn は構造化カラムを読む。シングルクォートで書かれた
// 古い行も正規化して受け付ける。壊れていたらfalseを返し、呼び出し側が
// 既定値のまま進む。例外にはしない。
func decodeJSONColumn(raw string, out any) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if json.Unmarshal([]byte(raw), out) == nil {
		return true
	}
	fixed := strings.ReplaceAll(raw, "'", `"`)
	return json.Unmarshal([]byte(fixed), out) == nil
}

func encodeJSONColumn(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// 空や壊れた数値は0に落とす
func parseInt(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}

// user_idが空の古い注文行はnilのまま
func parseOptionalID(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func parseTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// 既存行のidの最大値+1。壊れたidや空idは無視する。
// 一度使ったidは削除後も再利用されない（単調増加）。
func nextID(rows []map[string]string) int64 {
	var max int64
	for _, row := range rows {
		id, err := strconv.ParseInt(strings.TrimSpace(row["id"]), 10, 64)
		if err != nil {
			continue
		}
		if id > max {
			max = id
		}
	}
	return max + 1
}
