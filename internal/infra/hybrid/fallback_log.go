package hybrid

import (
	"sync"
	"time"
)

// リレーショナル側で失敗した操作の記録。運用時の可視化用。
type Fallback struct {
	Op        string    `json:"op"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type FallbackLog struct {
	mu      sync.Mutex
	entries []Fallback
}

func (l *FallbackLog) Record(op string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Fallback{
		Op:        op,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}

func (l *FallbackLog) Entries() []Fallback {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Fallback, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *FallbackLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
