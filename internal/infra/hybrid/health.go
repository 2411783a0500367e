package hybrid

import (
	"sync"
	"time"
)

type State int

const (
	//直近の呼び出しが成功している
	StateHealthy State = iota

	//失敗したが、まだ毎回試している
	StateDegraded

	//連続失敗が閾値を超えた。probe間隔が空くまで呼ばない。
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateDegraded:
		return "degraded"
	case StateUnavailable:
		return "unavailable"
	}
	return "healthy"
}

const (
	defaultFailThreshold = 5
	defaultProbeInterval = 30 * time.Second
)

// リレーショナルストアの状態遷移。
// healthy → degraded → unavailable、成功でhealthyに戻る。
type health struct {
	mu            sync.Mutex
	state         State
	consecutive   int
	lastAttempt   time.Time
	failThreshold int
	probeInterval time.Duration
}

func newHealth() *health {
	return &health{
		failThreshold: defaultFailThreshold,
		probeInterval: defaultProbeInterval,
	}
}

// usable はいま呼びに行ってよいか。unavailableでもprobe間隔が
// 空いていれば一度だけ試させる。
func (h *health) usable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateUnavailable {
		return true
	}
	if time.Since(h.lastAttempt) >= h.probeInterval {
		h.lastAttempt = time.Now()
		return true
	}
	return false
}

func (h *health) ok() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = StateHealthy
	h.consecutive = 0
}

func (h *health) fail() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.consecutive++
	h.lastAttempt = time.Now()
	if h.consecutive >= h.failThreshold {
		h.state = StateUnavailable
		return
	}
	h.state = StateDegraded
}

func (h *health) current() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}
