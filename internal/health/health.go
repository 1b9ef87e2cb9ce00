// Package health отдаёт состояние ресторанного процесса: хранилища заказов
// и очереди кухонных тикетов.
package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status — состояние компонента.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Check — результат одной проверки.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Report — тело ответа /healthz. Checks идут в порядке регистрации.
type Report struct {
	Status        Status    `json:"status"`
	Version       string    `json:"version,omitempty"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	CheckedAt     time.Time `json:"checked_at"`
	Checks        []Check   `json:"checks"`
}

// Checker проверяет один компонент.
type Checker interface {
	Check() Check
}

type component struct {
	name    string
	checker Checker
}

// Handler собирает проверки и отдаёт их по HTTP.
type Handler struct {
	mu         sync.RWMutex
	components []component
	version    string
	startedAt  time.Time
	now        func() time.Time
}

// NewHandler создаёт Handler без проверок.
func NewHandler(version string) *Handler {
	return &Handler{version: version, startedAt: time.Now(), now: time.Now}
}

// Register добавляет проверку. Повторная регистрация имени заменяет проверку
// и сохраняет её место в отчёте.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.components {
		if h.components[i].name == name {
			h.components[i].checker = checker
			return
		}
	}
	h.components = append(h.components, component{name: name, checker: checker})
}

// Report выполняет все проверки. Итоговый статус — худший из статусов проверок.
func (h *Handler) Report() Report {
	h.mu.RLock()
	components := append([]component(nil), h.components...)
	h.mu.RUnlock()

	now := h.now()
	report := Report{
		Status:        StatusHealthy,
		Version:       h.version,
		UptimeSeconds: int64(now.Sub(h.startedAt).Seconds()),
		CheckedAt:     now.UTC(),
		Checks:        make([]Check, 0, len(components)),
	}
	for _, c := range components {
		check := c.checker.Check()
		check.Name = c.name
		if check.Status.rank() > report.Status.rank() {
			report.Status = check.Status
		}
		report.Checks = append(report.Checks, check)
	}
	return report
}

// ServeHTTP отдаёт Report в JSON; 503, если хотя бы одна проверка unhealthy.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	report := h.Report()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode(report.Status))
	_ = json.NewEncoder(w).Encode(report)
}

// Ready — readiness: degraded backlog кухни не снимает процесс с трафика.
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	status := h.Report().Status
	w.WriteHeader(statusCode(status))
	if status == StatusUnhealthy {
		_, _ = w.Write([]byte("not ready"))
		return
	}
	_, _ = w.Write([]byte("ready"))
}

// Live — liveness: процесс отвечает, значит жив.
func Live(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func statusCode(status Status) int {
	if status == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
