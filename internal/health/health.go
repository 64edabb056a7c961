package health

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// Manager tracks the readiness of the service's backing components
// (database, token ledger). The service reports ready only once every
// registered component has checked in.
type Manager struct {
	mu         sync.RWMutex
	components map[string]bool
}

// NewManager registers the named components, all initially not ready.
func NewManager(components ...string) *Manager {
	m := &Manager{components: make(map[string]bool, len(components))}
	for _, name := range components {
		m.components[name] = false
	}
	return m
}

func (m *Manager) SetReady(component string, ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components[component] = ready
}

func (m *Manager) IsReady() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ready := range m.components {
		if !ready {
			return false
		}
	}
	return true
}

func (m *Manager) snapshot() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]bool, len(m.components))
	for name, ready := range m.components {
		out[name] = ready
	}
	return out
}

func LivenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReadinessHandler reports overall readiness plus the per-component state,
// so a failing dependency is visible from the probe response.
func ReadinessHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		label := "ready"
		if !m.IsReady() {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "components": m.snapshot()})
	}
}
