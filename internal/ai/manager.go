package ai

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// TickManager fans simulation ticks out to all registered AI controllers.
//
// Controllers tick in registration order so a run is reproducible. A controller
// that panics is logged and skipped; the rest of the tick continues.
type TickManager struct {
	mu          sync.RWMutex
	controllers map[uint32]Controller // objectID → controller
	order       []uint32              // registration order
}

// NewTickManager creates new AI tick manager
func NewTickManager() *TickManager {
	return &TickManager{
		controllers: make(map[uint32]Controller),
	}
}

// Register registers and starts an AI controller.
// Registering an objectID twice replaces the previous controller.
func (m *TickManager) Register(controller Controller) {
	objectID := controller.ObjectID()

	m.mu.Lock()
	prev, exists := m.controllers[objectID]
	m.controllers[objectID] = controller
	if !exists {
		m.order = append(m.order, objectID)
	}
	m.mu.Unlock()

	if exists {
		prev.Stop()
	}
	controller.Start()

	slog.Debug("AI controller registered",
		"objectID", objectID,
		"state", controller.State())
}

// Unregister stops and removes an AI controller. Unknown IDs are ignored.
func (m *TickManager) Unregister(objectID uint32) {
	m.mu.Lock()
	controller, ok := m.controllers[objectID]
	if ok {
		delete(m.controllers, objectID)
		if i := slices.Index(m.order, objectID); i >= 0 {
			m.order = slices.Delete(m.order, i, i+1)
		}
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	controller.Stop()

	slog.Debug("AI controller unregistered", "objectID", objectID)
}

// UpdateAll runs the frame tick on every controller.
func (m *TickManager) UpdateAll(dt float64) {
	for _, c := range m.snapshot() {
		m.safeCall(c, "update", func() { c.Update(dt) })
	}
}

// FixedUpdateAll runs the fixed tick on every controller.
func (m *TickManager) FixedUpdateAll(dt float64) {
	count := 0
	for _, c := range m.snapshot() {
		m.safeCall(c, "fixed_update", func() { c.FixedUpdate(dt) })
		count++
	}

	if count > 0 && IsDebugEnabled() {
		slog.Debug("AI fixed tick completed", "controllers", count, "dt", dt)
	}
}

// Count returns number of registered controllers.
func (m *TickManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.controllers)
}

// GetController returns controller for an entity.
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.controllers[objectID]
	if !ok {
		return nil, fmt.Errorf("controller not found for objectID %d", objectID)
	}
	return c, nil
}

// Controllers returns controllers in registration order.
func (m *TickManager) Controllers() []Controller {
	return m.snapshot()
}

// snapshot copies the controller list so ticks run without holding the lock:
// a controller may cause another to be unregistered mid-tick.
func (m *TickManager) snapshot() []Controller {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Controller, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.controllers[id])
	}
	return out
}

func (m *TickManager) safeCall(c Controller, phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("AI controller panicked",
				"objectID", c.ObjectID(),
				"phase", phase,
				"panic", r)
		}
	}()
	fn()
}
