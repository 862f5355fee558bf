package sim

import (
	"log/slog"
	"sync"
)

// Mesh simulates mesh membership. LeaveNetwork detaches the node; it
// rejoins when the radio powers on again.
type Mesh struct {
	mu      sync.Mutex
	joined  bool
	leaves  int
	rejoins int
	logger  *slog.Logger
}

// NewMesh creates a joined membership. logger may be nil.
func NewMesh(logger *slog.Logger) *Mesh {
	return &Mesh{joined: true, logger: logger}
}

// LeaveNetwork implements sleep.Membership.
func (m *Mesh) LeaveNetwork() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.leaves++
	if !m.joined {
		return
	}
	m.joined = false
	if m.logger != nil {
		m.logger.Info("left mesh", "leaves", m.leaves)
	}
}

// Rejoin attaches the node again. It is a no-op while joined.
func (m *Mesh) Rejoin() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.joined {
		return
	}
	m.joined = true
	m.rejoins++
	if m.logger != nil {
		m.logger.Info("rejoined mesh", "rejoins", m.rejoins)
	}
}

// Joined reports whether the node is attached.
func (m *Mesh) Joined() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joined
}

// MeshStats is a point-in-time copy of the membership counters.
type MeshStats struct {
	Joined  bool
	Leaves  int
	Rejoins int
}

// Stats returns the membership counters.
func (m *Mesh) Stats() MeshStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MeshStats{Joined: m.joined, Leaves: m.leaves, Rejoins: m.rejoins}
}
