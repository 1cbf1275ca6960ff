package websockets

import (
	"sync"

	"muster/config"
	"muster/internal/database"
	"muster/internal/events"
	"muster/internal/logger"

	"github.com/gofiber/websocket/v2"
)

// CheckinChannel carries accepted check-ins from the admission path to
// connected dashboards.
const CheckinChannel = "checkins"

// Manager is the observer registry for dashboard connections. Observers only
// receive events broadcast while connected; there is no backlog or replay.
type Manager struct {
	mu       sync.RWMutex
	conns    map[*websocket.Conn]struct{}
	eventBus *events.EventBus
	log      logger.Logger
}

func New(db database.DB, eventBus *events.EventBus, config config.Config) (*Manager, error) {
	m := &Manager{
		conns:    make(map[*websocket.Conn]struct{}),
		eventBus: eventBus,
		log:      logger.New("websockets"),
	}

	go func() {
		if err := eventBus.Subscribe(CheckinChannel, m.broadcast); err != nil {
			m.log.Er("checkin subscription failed", err)
		}
	}()

	return m, nil
}

// HandleWebSocket registers the connection and holds it open until the peer
// goes away. Dashboards never send meaningful frames; reads only detect
// disconnects.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	m.register(c)
	defer m.unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) register(c *websocket.Conn) {
	m.mu.Lock()
	m.conns[c] = struct{}{}
	count := len(m.conns)
	m.mu.Unlock()

	m.log.Info("observer connected", "observers", count)
}

func (m *Manager) unregister(c *websocket.Conn) {
	m.mu.Lock()
	delete(m.conns, c)
	count := len(m.conns)
	m.mu.Unlock()

	_ = c.Close()
	m.log.Info("observer disconnected", "observers", count)
}

// broadcast pushes the event to every current observer. A failed write only
// drops that observer's delivery; the connection reaper is its read loop.
func (m *Manager) broadcast(event events.Event) {
	log := m.log.Function("broadcast")

	m.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(m.conns))
	for c := range m.conns {
		conns = append(conns, c)
	}
	m.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteJSON(event); err != nil {
			log.Er("failed to deliver event", err)
		}
	}
}

// ObserverCount reports current connections, used by tests and diagnostics.
func (m *Manager) ObserverCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}
