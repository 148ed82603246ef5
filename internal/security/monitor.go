package security

import (
	"log"
	"sync"
	"time"
)

// Event is one recorded suspicious action.
type Event struct {
	Kind      string    `json:"kind"`
	IP        string    `json:"ip"`
	Path      string    `json:"path"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Event kinds recorded by the handlers.
const (
	KindAuthFailure      = "auth_failure"
	KindSignatureFailure = "webhook_signature_failure"
	KindUploadRejected   = "upload_rejected"
	KindRateLimited      = "rate_limited"
)

// Store is the persistence contract for the monitor. The shipped MemoryStore
// is process-local; a shared cache can replace it for multi-instance setups.
type Store interface {
	Append(e Event)
	Recent(limit int) []Event
	Block(ip string)
	Unblock(ip string)
	IsBlocked(ip string) bool
	BlockedIPs() []string
}

// Monitor records suspicious events and enforces the IP block list.
type Monitor struct {
	store Store
}

func NewMonitor(store Store) *Monitor {
	return &Monitor{store: store}
}

func (m *Monitor) Record(kind, ip, path, detail string) {
	m.store.Append(Event{Kind: kind, IP: ip, Path: path, Detail: detail, CreatedAt: time.Now()})
	log.Printf("security_event kind=%s ip=%s path=%s detail=%q", kind, ip, path, detail)
}

func (m *Monitor) Recent(limit int) []Event { return m.store.Recent(limit) }
func (m *Monitor) Block(ip string)          { m.store.Block(ip) }
func (m *Monitor) Unblock(ip string)        { m.store.Unblock(ip) }
func (m *Monitor) IsBlocked(ip string) bool { return m.store.IsBlocked(ip) }
func (m *Monitor) BlockedIPs() []string     { return m.store.BlockedIPs() }

// MemoryStore keeps a bounded ring of events and a block set in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	events  []Event
	maxLen  int
	blocked map[string]struct{}
}

func NewMemoryStore(maxEvents int) *MemoryStore {
	if maxEvents <= 0 {
		maxEvents = 1000
	}
	return &MemoryStore{
		maxLen:  maxEvents,
		blocked: make(map[string]struct{}),
	}
}

func (s *MemoryStore) Append(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	if len(s.events) > s.maxLen {
		s.events = s.events[len(s.events)-s.maxLen:]
	}
}

func (s *MemoryStore) Recent(limit int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]Event, limit)
	// newest first
	for i := 0; i < limit; i++ {
		out[i] = s.events[len(s.events)-1-i]
	}
	return out
}

func (s *MemoryStore) Block(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked[ip] = struct{}{}
}

func (s *MemoryStore) Unblock(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocked, ip)
}

func (s *MemoryStore) IsBlocked(ip string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blocked[ip]
	return ok
}

func (s *MemoryStore) BlockedIPs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.blocked))
	for ip := range s.blocked {
		out = append(out, ip)
	}
	return out
}
