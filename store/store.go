// Package store persists small fixed-size named records. Absence, read
// failure and size mismatch are all reported as "not found"; callers
// synthesize defaults instead of handling errors.
package store

import "sync"

// Store is the byte-oriented record store faces persist through.
type Store interface {
	// Exists reports whether a record with this name is stored.
	Exists(name string) bool
	// Read fills p with the record body. It returns false if the record
	// is absent, unreadable, or not exactly len(p) bytes long.
	Read(name string, p []byte) bool
	// Write stores the record body under name, replacing any previous
	// record.
	Write(name string, p []byte) error
}

// Mem is an in-memory Store for tests and stores that failed to open.
type Mem struct {
	mu      sync.Mutex
	records map[string][]byte

	// Writes counts Write calls, which change-coalescing tests assert on.
	Writes int
}

func NewMem() *Mem {
	return &Mem{records: make(map[string][]byte)}
}

func (m *Mem) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[name]
	return ok
}

func (m *Mem) Read(name string, p []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[name]
	if !ok || len(rec) != len(p) {
		return false
	}
	copy(p, rec)
	return true
}

func (m *Mem) Write(name string, p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[name] = append([]byte(nil), p...)
	m.Writes++
	return nil
}
