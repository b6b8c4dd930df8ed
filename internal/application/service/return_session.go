package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sheba-pos/outlet-gateway/internal/domain/entity"
	"github.com/sheba-pos/outlet-gateway/pkg/apperror"
)

// ReturnSession is the state container of one office-return screen: the
// latest search results plus the per-barcode entries accumulated across
// searches. Everything lives in memory for the lifetime of the session.
type ReturnSession struct {
	ID     uuid.UUID
	Outlet string
	User   string

	mu       sync.Mutex
	seq      uint64
	results  []entity.Product
	entries  map[string]*returnEntry
	lastSeen time.Time
}

type returnEntry struct {
	openingStock int
	officeReturn int
	busy         bool
}

func newReturnSession(outlet, user string) *ReturnSession {
	return &ReturnSession{
		ID:       uuid.New(),
		Outlet:   outlet,
		User:     user,
		entries:  make(map[string]*returnEntry),
		lastSeen: time.Now(),
	}
}

// beginCycle registers a new search cycle and returns its sequence number.
func (s *ReturnSession) beginCycle() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// applyCycle installs a completed cycle's results unless a newer cycle was
// issued while this one was in flight; stale cycles are discarded. A barcode
// already known to the session keeps its pending quantity and only has its
// opening stock refreshed. Reports whether the cycle was applied.
func (s *ReturnSession) applyCycle(seq uint64, products []entity.Product, stocks []int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.results = products
	for i, p := range products {
		if e, ok := s.entries[p.Barcode]; ok {
			e.openingStock = stocks[i]
			continue
		}
		s.entries[p.Barcode] = &returnEntry{openingStock: stocks[i]}
	}
	return true
}

// clearResults empties the visible result list and invalidates any search
// cycle still in flight, so a slow response cannot repopulate a list the
// operator already cleared. Entries keep their pending quantities so a
// re-appearing barcode picks them back up.
func (s *ReturnSession) clearResults() {
	s.mu.Lock()
	s.seq++
	s.results = nil
	s.mu.Unlock()
}

func (s *ReturnSession) setQuantity(barcode string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[barcode]
	if !ok {
		return apperror.NewNotFoundError("Product")
	}
	e.officeReturn = quantity
	return nil
}

// tryBeginRow takes the row's busy flag and returns the values the update
// will be computed from. Only this row is gated; other rows stay available.
func (s *ReturnSession) tryBeginRow(barcode string) (opening, quantity int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[barcode]
	if !ok {
		return 0, 0, apperror.NewNotFoundError("Product")
	}
	if e.busy {
		return 0, 0, apperror.ErrRowBusy
	}
	e.busy = true
	return e.openingStock, e.officeReturn, nil
}

func (s *ReturnSession) endRow(barcode string) {
	s.mu.Lock()
	if e, ok := s.entries[barcode]; ok {
		e.busy = false
	}
	s.mu.Unlock()
}

// commitRow applies a successful update: the opening stock becomes the
// persisted value and the pending quantity resets to zero.
func (s *ReturnSession) commitRow(barcode string, newStock int) {
	s.mu.Lock()
	if e, ok := s.entries[barcode]; ok {
		e.openingStock = newStock
		e.officeReturn = 0
	}
	s.mu.Unlock()
}

// SearchRow is the operator-visible state of one result row.
type SearchRow struct {
	Barcode      string `json:"barcode"`
	Name         string `json:"name"`
	OpeningStock int    `json:"opening_stock"`
	OfficeReturn int    `json:"office_return"`
	Busy         bool   `json:"busy"`
}

func (s *ReturnSession) snapshot() []SearchRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]SearchRow, 0, len(s.results))
	for _, p := range s.results {
		row := SearchRow{Barcode: p.Barcode, Name: p.Name}
		if e, ok := s.entries[p.Barcode]; ok {
			row.OpeningStock = e.openingStock
			row.OfficeReturn = e.officeReturn
			row.Busy = e.busy
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *ReturnSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *ReturnSession) expired(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// sessionStore keeps live return sessions in memory and evicts the ones
// nobody has touched within the TTL.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*ReturnSession
	ttl      time.Duration
	done     chan struct{}
}

func newSessionStore(ttl, cleanupEvery time.Duration) *sessionStore {
	store := &sessionStore{
		sessions: make(map[uuid.UUID]*ReturnSession),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go store.cleanupLoop(cleanupEvery)
	return store
}

func (st *sessionStore) add(s *ReturnSession) {
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}

// get returns the live session for id. A session idle past the TTL is
// evicted here too, so expiry does not wait on the next sweep.
func (st *sessionStore) get(id uuid.UUID) *ReturnSession {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if ok && s.expired(time.Now().Add(-st.ttl)) {
		delete(st.sessions, id)
		ok = false
	}
	st.mu.Unlock()
	if !ok {
		return nil
	}
	s.touch(time.Now())
	return s
}

func (st *sessionStore) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			st.cleanup()
		case <-st.done:
			return
		}
	}
}

func (st *sessionStore) stop() {
	close(st.done)
}

func (st *sessionStore) cleanup() {
	cutoff := time.Now().Add(-st.ttl)
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		if s.expired(cutoff) {
			delete(st.sessions, id)
		}
	}
}
