package notify

// Inflight is an arena of outstanding mutating requests keyed by record
// ID, shared by every surface and every mutating operation. While an ID is
// active its row renders disabled and further clicks on it are ignored,
// preventing duplicate concurrent requests for the same record. It does
// not serialize operations across different records.
//
// It is mutated only from the UI update loop and needs no locking.
type Inflight struct {
	ids map[int64]struct{}
}

// NewInflight creates an empty arena.
func NewInflight() *Inflight {
	return &Inflight{ids: make(map[int64]struct{})}
}

// Begin claims the ID for a request. It returns false when a request for
// the same ID is already outstanding.
func (f *Inflight) Begin(id int64) bool {
	if _, busy := f.ids[id]; busy {
		return false
	}
	f.ids[id] = struct{}{}
	return true
}

// End releases the ID once its request resolved, in success or failure.
func (f *Inflight) End(id int64) {
	delete(f.ids, id)
}

// Active reports whether a request for the ID is outstanding.
func (f *Inflight) Active(id int64) bool {
	_, busy := f.ids[id]
	return busy
}
