package watch

// Watchlist is the in-memory ordered set of ids a live watch session refreshes
type Watchlist struct {
	ids     []int
	members map[int]struct{}
	max     int
}

// NewWatchlist creates a watchlist holding at most max ids (max <= 0 means unbounded)
func NewWatchlist(max int, initial ...int) *Watchlist {
	w := &Watchlist{members: make(map[int]struct{}), max: max}
	for _, id := range initial {
		w.Add(id)
	}
	return w
}

// Add appends id unless it is present or the list is full. Reports whether it was added.
func (w *Watchlist) Add(id int) bool {
	if _, ok := w.members[id]; ok {
		return false
	}
	if w.IsFull() {
		return false
	}
	w.ids = append(w.ids, id)
	w.members[id] = struct{}{}
	return true
}

// Contains reports whether id is watched
func (w *Watchlist) Contains(id int) bool {
	_, ok := w.members[id]
	return ok
}

// IsFull reports whether no more ids can be added
func (w *Watchlist) IsFull() bool {
	return w.max > 0 && len(w.ids) >= w.max
}

// IDs returns a copy of the watched ids in insertion order
func (w *Watchlist) IDs() []int {
	out := make([]int, len(w.ids))
	copy(out, w.ids)
	return out
}

// Len returns the number of watched ids
func (w *Watchlist) Len() int {
	return len(w.ids)
}
