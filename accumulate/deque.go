package accumulate

// window is the shared front/back bookkeeping both accumulator flavors
// embed: a deque indexed by reference position, front-aligned at
// targetPos. Cells themselves are flavor-specific; window only tracks
// bounds and exposes the index arithmetic. The deque always starts with
// targetPos 0 and size 0 — the output table covers the reference from
// its first position, not just the span a given read happens to touch.
type window struct {
	targetPos int
	size      int
}

// rightPos returns the reference position of the deque's current back
// cell, or targetPos-1 if the deque is empty.
func (w *window) rightPos() int {
	if w.size == 0 {
		return w.targetPos - 1
	}
	return w.targetPos + w.size - 1
}

// growTo ensures the deque reaches reference position newRight,
// returning the number of new cells that must be appended at the back.
func (w *window) growTo(newRight int) int {
	if newRight < w.rightPos() {
		return 0
	}
	grow := newRight - w.rightPos()
	w.size += grow
	return grow
}

// evictCount returns how many cells must be emitted and dropped from
// the front for the deque's front to reach newLeft, or 0 if newLeft does
// not advance past targetPos.
func (w *window) evictCount(newLeft int) int {
	if newLeft <= w.targetPos {
		return 0
	}
	n := newLeft - w.targetPos
	if n > w.size {
		n = w.size
	}
	return n
}

// evict drops n cells from the front and advances targetPos by n.
func (w *window) evict(n int) {
	w.targetPos += n
	w.size -= n
}

// index converts a reference position into a deque slot, or -1 if pos
// falls outside [targetPos, targetPos+size).
func (w *window) index(pos int) int {
	if pos < w.targetPos || pos >= w.targetPos+w.size {
		return -1
	}
	return pos - w.targetPos
}
