package lightning

// History is a circular buffer of recent strike distances.
type History struct {
	buf   []float64
	pos   int
	count int
}

// NewHistory creates a buffer holding up to capacity values.
func NewHistory(capacity int) *History {
	return &History{
		buf: make([]float64, capacity),
	}
}

// Push adds a value, overwriting the oldest once full.
func (h *History) Push(val float64) {
	h.buf[h.pos] = val
	h.pos = (h.pos + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// Values returns all stored values in chronological order.
func (h *History) Values() []float64 {
	if h.count == 0 {
		return nil
	}
	result := make([]float64, h.count)
	if h.count < len(h.buf) {
		copy(result, h.buf[:h.count])
	} else {
		n := copy(result, h.buf[h.pos:])
		copy(result[n:], h.buf[:h.pos])
	}
	return result
}

// Clear drops every value.
func (h *History) Clear() {
	h.pos = 0
	h.count = 0
}
