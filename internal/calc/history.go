package calc

import "encoding/json"

// DefaultHistoryCap is the number of entries the history log retains.
const DefaultHistoryCap = 5

// History is a bounded log of formatted entries, most recent first.
type History struct {
	entries []string
	cap     int
}

// NewHistory creates an empty log retaining at most capacity entries.
// A non-positive capacity uses DefaultHistoryCap.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCap
	}
	return &History{cap: capacity}
}

// Add records entry as the most recent, evicting the oldest beyond capacity.
func (h *History) Add(entry string) {
	h.entries = append([]string{entry}, h.entries...)
	if len(h.entries) > h.cap {
		h.entries = h.entries[:h.cap]
	}
}

// Clear empties the log.
func (h *History) Clear() {
	h.entries = nil
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the log, most recent first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Encode renders the log as a JSON array.
func (h *History) Encode() string {
	data, _ := json.Marshal(h.Entries())
	return string(data)
}

// Decode replaces the log with the JSON array in data. Anything that does not
// parse leaves the log empty and returns false.
func (h *History) Decode(data string) bool {
	var entries []string
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		h.entries = nil
		return false
	}
	if len(entries) > h.cap {
		entries = entries[:h.cap]
	}
	h.entries = entries
	return true
}
