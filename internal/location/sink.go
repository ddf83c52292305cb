package location

import (
	"net/url"
	"sync"
)

// MemorySink holds the latest flushed query string. Each Replace overwrites
// the previous value, mirroring a replace-style history update: sharing the
// link always reflects the most recent committed selection.
type MemorySink struct {
	mu     sync.RWMutex
	values url.Values
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{values: url.Values{}}
}

// Replace overwrites the stored query parameters.
func (m *MemorySink) Replace(values url.Values) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = values
}

// Query returns the current canonical query string.
func (m *MemorySink) Query() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values.Encode()
}

// Values returns a copy of the current query parameters.
func (m *MemorySink) Values() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := url.Values{}
	for k, v := range m.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
