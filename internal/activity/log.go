package activity

import (
	"sync"
	"time"

	"github.com/ieti-edutrack/apiserver/types"
)

const (
	// DefaultCapacity is the number of entries the admin dashboard shows.
	DefaultCapacity = 10

	timestampLayout = "Jan 2, 2006, 3:04:05 PM"
)

// Manila is the fixed zone activity timestamps are rendered in.
var Manila = time.FixedZone("PHT", 8*60*60)

// Log keeps the most recent activity entries in memory, newest first.
// Entries do not survive a restart.
type Log struct {
	mu       sync.Mutex
	entries  []types.Activity
	capacity int
	location *time.Location
	now      func() time.Time
}

// NewLog constructs a log holding at most capacity entries.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries:  make([]types.Activity, 0, capacity),
		capacity: capacity,
		location: Manila,
		now:      time.Now,
	}
}

// Record prepends a new entry and drops the oldest beyond capacity.
func (l *Log) Record(description string) types.Activity {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := types.Activity{
		Timestamp:   l.now().In(l.location).Format(timestampLayout),
		Description: description,
	}

	n := min(len(l.entries)+1, l.capacity)
	next := make([]types.Activity, n, l.capacity)
	next[0] = entry
	copy(next[1:], l.entries)
	l.entries = next
	return entry
}

// List returns a copy of the current entries, most recent first.
func (l *Log) List() []types.Activity {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.Activity, len(l.entries))
	copy(out, l.entries)
	return out
}
