package activity

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLogKeepsMostRecentFirst(t *testing.T) {
	log := NewLog(DefaultCapacity)
	for i := 1; i <= 3; i++ {
		log.Record(fmt.Sprintf("event %d", i))
	}

	entries := log.List()
	require.Len(t, entries, 3)
	require.Equal(t, "event 3", entries[0].Description)
	require.Equal(t, "event 1", entries[2].Description)
}

func TestLogTruncatesToCapacity(t *testing.T) {
	log := NewLog(DefaultCapacity)
	for i := 1; i <= 25; i++ {
		log.Record(fmt.Sprintf("event %d", i))
	}

	entries := log.List()
	require.Len(t, entries, DefaultCapacity)
	require.Equal(t, "event 25", entries[0].Description)
	require.Equal(t, "event 16", entries[DefaultCapacity-1].Description)
}

func TestLogListReturnsCopy(t *testing.T) {
	log := NewLog(2)
	log.Record("first")

	entries := log.List()
	entries[0].Description = "mutated"

	require.Equal(t, "first", log.List()[0].Description)
}

func TestLogTimestampUsesFixedZone(t *testing.T) {
	log := NewLog(1)
	log.now = func() time.Time { return time.Date(2026, 3, 1, 16, 30, 0, 0, time.UTC) }

	entry := log.Record("approved")
	require.Equal(t, "Mar 2, 2026, 12:30:00 AM", entry.Timestamp)
}

func TestLogConcurrentRecord(t *testing.T) {
	log := NewLog(DefaultCapacity)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.Record(fmt.Sprintf("event %d", i))
			_ = log.List()
		}(i)
	}
	wg.Wait()

	require.Len(t, log.List(), DefaultCapacity)
}

func TestNewLogDefaultsCapacity(t *testing.T) {
	log := NewLog(0)
	for i := 0; i < 20; i++ {
		log.Record("x")
	}
	require.Len(t, log.List(), DefaultCapacity)
}
