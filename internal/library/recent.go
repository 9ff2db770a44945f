package library

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lepinkainen/folio/internal/openlibrary"
	"github.com/lepinkainen/folio/internal/storage"
)

// MaxRecentEntries is how many recent searches are kept.
const MaxRecentEntries = 10

// RecentEntry is one remembered search.
type RecentEntry struct {
	Query     string                `json:"query" yaml:"query"`
	Type      openlibrary.QueryType `json:"type" yaml:"type"`
	Timestamp time.Time             `json:"timestamp" yaml:"timestamp"`
}

// RecentLog is the most-recent-first list of past searches. A (query, type)
// pair appears at most once.
type RecentLog struct {
	backend storage.Backend
	now     func() time.Time

	mu      sync.Mutex
	entries []RecentEntry
}

// NewRecentLog creates an empty log. Call LoadAll to read persisted state.
func NewRecentLog(backend storage.Backend) *RecentLog {
	return &RecentLog{backend: backend, now: time.Now}
}

// LoadAll reads the persisted log, re-sorting it newest first and keeping
// the newest MaxRecentEntries. Malformed data is treated as an empty log.
func (l *RecentLog) LoadAll(ctx context.Context) error {
	var entries []RecentEntry
	if err := loadSlot(ctx, l.backend, storage.SlotRecentSearches, &entries); err != nil {
		return err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if len(entries) > MaxRecentEntries {
		entries = entries[:MaxRecentEntries]
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	return nil
}

// Record moves (query, queryType) to the front of the log with the current
// time and persists the result. Blank queries are ignored.
func (l *RecentLog) Record(ctx context.Context, query string, queryType openlibrary.QueryType) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]RecentEntry, 0, MaxRecentEntries)
	next = append(next, RecentEntry{Query: query, Type: queryType, Timestamp: l.now().UTC()})
	for _, e := range l.entries {
		if e.Query == query && e.Type == queryType {
			continue
		}
		next = append(next, e)
	}
	if len(next) > MaxRecentEntries {
		next = next[:MaxRecentEntries]
	}

	if err := saveSlot(ctx, l.backend, storage.SlotRecentSearches, next); err != nil {
		return err
	}
	l.entries = next
	return nil
}

// Entries returns a copy of the log, most recent first.
func (l *RecentLog) Entries() []RecentEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]RecentEntry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *RecentLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// Clear empties the log and removes the persisted slot.
func (l *RecentLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.backend.Delete(ctx, storage.SlotRecentSearches); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	l.entries = nil
	return nil
}

var ageMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "Just now", DivBy: 1},
	{D: time.Hour, Format: "%dm ago", DivBy: time.Minute},
	{D: humanize.Day, Format: "%dh ago", DivBy: time.Hour},
	{D: humanize.Week, Format: "%dd ago", DivBy: humanize.Day},
}

// Age renders how long ago an entry was recorded: "Just now", "5m ago",
// "3h ago", "2d ago", or the date once it is a week old.
func Age(entry RecentEntry, now time.Time) string {
	if now.Sub(entry.Timestamp) >= humanize.Week {
		return entry.Timestamp.Local().Format("Jan 2, 2006")
	}
	return humanize.CustomRelTime(entry.Timestamp, now, "", "", ageMagnitudes)
}
