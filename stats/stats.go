// Package stats counts record views and downloads in monthly buckets and
// aggregates them over the versions of a record.
package stats

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jinzhu/now"
	"golang.org/x/sync/errgroup"
)

// EventType is the kind of access being counted.
type EventType string

const (
	View     EventType = "view"
	Download EventType = "download"
)

// Event is one access to a record.
type Event struct {
	RecordID string
	Type     EventType
	Time     time.Time
}

// Stats are access totals.
type Stats struct {
	Views     int64 `json:"views"`
	Downloads int64 `json:"downloads"`
}

func (s *Stats) add(o Stats) {
	s.Views += o.Views
	s.Downloads += o.Downloads
}

// Bucket holds the totals of one calendar month.
type Bucket struct {
	Month string `json:"month"` // YYYY-MM
	Stats
}

// Counter records events and reports totals per record.
type Counter interface {
	Record(ctx context.Context, e Event) error
	Get(ctx context.Context, recordID string) (Stats, error)
	Months(ctx context.Context, recordID string) ([]Bucket, error)
}

// Month returns the bucket key of t.
func Month(t time.Time) string {
	return now.New(t.UTC()).BeginningOfMonth().Format("2006-01")
}

// MonthRange lists the bucket keys from the month of from through the month
// of until.
func MonthRange(from, until time.Time) []string {
	var out []string
	start := now.New(from.UTC()).BeginningOfMonth()
	end := now.New(until.UTC()).EndOfMonth()
	for t := start; !t.After(end); t = t.AddDate(0, 1, 0) {
		out = append(out, t.Format("2006-01"))
	}
	return out
}

func validate(e Event) error {
	if e.RecordID == "" {
		return fmt.Errorf("event without record id")
	}
	if e.Type != View && e.Type != Download {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}

// MemoryCounter keeps counts in memory.
type MemoryCounter struct {
	mu      sync.Mutex
	buckets map[string]map[string]*Stats
}

// NewMemoryCounter creates an empty counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{buckets: make(map[string]map[string]*Stats)}
}

// Record implements Counter.
func (c *MemoryCounter) Record(_ context.Context, e Event) error {
	if err := validate(e); err != nil {
		return err
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	months, ok := c.buckets[e.RecordID]
	if !ok {
		months = make(map[string]*Stats)
		c.buckets[e.RecordID] = months
	}
	month := Month(e.Time)
	s, ok := months[month]
	if !ok {
		s = &Stats{}
		months[month] = s
	}
	switch e.Type {
	case View:
		s.Views++
	case Download:
		s.Downloads++
	}
	return nil
}

// Get implements Counter.
func (c *MemoryCounter) Get(ctx context.Context, recordID string) (Stats, error) {
	buckets, err := c.Months(ctx, recordID)
	if err != nil {
		return Stats{}, err
	}
	return total(buckets), nil
}

// Months implements Counter.
func (c *MemoryCounter) Months(_ context.Context, recordID string) ([]Bucket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Bucket
	for month, s := range c.buckets[recordID] {
		out = append(out, Bucket{Month: month, Stats: *s})
	}
	sortBuckets(out)
	return out, nil
}

func total(buckets []Bucket) Stats {
	var s Stats
	for _, b := range buckets {
		s.add(b.Stats)
	}
	return s
}

func sortBuckets(b []Bucket) {
	sort.Slice(b, func(i, j int) bool { return b[i].Month < b[j].Month })
}

// Aggregated are the statistics shown for one version of a record.
type Aggregated struct {
	ThisVersion Stats `json:"this_version"`
	AllVersions Stats `json:"all_versions"`
}

// Aggregate reports the totals of recordID and the sum over versionIDs.
// Every id, recordID included, is counted once.
func Aggregate(ctx context.Context, c Counter, recordID string, versionIDs []string) (Aggregated, error) {
	ids := []string{recordID}
	seen := map[string]bool{recordID: true}
	for _, id := range versionIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	results := make([]Stats, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, id := range ids {
		g.Go(func() error {
			s, err := c.Get(gctx, id)
			if err != nil {
				return fmt.Errorf("stats for %s: %w", id, err)
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Aggregated{}, err
	}

	agg := Aggregated{ThisVersion: results[0]}
	for _, s := range results {
		agg.AllVersions.add(s)
	}
	return agg, nil
}
