package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCapacity is the number of samples kept when none is given.
const DefaultCapacity = 4096

// Kind distinguishes HTTP request samples from SQL samples.
type Kind uint8

const (
	KindRequest Kind = iota
	KindQuery
)

// Sample is one timed operation.
type Sample struct {
	Kind       Kind
	Label      string // route pattern or SQL operation
	Status     int    // HTTP status, 0 for queries
	DurationMs float64
	At         time.Time
}

// Collector keeps the most recent samples in a fixed ring.
// Record never blocks on aggregation; Report does the work on read.
type Collector struct {
	mu    sync.Mutex
	ring  []Sample
	next  int
	total atomic.Int64
}

// NewCollector creates a collector holding up to capacity samples.
// PRE: capacity > 0, otherwise DefaultCapacity is used
func NewCollector(capacity int) *Collector {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Collector{ring: make([]Sample, capacity)}
}

// Record stores a sample, overwriting the oldest once the ring is full.
func (c *Collector) Record(s Sample) {
	c.mu.Lock()
	c.ring[c.next] = s
	c.next = (c.next + 1) % len(c.ring)
	c.mu.Unlock()
	c.total.Add(1)
}

// Total returns the number of samples ever recorded.
func (c *Collector) Total() int64 {
	return c.total.Load()
}

// LabelStat aggregates the samples sharing one label.
type LabelStat struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	totalMs float64
}

// Report is the aggregated view served to distrital users.
type Report struct {
	Since          time.Time   `json:"since"`
	Recorded       int64       `json:"recorded"`
	Requests       int         `json:"requests"`
	Queries        int         `json:"queries"`
	ServerErrors   int         `json:"server_errors"`
	RequestP50Ms   float64     `json:"request_p50_ms"`
	RequestP95Ms   float64     `json:"request_p95_ms"`
	RequestP99Ms   float64     `json:"request_p99_ms"`
	SlowestRoutes  []LabelStat `json:"slowest_routes"`
	SlowestQueries []LabelStat `json:"slowest_queries"`
}

// Report aggregates samples taken at or after since, listing the topN slowest labels per kind.
func (c *Collector) Report(since time.Time, topN int) Report {
	c.mu.Lock()
	samples := make([]Sample, len(c.ring))
	copy(samples, c.ring)
	c.mu.Unlock()

	rep := Report{Since: since, Recorded: c.Total()}
	routes := make(map[string]*LabelStat)
	queries := make(map[string]*LabelStat)
	var durations []float64

	for _, s := range samples {
		if s.At.IsZero() || s.At.Before(since) {
			continue
		}
		bucket := queries
		if s.Kind == KindRequest {
			bucket = routes
			rep.Requests++
			durations = append(durations, s.DurationMs)
			if s.Status >= 500 {
				rep.ServerErrors++
			}
		} else {
			rep.Queries++
		}
		st, ok := bucket[s.Label]
		if !ok {
			st = &LabelStat{Label: s.Label}
			bucket[s.Label] = st
		}
		st.Count++
		st.totalMs += s.DurationMs
		st.MaxMs = math.Max(st.MaxMs, s.DurationMs)
	}

	rep.SlowestRoutes = slowest(routes, topN)
	rep.SlowestQueries = slowest(queries, topN)

	if len(durations) > 0 {
		sort.Float64s(durations)
		rep.RequestP50Ms = quantile(durations, 0.50)
		rep.RequestP95Ms = quantile(durations, 0.95)
		rep.RequestP99Ms = quantile(durations, 0.99)
	}
	return rep
}

// quantile interpolates linearly between the closest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func slowest(stats map[string]*LabelStat, n int) []LabelStat {
	out := make([]LabelStat, 0, len(stats))
	for _, st := range stats {
		st.AvgMs = st.totalMs / float64(st.Count)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgMs == out[j].AvgMs {
			return out[i].Label < out[j].Label
		}
		return out[i].AvgMs > out[j].AvgMs
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
