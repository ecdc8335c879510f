package tracefile

import (
	"sort"
	"time"

	"stickhal/hal/trace"
)

// AddrStats aggregates transactions to one device address.
type AddrStats struct {
	Addr    uint16
	Count   int
	Errors  int
	BytesW  int
	BytesR  int
	Total   time.Duration
	Max     time.Duration
	LastErr string
}

// Stats accumulates per-address counters.
type Stats struct {
	byAddr map[uint16]*AddrStats
	First  time.Time
	Last   time.Time
	Events int
}

func NewStats() *Stats { return &Stats{byAddr: make(map[uint16]*AddrStats)} }

func (s *Stats) Add(e trace.Event) {
	if s.Events == 0 || e.Timestamp.Before(s.First) {
		s.First = e.Timestamp
	}
	if e.Timestamp.After(s.Last) {
		s.Last = e.Timestamp
	}
	s.Events++

	a := s.byAddr[e.Addr]
	if a == nil {
		a = &AddrStats{Addr: e.Addr}
		s.byAddr[e.Addr] = a
	}
	a.Count++
	a.BytesW += len(e.Write)
	a.BytesR += len(e.Read)
	a.Total += e.Duration
	if e.Duration > a.Max {
		a.Max = e.Duration
	}
	if e.Failed() {
		a.Errors++
		a.LastErr = e.Err
	}
}

// ByAddr returns the per-address rows sorted by address.
func (s *Stats) ByAddr() []AddrStats {
	out := make([]AddrStats, 0, len(s.byAddr))
	for _, a := range s.byAddr {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}
