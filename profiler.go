package lumen

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type profileScope struct {
	started time.Time
	running bool
	total   time.Duration
}

// Profiler collects per-frame CPU timings of the render stages and counters
// of the work they did. Scopes report in the order they first began.
type Profiler struct {
	Counts map[string]int

	scopes map[string]*profileScope
	order  []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Counts: make(map[string]int),
		scopes: make(map[string]*profileScope),
	}
}

func (p *Profiler) BeginScope(name string) {
	s, ok := p.scopes[name]
	if !ok {
		s = &profileScope{}
		p.scopes[name] = s
		p.order = append(p.order, name)
	}
	s.started = time.Now()
	s.running = true
}

// EndScope adds the time since the matching BeginScope; unmatched calls
// are ignored.
func (p *Profiler) EndScope(name string) {
	if s, ok := p.scopes[name]; ok && s.running {
		s.total += time.Since(s.started)
		s.running = false
	}
}

// Duration is the accumulated time of scope name.
func (p *Profiler) Duration(name string) time.Duration {
	if s, ok := p.scopes[name]; ok {
		return s.total
	}
	return 0
}

// Scopes lists scope names in first-begin order.
func (p *Profiler) Scopes() []string {
	return append([]string(nil), p.order...)
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) AddCount(name string, n int) {
	p.Counts[name] += n
}

// Reset zeroes timings and counters but keeps the scope order.
func (p *Profiler) Reset() {
	for _, s := range p.scopes {
		*s = profileScope{}
	}
	for k := range p.Counts {
		p.Counts[k] = 0
	}
}

func (p *Profiler) StatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.order {
		ms := float64(p.scopes[name].total.Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "  %-15s: %.2f ms\n", name, ms)
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-15s: %d\n", k, p.Counts[k])
	}
	return sb.String()
}
