package debug

import (
	"sort"
	"sync"
	"time"

	"github.com/meverselabs/metamart/common/rlog"
)

var gProfiler = NewProfiler()

// Start starts a timer of the global profiler
func Start(name string) *Timer {
	return gProfiler.Start(name)
}

// Result logs and resets the global profiler
func Result() map[string]Point {
	return gProfiler.Result()
}

// Global returns the global profiler
func Global() *Profiler {
	return gProfiler
}

// Point is the accumulated time of a name
type Point struct {
	Total time.Duration `json:"total"`
	Count int           `json:"count"`
}

// Profiler accumulates the elapsed time of named points
type Profiler struct {
	sync.Mutex
	PointTimeMap  map[string]int64
	PointCountMap map[string]int
}

// NewProfiler returns a Profiler
func NewProfiler() *Profiler {
	return &Profiler{
		PointTimeMap:  map[string]int64{},
		PointCountMap: map[string]int{},
	}
}

// Start returns a timer which adds its elapsed time to the name on Stop
func (p *Profiler) Start(name string) *Timer {
	return &Timer{
		p:     p,
		Name:  name,
		Begin: time.Now().UnixNano(),
	}
}

// Snapshot returns the points without resetting them
func (p *Profiler) Snapshot() map[string]Point {
	p.Lock()
	defer p.Unlock()

	return p.points()
}

// Result logs the points by name and resets them
func (p *Profiler) Result() map[string]Point {
	p.Lock()
	m := p.points()
	p.PointTimeMap = map[string]int64{}
	p.PointCountMap = map[string]int{}
	p.Unlock()

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rlog.Println(name, m[name].Total, m[name].Count)
	}
	return m
}

func (p *Profiler) points() map[string]Point {
	m := make(map[string]Point, len(p.PointTimeMap))
	for name, t := range p.PointTimeMap {
		m[name] = Point{Total: time.Duration(t), Count: p.PointCountMap[name]}
	}
	return m
}

// Close logs the result, it makes the profiler a closer
func (p *Profiler) Close() {
	p.Result()
}

// Timer measures a point
type Timer struct {
	p     *Profiler
	Name  string
	Begin int64
}

// Stop adds the elapsed time to the profiler
func (t *Timer) Stop() {
	d := time.Now().UnixNano() - t.Begin
	t.p.Lock()
	t.p.PointTimeMap[t.Name] += d
	t.p.PointCountMap[t.Name]++
	t.p.Unlock()
}
