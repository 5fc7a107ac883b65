package observ

import (
	"sync"
	"time"
)

// Phase records the duration and metadata of a pipeline phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the execution time of pipeline phases. Phases of files
// expanded in parallel may be recorded into one Timer.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Track starts a phase and returns the function that ends it.
func (t *Timer) Track(name string) func(note string) {
	idx := t.Begin(name)
	return func(note string) { t.End(idx, note) }
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report суммирует фазы с одинаковым именем; порядок по первому появлению.
// Заметка остаётся от последней фазы, у которой она была.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var (
		report Report
		total  time.Duration
		sums   []time.Duration
	)
	at := make(map[string]int)
	for _, p := range t.phases {
		total += p.Dur
		i, ok := at[p.Name]
		if !ok {
			i = len(report.Phases)
			at[p.Name] = i
			report.Phases = append(report.Phases, PhaseReport{Name: p.Name})
			sums = append(sums, 0)
		}
		sums[i] += p.Dur
		report.Phases[i].Count++
		if p.Note != "" {
			report.Phases[i].Note = p.Note
		}
	}
	for i := range report.Phases {
		report.Phases[i].DurationMS = millis(sums[i])
	}
	report.TotalMS = millis(total)
	return report
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
