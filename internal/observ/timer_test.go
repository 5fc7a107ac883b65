package observ

import (
	"sync"
	"testing"
)

func TestReportAggregatesByName(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Track("clean")("")
			tm.Track("inject")("ok")
		}()
	}
	wg.Wait()
	tm.End(tm.Begin("dialects"), "IDMS")

	r := tm.Report()
	if len(r.Phases) != 3 {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.Phases[0].Name != "clean" || r.Phases[0].Count != 4 {
		t.Fatalf("first phase = %+v", r.Phases[0])
	}
	if r.Phases[1].Note != "ok" || r.Phases[2].Note != "IDMS" {
		t.Fatalf("notes = %+v", r.Phases)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total %v below a phase %v", r.TotalMS, r.Phases[0].DurationMS)
	}
}

func TestEmptyTimer(t *testing.T) {
	tm := NewTimer()
	tm.End(5, "ignored")
	if r := tm.Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Fatalf("report = %+v", r)
	}
}
