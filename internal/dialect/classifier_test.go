package dialect

import (
	"testing"

	"cobolfront/internal/source"
)

func TestClassifierPicksDominantDialect(t *testing.T) {
	e := NewEvidence()
	e.Add(Hint{Dialect: DaCoName, Score: 6})
	e.Add(Hint{Dialect: IDMSName, Score: 5})
	e.Add(Hint{Dialect: IDMSName, Score: 4})
	e.Add(Hint{Dialect: "", Score: 9})

	c := Classifier{}.Classify(e)
	if c.Dialect != IDMSName || c.Score != 9 || c.TotalScore != 15 {
		t.Fatalf("classification = %+v", c)
	}
	if c.RunnerUp != DaCoName || c.RunnerUpScore != 6 || c.ObservedSignals != 4 {
		t.Fatalf("runner-up = %+v", c)
	}
}

func TestClassifierEmpty(t *testing.T) {
	if c := (Classifier{}).Classify(nil); c.Dialect != "" {
		t.Fatalf("classification = %+v", c)
	}
}

func TestCollectFindsStatements(t *testing.T) {
	e := Collect("file:///p.cbl", "       copy maid X.\n       DISPLAY 'COPY IDMS'.")
	hints := e.Hints()
	if len(hints) != 2 {
		t.Fatalf("hints = %+v", hints)
	}
	want := source.Location{URI: "file:///p.cbl", Range: source.NewRange(0, 7, 0, 15)}
	if hints[0].Dialect != DaCoName || hints[0].Location != want {
		t.Fatalf("first hint = %+v", hints[0])
	}
}
