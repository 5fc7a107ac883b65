package fuzztests

import (
	"context"
	"testing"
	"time"

	"cobolfront/internal/copybook"
	"cobolfront/internal/dialect"
	"cobolfront/internal/preprocess"
	"cobolfront/internal/testkit"
)

// analyzeTimeout is the maximum time allowed for one program. Longer runs
// point at an expansion that never terminates.
const analyzeTimeout = 5 * time.Second

func FuzzAnalyzeNoHang(f *testing.F) {
	addCorpusSeeds(f)
	dialects := dialect.NewService(nil, dialect.Builtins()...)

	f.Fuzz(func(t *testing.T, input []byte) {
		text := clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		done := make(chan *preprocess.Result, 1)
		go func() {
			p := preprocess.New(copybook.NewMapProvider(copybooks), dialects, []string{dialect.IDMSName, dialect.DaCoName})
			done <- p.Analyze(ctx, "file:///fuzz.cbl", text, copybook.Config{MaxNameLength: 8})
		}()

		select {
		case res := <-done:
			if err := testkit.CheckMappingInvariants(res.Document); err != nil {
				t.Fatalf("mapping invariant broken: %v\ninput: %q", err, truncateForLog(text, 200))
			}
		case <-ctx.Done():
			t.Fatalf("preprocessor hang detected: took longer than %v\ninput (%d bytes): %q",
				analyzeTimeout, len(text), truncateForLog(text, 200))
		}
	})
}
