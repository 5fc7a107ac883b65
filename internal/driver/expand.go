// Package driver runs the preprocessor over many programs at once.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cobolfront/internal/copybook"
	"cobolfront/internal/diag"
	"cobolfront/internal/dialect"
	"cobolfront/internal/mapping"
	"cobolfront/internal/observ"
	"cobolfront/internal/preprocess"
	"cobolfront/internal/project"
	"cobolfront/internal/source"
	"cobolfront/internal/syntax"
	"cobolfront/internal/trace"
)

// ProgramExtensions are the file extensions ListPrograms picks up.
var ProgramExtensions = []string{".cbl", ".cob", ".cobol"}

// Options configures one ExpandFiles run. Provider must be safe for
// concurrent use.
type Options struct {
	Provider copybook.ContentProvider
	Dialects *dialect.Service
	Enabled  []string
	Config   copybook.Config

	// Jobs limits parallel files; <= 0 means GOMAXPROCS.
	Jobs int

	// MaxDiagnostics caps each file's bag; <= 0 means no cap.
	MaxDiagnostics int

	// Timings adds an ObsTimings diagnostic to every file.
	Timings bool

	Cache    *DiskCache
	Progress ProgressSink
}

// FileResult is the outcome for one program. Document is nil when the
// result came from the disk cache.
type FileResult struct {
	Path      string
	URI       string
	Source    string
	Expanded  string
	Document  *mapping.Document
	Copybooks *copybook.Repository
	Nodes     []syntax.Node
	Bag       *diag.Bag
	Cached    bool
	Timing    observ.Report
}

// ListPrograms returns the sorted COBOL programs under dir.
func ListPrograms(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if slices.Contains(ProgramExtensions, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}

// ExpandFiles preprocesses every path in parallel. Results keep the order of
// paths. The returned error is only ever a cancellation; per-file problems
// are diagnostics in the file's bag.
func ExpandFiles(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	span, ctx := trace.Start(ctx, trace.ScopeDriver, "expand_files")
	defer span.End(fmt.Sprintf("%d files", len(paths)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = expandFile(gctx, path, &opts)
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

func expandFile(ctx context.Context, path string, opts *Options) (res FileResult) {
	ctx = trace.WithDocument(ctx, filepath.Base(path))
	span, ctx := trace.Start(ctx, trace.ScopeDocument, "file")
	defer span.End(path)

	limit := opts.MaxDiagnostics
	if limit <= 0 {
		limit = math.MaxUint16
	}
	res = FileResult{
		Path:      path,
		URI:       source.PathToURI(path),
		Copybooks: copybook.NewRepository(),
		Bag:       diag.NewBag(limit),
	}
	timer := observ.NewTimer()
	started := time.Now()

	stage := StageRead
	defer func() {
		// сбой маппинга, дошедший до верха, становится диагностикой
		if r := recover(); r != nil {
			res.Bag.Add(diag.NewError(diag.MapLocationUnavailable, source.Location{URI: res.URI},
				fmt.Sprintf("expansion aborted: %v", r)))
			emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: fmt.Errorf("%v", r), Elapsed: time.Since(started)})
		}
		res.Timing = timer.Report()
		if opts.Timings {
			appendTimingDiagnostic(res.Bag, res.URI, timingPayload{
				Path:    path,
				Cached:  res.Cached,
				TotalMS: res.Timing.TotalMS,
				Phases:  res.Timing.Phases,
			})
		}
	}()

	emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})
	done := timer.Track("read")
	data, err := os.ReadFile(path)
	if err != nil {
		done("failed")
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Location{URI: res.URI}, "failed to load file: "+err.Error()))
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return res
	}
	data, _ = source.RemoveBOM(data)
	res.Source = string(data)
	done(fmt.Sprintf("%d bytes", len(data)))

	var key project.Digest
	if opts.Cache != nil {
		stage = StageCache
		emit(opts.Progress, Event{File: path, Stage: StageCache, Status: StatusWorking})
		done = timer.Track("cache")
		key = cacheKey(data, opts)
		if payload, ok := opts.Cache.Lookup(key); ok {
			done("hit")
			res.Cached = true
			res.Expanded = payload.Expanded
			res.Copybooks = copybook.RepositoryFromEntries(payload.Entries)
			res.Nodes = payload.Nodes
			res.Bag.AddAll(payload.Diagnostics)
			trace.Point(ctx, trace.ScopeDocument, "cache_hit", path)
			emit(opts.Progress, Event{File: path, Stage: StageCache, Status: StatusDone, Elapsed: time.Since(started)})
			return res
		}
		done("miss")
	}

	if err := ctx.Err(); err != nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Location{URI: res.URI}, "expansion cancelled: "+err.Error()))
		emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return res
	}

	stage = StageExpand
	emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: StatusWorking})
	done = timer.Track("expand")
	pre := preprocess.New(opts.Provider, opts.Dialects, opts.Enabled)
	out := pre.Analyze(ctx, res.URI, res.Source, opts.Config)
	done(fmt.Sprintf("%d copybooks", len(out.Copybooks.UsedNames())))

	res.Document = out.Document
	res.Expanded = out.Document.String()
	res.Copybooks = out.Copybooks
	res.Nodes = out.Nodes
	res.Bag.AddAll(out.Diagnostics)

	if opts.Cache != nil {
		done = timer.Track("store")
		if payload, ok := toPayload(&res); ok {
			if err := opts.Cache.Put(key, payload); err != nil {
				trace.Point(ctx, trace.ScopeDocument, "cache_store_failed", err.Error())
			}
			done("stored")
		} else {
			done("skipped")
		}
	}

	emit(opts.Progress, Event{File: path, Stage: StageExpand, Status: StatusDone, Elapsed: time.Since(started)})
	return res
}
