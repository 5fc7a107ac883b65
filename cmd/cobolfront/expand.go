package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cobolfront/internal/copybook"
	"cobolfront/internal/diag"
	"cobolfront/internal/driver"
	"cobolfront/internal/trace"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] <program|directory>",
	Short: "Expand copybooks of a COBOL program or of every program in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func init() {
	addSessionFlags(expandCmd)
	expandCmd.Flags().String("format", "text", "output format (text|json)")
	expandCmd.Flags().Int("jobs", 0, "max parallel programs (0=auto)")
	expandCmd.Flags().Bool("disk-cache", false, "reuse expansions cached on disk")
	expandCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	expandCmd.Flags().Bool("watch", false, "re-expand when copybooks change")
	expandCmd.Flags().Bool("diagnostics-only", false, "print diagnostics without the expanded text")
	expandCmd.Flags().Bool("fullpath", false, "emit absolute file paths in diagnostics")
	expandCmd.Flags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
	expandCmd.Flags().Bool("warnings-as-errors", false, "exit with failure when warnings are reported")
}

type expandFlags struct {
	format          string
	jobs            int
	diskCache       bool
	ui              uiMode
	watch           bool
	diagnosticsOnly bool
	fullPath        bool
	minSeverity     diag.Severity
	warnErrors      bool
	maxDiagnostics  int
	timings         bool
}

func readExpandFlags(cmd *cobra.Command) (expandFlags, error) {
	var f expandFlags
	var err error
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	f.format = strings.ToLower(f.format)
	if f.format != "text" && f.format != "json" {
		return f, fmt.Errorf("unsupported format %q (must be text or json)", f.format)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.diskCache, err = cmd.Flags().GetBool("disk-cache"); err != nil {
		return f, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.watch, err = cmd.Flags().GetBool("watch"); err != nil {
		return f, fmt.Errorf("failed to get watch flag: %w", err)
	}
	if f.diagnosticsOnly, err = cmd.Flags().GetBool("diagnostics-only"); err != nil {
		return f, fmt.Errorf("failed to get diagnostics-only flag: %w", err)
	}
	if f.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	sevValue, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return f, fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	var ok bool
	if f.minSeverity, ok = diag.ParseSeverity(sevValue); !ok {
		return f, fmt.Errorf("unsupported severity %q (must be info, warning or error)", sevValue)
	}
	if f.warnErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return f, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return f, nil
}

func runExpand(cmd *cobra.Command, args []string) error {
	target := args[0]
	flags, err := readExpandFlags(cmd)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return err
	}
	paths := []string{target}
	if st.IsDir() {
		if paths, err = driver.ListPrograms(target); err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no COBOL programs in %s", target)
		}
	}

	sess, err := openSession(cmd, target)
	if err != nil {
		return err
	}
	opts := driver.Options{
		Provider:       sess.provider,
		Dialects:       sess.dialects,
		Enabled:        sess.enabled,
		Config:         sess.config,
		Jobs:           flags.jobs,
		MaxDiagnostics: flags.maxDiagnostics,
		Timings:        flags.timings,
	}
	if flags.diskCache {
		if opts.Cache, err = driver.OpenDiskCache("cobolfront"); err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	out := newPrinter(cmd, flags, sess)
	ctx := cmd.Context()
	useUI := st.IsDir() && flags.format == "text" && !flags.watch && shouldUseTUI(flags.ui)

	results, err := expandOnce(ctx, paths, opts, useUI)
	if err != nil {
		return err
	}
	failed := out.print(results)

	if flags.watch {
		return watch(ctx, paths, opts, out)
	}
	if failed {
		return errFailed
	}
	return nil
}

func expandOnce(ctx context.Context, paths []string, opts driver.Options, useUI bool) ([]driver.FileResult, error) {
	if useUI {
		return runExpandWithUI(ctx, "expand", paths, opts)
	}
	return driver.ExpandFiles(ctx, paths, opts)
}

// watch re-expands every program whenever a copybook in the provider's
// folders changes, until ctx is cancelled.
func watch(ctx context.Context, paths []string, opts driver.Options, out *printer) error {
	provider, ok := opts.Provider.(*copybook.FolderProvider)
	if !ok {
		return fmt.Errorf("watch needs copybook folders")
	}
	w, err := copybook.NewWatcher(provider)
	if err != nil {
		return fmt.Errorf("failed to watch copybook folders: %w", err)
	}
	defer w.Close()

	fmt.Fprintf(out.diagOut, "watching %s\n", strings.Join(provider.Folders(), ", "))
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			fmt.Fprintf(out.diagOut, "watch: %v\n", err)
		case name, ok := <-w.Changes():
			if !ok {
				return nil
			}
			changed := collectChanges(ctx, w, name)
			trace.Point(ctx, trace.ScopeDriver, "copybooks_changed", strings.Join(changed, ","))
			fmt.Fprintf(out.diagOut, "changed: %s\n", strings.Join(changed, ", "))
			results, err := driver.ExpandFiles(ctx, paths, opts)
			if err != nil {
				return nil
			}
			out.print(results)
		}
	}
}

// collectChanges gathers bursts of file events (editors write several times)
// into one rebuild.
func collectChanges(ctx context.Context, w *copybook.Watcher, first string) []string {
	names := []string{first}
	timer := time.NewTimer(150 * time.Millisecond)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return names
		case <-timer.C:
			return names
		case name, ok := <-w.Changes():
			if !ok {
				return names
			}
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
}
