package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cobolfront/internal/driver"
	"cobolfront/internal/ui"
)

type expandOutcome struct {
	results []driver.FileResult
	err     error
}

// runExpandWithUI expands in the background while the progress model
// renders the driver's events. Results are printed after the UI exits.
func runExpandWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]driver.FileResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan expandOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.ExpandFiles(ctx, files, opts)
		outcomeCh <- expandOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// события некому читать, пусть driver не блокируется
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
