package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bretttully/polyfuzz/internal/fuzz"
	"github.com/bretttully/polyfuzz/internal/ui"
)

type fuzzOutcome struct {
	table fuzz.Table
	err   error
}

// runFuzzWithUI drives one fuzzing run behind a live terminal view. The
// driver runs in a goroutine feeding seed-completion events into the UI
// model; closing the channel tells the model to quit.
func runFuzzWithUI(ctx context.Context, title string, opts fuzz.Options) (fuzz.Table, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan fuzz.Event, 256)
	outcomeCh := make(chan fuzzOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		table, err := fuzz.Run(ctx, optsCopy)
		outcomeCh <- fuzzOutcome{table: table, err: err}
		close(events)
	}()

	model := ui.NewFuzzModel(title, opts.Seeds, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// Если UI вышел раньше драйвера (Ctrl+C), никто больше не читает
	// events: снимаем контекст, чтобы драйвер не завис на отправке.
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.table, uiErr
	}
	return outcome.table, outcome.err
}
