package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"approxc/internal/buildpipeline"
	"approxc/internal/driver"
	"approxc/internal/ui"
)

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

// runCheckWithUI checks paths in the background while a Bubble Tea program
// renders per-unit progress; files are the display names of paths.
func runCheckWithUI(ctx context.Context, title string, files, paths []string, opts driver.Options) (*driver.CheckResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.CheckPaths(ctx, paths, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// программа могла выйти раньше (ctrl+c); дочитываем события, чтобы
	// проверка не заблокировалась на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
