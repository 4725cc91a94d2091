package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"scopetree/internal/buildpipeline"
	"scopetree/internal/ui"
)

var errIndexInterrupted = errors.New("index interrupted")

type indexOutcome struct {
	result buildpipeline.IndexResult
	err    error
}

// runIndexWithUI runs the index in the background and shows its progress
// until every file has finished.
func runIndexWithUI(ctx context.Context, title string, files []string, req *buildpipeline.IndexRequest) (buildpipeline.IndexResult, error) {
	if req == nil {
		return buildpipeline.IndexResult{}, fmt.Errorf("missing index request")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan buildpipeline.Event, 256)
	uiDone := make(chan struct{})
	outcomeCh := make(chan indexOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events, Done: uiDone}
		res, err := buildpipeline.Index(ctx, &reqCopy)
		outcomeCh <- indexOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	final, uiErr := program.Run()
	close(uiDone)
	interrupted := ui.Cancelled(final)
	if uiErr != nil || interrupted {
		// интерфейс закрыт (например, Ctrl+C): останавливаем сборку
		cancel()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	if interrupted {
		return outcome.result, errIndexInterrupted
	}
	return outcome.result, outcome.err
}
