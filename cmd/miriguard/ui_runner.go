package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"miriguard/internal/pipeline"
	"miriguard/internal/ui"
)

type runOutcome struct {
	result pipeline.Result
	err    error
}

func runWithUI(ctx context.Context, title string, req *pipeline.Request) (pipeline.Result, error) {
	return runWithProgress(ctx, req, func(events <-chan pipeline.Event) error {
		model := ui.NewProgressModel(title, events)
		program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
		_, err := program.Run()
		return err
	})
}

// runWithProgress runs the pipeline in the background and feeds its events
// to show. Events left unread when show returns are drained so the run can
// finish.
func runWithProgress(ctx context.Context, req *pipeline.Request, show func(<-chan pipeline.Event) error) (pipeline.Result, error) {
	if req == nil {
		return pipeline.Result{}, fmt.Errorf("missing run request")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Run(ctx, &reqCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := show(events)
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
