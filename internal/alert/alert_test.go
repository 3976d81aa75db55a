package alert

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deploykit/stackhook/pkg/types"
)

type recordingSink struct {
	name string
	got  []types.Alert
	err  error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Send(_ context.Context, a types.Alert) error {
	s.got = append(s.got, a)
	return s.err
}

func TestDispatcher_SendsToAllSinks(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := NewDispatcher(logger)

	s1 := &recordingSink{name: "one"}
	s2 := &recordingSink{name: "two"}
	d.AddSink(s1)
	d.AddSink(s2)

	a := types.Alert{Level: types.AlertLevelError, Message: "boom"}
	d.Dispatch(context.Background(), a)

	assert.Len(t, s1.got, 1)
	assert.Len(t, s2.got, 1)
}

func TestDispatcher_SinkFailureDoesNotStopOthers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := NewDispatcher(logger)

	failing := &recordingSink{name: "bad", err: assert.AnError}
	ok := &recordingSink{name: "good"}
	d.AddSink(failing)
	d.AddSink(ok)

	d.Dispatch(context.Background(), types.Alert{Message: "boom"})
	assert.Len(t, ok.got, 1)
}

func TestConsoleSink_Send(t *testing.T) {
	sink := NewConsoleSink(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, sink.Send(context.Background(), types.Alert{Message: "hi"}))
	assert.Equal(t, "console", sink.Name())
}
