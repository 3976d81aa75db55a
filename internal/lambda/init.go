// Package lambda provides shared dependencies and initialization for the
// dispatcher Lambda.
package lambda

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/deploykit/stackhook/internal/alert"
	"github.com/deploykit/stackhook/internal/build"
	"github.com/deploykit/stackhook/internal/cfn"
	"github.com/deploykit/stackhook/internal/dispatch"
	"github.com/deploykit/stackhook/pkg/types"
)

// AlertFunc delivers one alert. Best-effort; never blocks the dispatch path
// on failure.
type AlertFunc func(context.Context, types.Alert)

// Deps holds shared dependencies for the dispatcher Lambda.
type Deps struct {
	Dispatcher *dispatch.Dispatcher
	Responder  cfn.ResponseSender
	AlertFn    AlertFunc
	Logger     *slog.Logger
}

var (
	deps     *Deps
	depsOnce sync.Once
	depsErr  error
)

// GetDeps returns process-wide dependencies, initializing them once.
func GetDeps(ctx context.Context) (*Deps, error) {
	depsOnce.Do(func() {
		deps, depsErr = Init(ctx)
	})
	return deps, depsErr
}

// Init creates shared dependencies from environment variables.
// Reads: SNS_TOPIC_ARN (optional alert topic), LEGACY_UPDATE_CALLBACK_KEY
// (optional, restores the original Update callback-key lookup).
func Init(ctx context.Context) (*Deps, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	starter, err := build.NewStarter(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating build starter: %w", err)
	}

	dispatchOpts := []dispatch.Option{dispatch.WithLogger(logger)}
	if envBool("LEGACY_UPDATE_CALLBACK_KEY") {
		dispatchOpts = append(dispatchOpts, dispatch.WithLegacyUpdateCallbackKey())
	}

	var alertFn AlertFunc
	if topicARN := os.Getenv("SNS_TOPIC_ARN"); topicARN != "" {
		snsSink, err := alert.NewSNSSink(topicARN)
		if err != nil {
			return nil, fmt.Errorf("creating SNS sink: %w", err)
		}
		dispatcher := alert.NewDispatcher(logger)
		dispatcher.AddSink(snsSink)
		alertFn = dispatcher.AlertFunc()
	} else {
		sink := alert.NewConsoleSink(logger)
		alertFn = func(ctx context.Context, a types.Alert) {
			_ = sink.Send(ctx, a)
		}
	}

	return &Deps{
		Dispatcher: dispatch.New(starter, dispatchOpts...),
		Responder:  cfn.NewResponder(cfn.WithLogger(logger)),
		AlertFn:    alertFn,
		Logger:     logger,
	}, nil
}

func envBool(key string) bool {
	v := os.Getenv(key)
	return strings.EqualFold(v, "true") || v == "1"
}
