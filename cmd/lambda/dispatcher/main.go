// dispatcher Lambda handles CloudFormation custom-resource lifecycle events
// by starting CodeBuild jobs and reporting status to the stack's pre-signed
// response URL.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/oklog/ulid/v2"

	"github.com/deploykit/stackhook/internal/cfn"
	intlambda "github.com/deploykit/stackhook/internal/lambda"
	"github.com/deploykit/stackhook/internal/metrics"
	"github.com/deploykit/stackhook/pkg/types"
)

// handleEvent dispatches one lifecycle event, sends the response payload
// when one was produced, and returns the fault (if any) so the Lambda
// runtime also records the invocation as failed. Double-signalling is
// intentional: CloudFormation needs the FAILED payload, the runtime's own
// failure telemetry needs the returned error.
func handleEvent(ctx context.Context, d *intlambda.Deps, ev cfn.LifecycleEvent) error {
	metrics.DispatchesTotal.Add(1)

	logger := d.Logger.With(
		"dispatchId", ulid.Make().String(),
		"requestType", ev.RequestType,
		"logicalId", ev.LogicalResourceID,
		"stackId", ev.StackID)
	logger.Info("dispatching lifecycle event")

	out := d.Dispatcher.Dispatch(ctx, ev)

	if out.Response == nil && out.Err == nil {
		// The build job owns the response for this event.
		metrics.BuildsDelegated.Add(1)
		logger.Info("response delegated to build job")
		return nil
	}

	if out.Response != nil {
		if err := d.Responder.Send(ctx, ev.ResponseURL, out.Response); err != nil {
			metrics.ResponsesFailed.Add(1)
			logger.Error("sending response failed", "error", err)
			d.AlertFn(ctx, types.Alert{
				Level:     types.AlertLevelError,
				StackID:   ev.StackID,
				LogicalID: ev.LogicalResourceID,
				Message:   fmt.Sprintf("Response delivery failed for %s: %v", ev.LogicalResourceID, err),
				Timestamp: time.Now(),
			})
			return fmt.Errorf("sending response: %w", err)
		}
		metrics.ResponsesSent.Add(1)
		logger.Info("response sent", "status", out.Response.Status, "reason", out.Response.Reason)
	}

	if out.Err != nil {
		metrics.DispatchFailures.Add(1)
		d.AlertFn(ctx, types.Alert{
			Level:     types.AlertLevelError,
			StackID:   ev.StackID,
			LogicalID: ev.LogicalResourceID,
			Message:   fmt.Sprintf("Dispatch failed for %s: %v", ev.LogicalResourceID, out.Err),
			Timestamp: time.Now(),
		})
		return out.Err
	}
	return nil
}

func handler(ctx context.Context, ev cfn.LifecycleEvent) error {
	d, err := intlambda.GetDeps(ctx)
	if err != nil {
		return err
	}
	return handleEvent(ctx, d, ev)
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	awslambda.Start(handler)
}
