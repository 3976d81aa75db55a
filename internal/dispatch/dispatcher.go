// Package dispatch maps stack lifecycle events to build invocations and
// response payloads.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deploykit/stackhook/internal/build"
	"github.com/deploykit/stackhook/internal/cfn"
	"github.com/deploykit/stackhook/pkg/types"
)

// BuildStarter starts one build job and returns its identifiers.
type BuildStarter interface {
	Start(ctx context.Context, project string, env []build.EnvOverride) (build.StartResult, error)
}

// Outcome is the result of dispatching one lifecycle event.
//
// Response is nil when the delegated build job owns the response for the
// event. A non-nil Err always accompanies a FAILED response; the caller
// sends the response and then re-signals the error to its own runtime so
// both the stack and the runtime's failure telemetry record the fault.
type Outcome struct {
	Response *cfn.Response
	Err      error
}

// Dispatcher routes lifecycle events to the build trigger service. It is
// stateless across invocations; every external call is attempted exactly
// once with no retry at any layer.
type Dispatcher struct {
	starter BuildStarter
	logger  *slog.Logger

	legacyUpdateCallbackKey bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher's logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithLegacyUpdateCallbackKey makes Update response suppression read the
// misspelled "CodeBuildCalback" property, reproducing the original
// handler's behavior (under which suppression effectively never triggered).
func WithLegacyUpdateCallbackKey() Option {
	return func(d *Dispatcher) { d.legacyUpdateCallbackKey = true }
}

// New creates a Dispatcher with the given build starter.
func New(starter BuildStarter, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		starter: starter,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch handles one lifecycle event and returns the response payload to
// send, if any, plus the fault to re-signal, if any.
func (d *Dispatcher) Dispatch(ctx context.Context, ev cfn.LifecycleEvent) Outcome {
	props := cfn.ParseProperties(ev.ResourceProperties)

	switch ev.RequestType {
	case types.RequestCreate:
		return d.handleCreate(ctx, ev, props)
	case types.RequestUpdate:
		return d.handleUpdate(ctx, ev, props)
	case types.RequestDelete:
		return d.handleDelete(ctx, ev, props)
	default:
		d.logger.Error("unsupported request type", "requestType", ev.RequestType)
		return Outcome{Response: cfn.NewResponse(ev, types.StatusFailed,
			fmt.Sprintf("unsupported request type %q", ev.RequestType), ev.PhysicalID())}
	}
}

// handleCreate always starts a build. The started build's ARN becomes the
// resource's physical id.
func (d *Dispatcher) handleCreate(ctx context.Context, ev cfn.LifecycleEvent, props cfn.Properties) Outcome {
	res, fail := d.startBuild(ctx, ev, props)
	if fail != nil {
		return *fail
	}
	if props.CodeBuildCallback {
		return Outcome{}
	}
	return Outcome{Response: cfn.NewResponse(ev, types.StatusSuccess,
		fmt.Sprintf("Started build #%d", res.Number), res.ARN)}
}

// handleUpdate behaves like Create but preserves the incoming physical id,
// so CloudFormation never sees a resource replacement.
func (d *Dispatcher) handleUpdate(ctx context.Context, ev cfn.LifecycleEvent, props cfn.Properties) Outcome {
	if props.IgnoreUpdate {
		return Outcome{Response: cfn.NewResponse(ev, types.StatusSuccess,
			"Update is a no-op", ev.PhysicalID())}
	}

	res, fail := d.startBuild(ctx, ev, props)
	if fail != nil {
		return *fail
	}

	delegate := props.CodeBuildCallback
	if d.legacyUpdateCallbackKey {
		delegate = props.LegacyCallback
	}
	if delegate {
		return Outcome{}
	}
	return Outcome{Response: cfn.NewResponse(ev, types.StatusSuccess,
		fmt.Sprintf("Started build #%d", res.Number), ev.PhysicalID())}
}

func (d *Dispatcher) handleDelete(ctx context.Context, ev cfn.LifecycleEvent, props cfn.Properties) Outcome {
	if !props.BuildOnDelete {
		return Outcome{Response: cfn.NewResponse(ev, types.StatusSuccess,
			"Delete is a no-op", ev.PhysicalID())}
	}

	if _, fail := d.startBuild(ctx, ev, props); fail != nil {
		return *fail
	}
	if props.CodeBuildCallback {
		return Outcome{}
	}
	return Outcome{Response: cfn.NewResponse(ev, types.StatusSuccess,
		"Deletion build initiated", ev.PhysicalID())}
}

// startBuild launches the build with the event metadata injected as
// plaintext environment overrides. The delegation payload and response URL
// are injected only when the build job will report for itself. On fault it
// returns a FAILED outcome carrying both the response and the error.
func (d *Dispatcher) startBuild(ctx context.Context, ev cfn.LifecycleEvent, props cfn.Properties) (build.StartResult, *Outcome) {
	env := []build.EnvOverride{
		{Name: types.EnvEventType, Value: string(ev.RequestType)},
	}
	if props.CodeBuildCallback {
		data, err := cfn.EncodeEventData(ev)
		if err != nil {
			return build.StartResult{}, d.failure(ev, err)
		}
		env = append(env,
			build.EnvOverride{Name: types.EnvEventData, Value: data},
			build.EnvOverride{Name: types.EnvResponseURL, Value: ev.ResponseURL},
		)
	}

	res, err := d.starter.Start(ctx, props.ProjectName, env)
	if err != nil {
		d.logger.Error("build start failed",
			"project", props.ProjectName, "requestType", ev.RequestType, "error", err)
		return build.StartResult{}, d.failure(ev, err)
	}

	d.logger.Info("build started",
		"project", props.ProjectName, "buildId", res.ID, "buildNumber", res.Number)
	return res, nil
}

func (d *Dispatcher) failure(ev cfn.LifecycleEvent, err error) *Outcome {
	return &Outcome{
		Response: cfn.NewResponse(ev, types.StatusFailed, err.Error(), ev.PhysicalID()),
		Err:      err,
	}
}
