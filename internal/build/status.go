package build

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/codebuild"
	cbtypes "github.com/aws/aws-sdk-go-v2/service/codebuild/types"
)

// CheckState classifies a build's current status.
type CheckState string

// CheckState values.
const (
	CheckRunning   CheckState = "RUNNING"
	CheckSucceeded CheckState = "SUCCEEDED"
	CheckFailed    CheckState = "FAILED"
)

// StatusResult is the outcome of a status check.
type StatusResult struct {
	State   CheckState
	Message string
}

// CheckStatus looks up a build by id and classifies its status.
func (s *Starter) CheckStatus(ctx context.Context, buildID string) (StatusResult, error) {
	b, err := s.getBuild(ctx, buildID)
	if err != nil {
		return StatusResult{}, err
	}

	msg := string(b.BuildStatus)
	if b.CurrentPhase != nil {
		msg = fmt.Sprintf("%s (%s)", b.BuildStatus, *b.CurrentPhase)
	}

	switch b.BuildStatus {
	case cbtypes.StatusTypeSucceeded:
		return StatusResult{State: CheckSucceeded, Message: msg}, nil
	case cbtypes.StatusTypeFailed, cbtypes.StatusTypeFault,
		cbtypes.StatusTypeTimedOut, cbtypes.StatusTypeStopped:
		return StatusResult{State: CheckFailed, Message: msg}, nil
	default:
		return StatusResult{State: CheckRunning, Message: msg}, nil
	}
}

// LogLocation returns the CloudWatch Logs group and stream for a build.
// Both are empty until CodeBuild has provisioned the stream.
func (s *Starter) LogLocation(ctx context.Context, buildID string) (group, stream string, err error) {
	b, err := s.getBuild(ctx, buildID)
	if err != nil {
		return "", "", err
	}
	if b.Logs == nil {
		return "", "", nil
	}
	if b.Logs.GroupName != nil {
		group = *b.Logs.GroupName
	}
	if b.Logs.StreamName != nil {
		stream = *b.Logs.StreamName
	}
	return group, stream, nil
}

func (s *Starter) getBuild(ctx context.Context, buildID string) (*cbtypes.Build, error) {
	if buildID == "" {
		return nil, fmt.Errorf("build status: build id is required")
	}

	out, err := s.client.BatchGetBuilds(ctx, &codebuild.BatchGetBuildsInput{
		Ids: []string{buildID},
	})
	if err != nil {
		return nil, fmt.Errorf("build status: BatchGetBuilds failed: %w", err)
	}
	if len(out.Builds) == 0 {
		return nil, fmt.Errorf("build status: build %q not found", buildID)
	}
	return &out.Builds[0], nil
}
