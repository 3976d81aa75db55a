package build

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"
	cbtypes "github.com/aws/aws-sdk-go-v2/service/codebuild/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   cbtypes.StatusType
		expected CheckState
	}{
		{"succeeded", cbtypes.StatusTypeSucceeded, CheckSucceeded},
		{"failed", cbtypes.StatusTypeFailed, CheckFailed},
		{"fault", cbtypes.StatusTypeFault, CheckFailed},
		{"timed out", cbtypes.StatusTypeTimedOut, CheckFailed},
		{"stopped", cbtypes.StatusTypeStopped, CheckFailed},
		{"in progress", cbtypes.StatusTypeInProgress, CheckRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockCodeBuildClient{
				batchOut: &codebuild.BatchGetBuildsOutput{
					Builds: []cbtypes.Build{{BuildStatus: tt.status}},
				},
			}

			s := newTestStarter(t, client)
			res, err := s.CheckStatus(context.Background(), "p1:abc")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.State)
			assert.Contains(t, res.Message, string(tt.status))
		})
	}
}

func TestCheckStatus_IncludesPhase(t *testing.T) {
	client := &mockCodeBuildClient{
		batchOut: &codebuild.BatchGetBuildsOutput{
			Builds: []cbtypes.Build{{
				BuildStatus:  cbtypes.StatusTypeInProgress,
				CurrentPhase: aws.String("PROVISIONING"),
			}},
		},
	}

	s := newTestStarter(t, client)
	res, err := s.CheckStatus(context.Background(), "p1:abc")
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS (PROVISIONING)", res.Message)
}

func TestCheckStatus_NotFound(t *testing.T) {
	client := &mockCodeBuildClient{
		batchOut: &codebuild.BatchGetBuildsOutput{},
	}

	s := newTestStarter(t, client)
	_, err := s.CheckStatus(context.Background(), "p1:missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCheckStatus_MissingID(t *testing.T) {
	s := newTestStarter(t, &mockCodeBuildClient{})
	_, err := s.CheckStatus(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build id is required")
}

func TestLogLocation(t *testing.T) {
	client := &mockCodeBuildClient{
		batchOut: &codebuild.BatchGetBuildsOutput{
			Builds: []cbtypes.Build{{
				Logs: &cbtypes.LogsLocation{
					GroupName:  aws.String("/aws/codebuild/p1"),
					StreamName: aws.String("f6e4ea2f"),
				},
			}},
		},
	}

	s := newTestStarter(t, client)
	group, stream, err := s.LogLocation(context.Background(), "p1:abc")
	require.NoError(t, err)
	assert.Equal(t, "/aws/codebuild/p1", group)
	assert.Equal(t, "f6e4ea2f", stream)
}

func TestLogLocation_NotProvisionedYet(t *testing.T) {
	client := &mockCodeBuildClient{
		batchOut: &codebuild.BatchGetBuildsOutput{
			Builds: []cbtypes.Build{{BuildStatus: cbtypes.StatusTypeInProgress}},
		},
	}

	s := newTestStarter(t, client)
	group, stream, err := s.LogLocation(context.Background(), "p1:abc")
	require.NoError(t, err)
	assert.Empty(t, group)
	assert.Empty(t, stream)
}
