package cfn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProperties_Defaults(t *testing.T) {
	props := ParseProperties(map[string]interface{}{
		"ProjectName": "deploy-project",
	})

	assert.Equal(t, "deploy-project", props.ProjectName)
	assert.False(t, props.BuildOnDelete)
	assert.False(t, props.CodeBuildCallback)
	assert.False(t, props.IgnoreUpdate)
	assert.False(t, props.LegacyCallback)
}

func TestParseProperties_StringBools(t *testing.T) {
	// CloudFormation serializes property booleans as strings.
	props := ParseProperties(map[string]interface{}{
		"ProjectName":       "p1",
		"BuildOnDelete":     "true",
		"CodeBuildCallback": "True",
		"IgnoreUpdate":      "false",
	})

	assert.True(t, props.BuildOnDelete)
	assert.True(t, props.CodeBuildCallback)
	assert.False(t, props.IgnoreUpdate)
}

func TestParseProperties_NativeBools(t *testing.T) {
	props := ParseProperties(map[string]interface{}{
		"ProjectName":   "p1",
		"BuildOnDelete": true,
		"IgnoreUpdate":  false,
	})

	assert.True(t, props.BuildOnDelete)
	assert.False(t, props.IgnoreUpdate)
}

func TestParseProperties_LegacyKey(t *testing.T) {
	props := ParseProperties(map[string]interface{}{
		"ProjectName":      "p1",
		"CodeBuildCalback": "true",
	})

	assert.True(t, props.LegacyCallback)
	assert.False(t, props.CodeBuildCallback)
}

func TestParseProperties_NonStringProjectName(t *testing.T) {
	props := ParseProperties(map[string]interface{}{
		"ProjectName": 42,
	})
	assert.Empty(t, props.ProjectName)
}

func TestEncodeEventData(t *testing.T) {
	ev := LifecycleEvent{
		LogicalResourceID: "DeployResource",
		RequestID:         "req-1",
		StackID:           "arn:aws:cloudformation:us-east-1:123456789012:stack/s/abc",
	}

	encoded, err := EncodeEventData(ev)
	require.NoError(t, err)

	var data EventData
	require.NoError(t, json.Unmarshal([]byte(encoded), &data))
	assert.Equal(t, "DeployResource", data.LogicalResourceID)
	assert.Equal(t, "req-1", data.RequestID)
	assert.Equal(t, ev.StackID, data.StackID)
	assert.False(t, data.NoEcho)
	assert.NotNil(t, data.Data)
	assert.Empty(t, data.Data)
}

func TestPhysicalID_PrefersExisting(t *testing.T) {
	ev := LifecycleEvent{
		LogicalResourceID:  "Logical",
		PhysicalResourceID: "arn:aws:codebuild:us-east-1:123456789012:build/p1:1",
	}
	assert.Equal(t, ev.PhysicalResourceID, ev.PhysicalID())
}

func TestPhysicalID_FallsBackToLogical(t *testing.T) {
	ev := LifecycleEvent{LogicalResourceID: "Logical"}
	assert.Equal(t, "Logical", ev.PhysicalID())
}

func TestLifecycleEvent_UnmarshalWireFormat(t *testing.T) {
	raw := `{
		"RequestType": "Create",
		"ResponseURL": "https://cloudformation-custom-resource-response.example/cb",
		"StackId": "arn:aws:cloudformation:us-east-1:123456789012:stack/s/abc",
		"RequestId": "11111111-2222-3333-4444-555555555555",
		"LogicalResourceId": "DeployResource",
		"ResourceProperties": {
			"ServiceToken": "arn:aws:lambda:us-east-1:123456789012:function:dispatcher",
			"ProjectName": "deploy-project",
			"CodeBuildCallback": "true"
		}
	}`

	var ev LifecycleEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	assert.Equal(t, "Create", string(ev.RequestType))
	assert.Equal(t, "DeployResource", ev.LogicalResourceID)
	assert.Empty(t, ev.PhysicalResourceID)

	props := ParseProperties(ev.ResourceProperties)
	assert.Equal(t, "deploy-project", props.ProjectName)
	assert.True(t, props.CodeBuildCallback)
}
