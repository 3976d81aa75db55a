// Package cfn implements the CloudFormation custom-resource request and
// response protocol.
package cfn

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deploykit/stackhook/pkg/types"
)

// LifecycleEvent is the request CloudFormation delivers to a custom-resource
// handler for a stack lifecycle operation. Supplied whole per invocation;
// never persisted.
type LifecycleEvent struct {
	RequestType        types.RequestType      `json:"RequestType"`
	LogicalResourceID  string                 `json:"LogicalResourceId"`
	RequestID          string                 `json:"RequestId"`
	StackID            string                 `json:"StackId"`
	PhysicalResourceID string                 `json:"PhysicalResourceId,omitempty"`
	ResourceType       string                 `json:"ResourceType,omitempty"`
	ResponseURL        string                 `json:"ResponseURL"`
	ResourceProperties map[string]interface{} `json:"ResourceProperties"`
}

// legacyCallbackKey is the misspelled property name the original handler
// checked when deciding whether to suppress the Update response. Retained
// behind dispatch.WithLegacyUpdateCallbackKey.
const legacyCallbackKey = "CodeBuildCalback"

// Properties is the typed form of the free-form resource property map.
// All boolean fields default to false when absent.
type Properties struct {
	ProjectName       string
	BuildOnDelete     bool
	CodeBuildCallback bool
	IgnoreUpdate      bool

	// LegacyCallback is the value found under the misspelled
	// "CodeBuildCalback" key.
	LegacyCallback bool
}

// ParseProperties decodes the resource property map once at the entry point.
// CloudFormation serializes property booleans as the strings "true"/"false";
// native bools are accepted too. Unknown keys are ignored.
func ParseProperties(raw map[string]interface{}) Properties {
	return Properties{
		ProjectName:       stringProp(raw, "ProjectName"),
		BuildOnDelete:     boolProp(raw, "BuildOnDelete"),
		CodeBuildCallback: boolProp(raw, "CodeBuildCallback"),
		IgnoreUpdate:      boolProp(raw, "IgnoreUpdate"),
		LegacyCallback:    boolProp(raw, legacyCallbackKey),
	}
}

func stringProp(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

func boolProp(raw map[string]interface{}, key string) bool {
	switch v := raw[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

// EventData is the document injected as CFN_EVENT_DATA when a build job
// assumes responsibility for the response: everything the job needs to
// assemble the payload itself.
type EventData struct {
	LogicalResourceID string                 `json:"LogicalResourceId"`
	RequestID         string                 `json:"RequestId"`
	StackID           string                 `json:"StackId"`
	NoEcho            bool                   `json:"NoEcho"`
	Data              map[string]interface{} `json:"Data"`
}

// EncodeEventData serializes the delegation payload for an event.
func EncodeEventData(ev LifecycleEvent) (string, error) {
	data, err := json.Marshal(EventData{
		LogicalResourceID: ev.LogicalResourceID,
		RequestID:         ev.RequestID,
		StackID:           ev.StackID,
		Data:              map[string]interface{}{},
	})
	if err != nil {
		return "", fmt.Errorf("encoding event data: %w", err)
	}
	return string(data), nil
}

// PhysicalID returns the physical resource id to report when no
// build-derived id is available. CloudFormation requires a non-null id even
// on failure, so fall back to the logical id for Create-time faults.
func (e LifecycleEvent) PhysicalID() string {
	if e.PhysicalResourceID != "" {
		return e.PhysicalResourceID
	}
	return e.LogicalResourceID
}
