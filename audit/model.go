// audit/model.go
package audit

import "time"

type EventType string

const (
	EventAccessDenied EventType = "ACCESS_DENIED"
	EventDecrypt      EventType = "DECRYPT"
	EventEncrypt      EventType = "ENCRYPT"
)

type Outcome string

const (
	OutcomeAllow Outcome = "ALLOW"
	OutcomeDeny  Outcome = "DENY"
)

// Event is one immutable entry of the compliance audit trail.
type Event struct {
	EventType          EventType              `json:"eventType"`
	Timestamp          time.Time              `json:"timestamp"`
	RequestID          string                 `json:"requestId"`
	Subject            string                 `json:"subject"`
	Action             string                 `json:"action"`
	ResourceID         string                 `json:"resourceId"`
	Outcome            Outcome                `json:"outcome"`
	Reason             string                 `json:"reason,omitempty"`
	SubjectAttributes  map[string]interface{} `json:"subjectAttributes,omitempty"`
	ResourceAttributes map[string]interface{} `json:"resourceAttributes,omitempty"`
	PolicyEvaluation   map[string]interface{} `json:"policyEvaluation,omitempty"`
	Context            map[string]interface{} `json:"context,omitempty"`
	LatencyMs          int64                  `json:"latencyMs"`
}
