// model/resource.go
package model

import (
	"encoding/json"
	"fmt"
)

// COIOperator semantics for a resource's community-of-interest list.
const (
	COIOperatorAll = "ALL"
	COIOperatorAny = "ANY"
)

const ClassificationUnclassified = "UNCLASSIFIED"

// SecurityAttributes is the security label of a resource. The PEP reads it
// per request and never mutates it.
type SecurityAttributes struct {
	Classification         string   `json:"classification"`
	OriginalClassification string   `json:"originalClassification,omitempty"`
	OriginalCountry        string   `json:"originalCountry,omitempty"`
	NATOEquivalent         string   `json:"natoEquivalent,omitempty"`
	ReleasabilityTo        []string `json:"releasabilityTo,omitempty"`
	COI                    []string `json:"COI,omitempty"`
	COIOperator            string   `json:"coiOperator,omitempty"`
	CreationDate           string   `json:"creationDate,omitempty"`
	Encrypted              bool     `json:"encrypted"`
}

// Resource is the subset of the resource store's object the PEP cares about.
type Resource struct {
	ID       string             `json:"resourceId"`
	Name     string             `json:"name,omitempty"`
	Type     string             `json:"type,omitempty"`
	URI      string             `json:"uri,omitempty"`
	Security SecurityAttributes `json:"securityLabel"`
}

// IsClassified reports whether the resource carries a classification above
// UNCLASSIFIED. An unlabelled resource is treated as unclassified.
func (s SecurityAttributes) IsClassified() bool {
	return s.Classification != "" && s.Classification != ClassificationUnclassified
}

// SecurityAttributesFromMap builds a security label from a resource
// provider record. Providers return either a structured label under a
// "securityLabel" (or "security") key, or the same fields flattened onto
// the record itself (the legacy shape); both are tolerated.
func SecurityAttributesFromMap(props map[string]interface{}) (SecurityAttributes, error) {
	if nested, ok := props["securityLabel"]; ok {
		return securityAttributesFromValue(nested)
	}
	if nested, ok := props["security"]; ok {
		return securityAttributesFromValue(nested)
	}
	return securityAttributesFromValue(props)
}

func securityAttributesFromValue(value interface{}) (SecurityAttributes, error) {
	var attrs SecurityAttributes

	switch v := value.(type) {
	case string:
		// Stores that keep the label as a serialized JSON property.
		if err := json.Unmarshal([]byte(v), &attrs); err != nil {
			return attrs, fmt.Errorf("unparseable security label: %w", err)
		}
	case map[string]interface{}:
		raw, err := json.Marshal(v)
		if err != nil {
			return attrs, err
		}
		if err := json.Unmarshal(raw, &attrs); err != nil {
			return attrs, fmt.Errorf("unparseable security label: %w", err)
		}
	default:
		return attrs, fmt.Errorf("unsupported security label type: %T", value)
	}

	if attrs.COIOperator == "" && len(attrs.COI) > 0 {
		attrs.COIOperator = COIOperatorAny
	}
	return attrs, nil
}
