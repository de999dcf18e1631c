// util/validation_util.go

package util

import (
	"fmt"

	"github.com/dive25/pep/model"
	pdp_model "github.com/dive25/pep/pdp/model"
)

var knownClassifications = map[string]struct{}{
	"UNCLASSIFIED": {},
	"RESTRICTED":   {},
	"CONFIDENTIAL": {},
	"SECRET":       {},
	"TOP SECRET":   {},
}

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateSecurityAttributes(attrs model.SecurityAttributes) error {
	if attrs.Classification == "" {
		return fmt.Errorf("resource classification cannot be empty")
	}
	if _, ok := knownClassifications[attrs.Classification]; !ok {
		return fmt.Errorf("unknown classification level: %s", attrs.Classification)
	}
	if attrs.COIOperator != "" && attrs.COIOperator != model.COIOperatorAll && attrs.COIOperator != model.COIOperatorAny {
		return fmt.Errorf("COI operator must be either %q or %q", model.COIOperatorAll, model.COIOperatorAny)
	}
	if len(attrs.COI) > 0 && attrs.COIOperator == "" {
		return fmt.Errorf("COI list requires a COI operator")
	}
	for _, country := range attrs.ReleasabilityTo {
		if len(country) != 3 {
			return fmt.Errorf("releasability entry %q is not a trigraph country code", country)
		}
	}
	// Add more validation rules as needed
	return nil
}

func (v *ValidationUtil) ValidateEvaluationRequest(request pdp_model.EvaluationRequest) error {
	if request.Input.Subject.UniqueID == "" {
		return fmt.Errorf("evaluation request subject cannot be empty")
	}
	if request.Input.Action.Operation == "" {
		return fmt.Errorf("evaluation request operation cannot be empty")
	}
	if request.Input.Resource.ResourceID == "" {
		return fmt.Errorf("evaluation request resource cannot be empty")
	}
	if request.Input.Context.RequestID == "" {
		return fmt.Errorf("evaluation request requires a request ID")
	}
	return nil
}
