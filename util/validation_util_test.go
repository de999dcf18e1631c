// util/validation_util_test.go
package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dive25/pep/model"
	pdp_model "github.com/dive25/pep/pdp/model"
	"github.com/dive25/pep/util"
)

func TestValidateSecurityAttributes(t *testing.T) {
	v := util.NewValidationUtil()

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, v.ValidateSecurityAttributes(model.SecurityAttributes{
			Classification:  "SECRET",
			ReleasabilityTo: []string{"USA", "GBR"},
			COI:             []string{"OpAlpha"},
			COIOperator:     model.COIOperatorAll,
		}))
	})

	t.Run("EmptyClassification", func(t *testing.T) {
		assert.Error(t, v.ValidateSecurityAttributes(model.SecurityAttributes{}))
	})

	t.Run("UnknownClassification", func(t *testing.T) {
		assert.Error(t, v.ValidateSecurityAttributes(model.SecurityAttributes{
			Classification: "ULTRA",
		}))
	})

	t.Run("BadCOIOperator", func(t *testing.T) {
		assert.Error(t, v.ValidateSecurityAttributes(model.SecurityAttributes{
			Classification: "SECRET",
			COI:            []string{"OpAlpha"},
			COIOperator:    "SOME",
		}))
	})

	t.Run("COIWithoutOperator", func(t *testing.T) {
		assert.Error(t, v.ValidateSecurityAttributes(model.SecurityAttributes{
			Classification: "SECRET",
			COI:            []string{"OpAlpha"},
		}))
	})

	t.Run("NonTrigraphReleasability", func(t *testing.T) {
		assert.Error(t, v.ValidateSecurityAttributes(model.SecurityAttributes{
			Classification:  "SECRET",
			ReleasabilityTo: []string{"US"},
		}))
	})
}

func TestValidateEvaluationRequest(t *testing.T) {
	v := util.NewValidationUtil()

	valid := pdp_model.EvaluationRequest{
		Input: pdp_model.EvaluationInput{
			Subject:  pdp_model.Subject{UniqueID: "jdoe@mil"},
			Action:   pdp_model.Action{Operation: "read"},
			Resource: pdp_model.Resource{ResourceID: "doc-1"},
			Context:  pdp_model.Context{RequestID: "req-1"},
		},
	}
	assert.NoError(t, v.ValidateEvaluationRequest(valid))

	missingSubject := valid
	missingSubject.Input.Subject.UniqueID = ""
	assert.Error(t, v.ValidateEvaluationRequest(missingSubject))

	missingOperation := valid
	missingOperation.Input.Action.Operation = ""
	assert.Error(t, v.ValidateEvaluationRequest(missingOperation))

	missingResource := valid
	missingResource.Input.Resource.ResourceID = ""
	assert.Error(t, v.ValidateEvaluationRequest(missingResource))

	missingRequestID := valid
	missingRequestID.Input.Context.RequestID = ""
	assert.Error(t, v.ValidateEvaluationRequest(missingRequestID))
}
