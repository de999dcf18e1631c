// token/assurance_test.go
package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pep_errors "github.com/dive25/pep/errors"
	"github.com/dive25/pep/model"
	"github.com/dive25/pep/token"
)

func TestValidateAssurance(t *testing.T) {
	secret := model.SecurityAttributes{Classification: "SECRET"}
	unclassified := model.SecurityAttributes{Classification: model.ClassificationUnclassified}

	t.Run("UnclassifiedSkipsCheck", func(t *testing.T) {
		identity := &model.VerifiedIdentity{} // no MFA evidence at all
		assert.NoError(t, token.ValidateAssurance(identity, unclassified))
	})

	t.Run("UnlabelledSkipsCheck", func(t *testing.T) {
		identity := &model.VerifiedIdentity{}
		assert.NoError(t, token.ValidateAssurance(identity, model.SecurityAttributes{}))
	})

	t.Run("ACRLevels", func(t *testing.T) {
		for _, acr := range []string{"2", "3", "loa2", "LOA3", "silver", "gold", "urn:dive25:mfa", "otp-session"} {
			identity := &model.VerifiedIdentity{ACR: acr}
			assert.NoError(t, token.ValidateAssurance(identity, secret), "acr=%s", acr)
		}
	})

	t.Run("ACRLevelOneInsufficient", func(t *testing.T) {
		identity := &model.VerifiedIdentity{ACR: "1", AMR: []string{"pwd"}}
		err := token.ValidateAssurance(identity, secret)
		assert.ErrorIs(t, err, pep_errors.ErrInsufficientAssurance)
	})

	t.Run("TwoDistinctAMRFactors", func(t *testing.T) {
		identity := &model.VerifiedIdentity{AMR: []string{"pwd", "otp"}}
		assert.NoError(t, token.ValidateAssurance(identity, secret))
	})

	t.Run("RepeatedFactorDoesNotCount", func(t *testing.T) {
		identity := &model.VerifiedIdentity{AMR: []string{"pwd", "pwd", "PWD"}}
		err := token.ValidateAssurance(identity, secret)
		assert.ErrorIs(t, err, pep_errors.ErrInsufficientAssurance)
	})

	t.Run("DoubleEncodedAMR", func(t *testing.T) {
		// Claim mappers sometimes ship amr as an encoded list; the factor
		// count must see through it.
		identity := &model.VerifiedIdentity{AMR: []string{`["pwd","hwk"]`}}
		assert.NoError(t, token.ValidateAssurance(identity, secret))
	})

	t.Run("SingleFactorFails", func(t *testing.T) {
		identity := &model.VerifiedIdentity{AMR: []string{"pwd"}}
		err := token.ValidateAssurance(identity, secret)
		assert.ErrorIs(t, err, pep_errors.ErrInsufficientAssurance)
	})

	t.Run("NoEvidenceFails", func(t *testing.T) {
		err := token.ValidateAssurance(&model.VerifiedIdentity{}, secret)
		assert.ErrorIs(t, err, pep_errors.ErrInsufficientAssurance)
	})
}
