// token/assurance.go
package token

import (
	"fmt"
	"strings"

	pep_errors "github.com/dive25/pep/errors"
	"github.com/dive25/pep/model"
)

// acrLevels the identity providers use to mean "authenticated with a
// second factor" or stronger.
var mfaACRValues = map[string]struct{}{
	"2":      {},
	"3":      {},
	"loa2":   {},
	"loa3":   {},
	"silver": {},
	"gold":   {},
}

// ValidateAssurance enforces the multi-factor requirement for classified
// resources. UNCLASSIFIED (and unlabelled) resources skip the check. The
// ACR claim is consulted first; when it is absent or ambiguous the AMR
// claim is counted instead, so an identity provider that forgets to map
// ACR but records two factors still passes. Runs before the decision cache
// and the PDP: a cached ALLOW must not be reusable without MFA evidence.
func ValidateAssurance(identity *model.VerifiedIdentity, security model.SecurityAttributes) error {
	if !security.IsClassified() {
		return nil
	}

	if acrSatisfiesMFA(identity.ACR) {
		return nil
	}
	if distinctFactors(identity.AMR) >= 2 {
		return nil
	}

	return fmt.Errorf("%w: resource classified %s requires a multi-factor session",
		pep_errors.ErrInsufficientAssurance, security.Classification)
}

func acrSatisfiesMFA(acr string) bool {
	if acr == "" {
		return false
	}
	normalized := strings.ToLower(strings.TrimSpace(acr))
	if _, ok := mfaACRValues[normalized]; ok {
		return true
	}
	return strings.Contains(normalized, "mfa") || strings.Contains(normalized, "otp")
}

func distinctFactors(amr []string) int {
	seen := make(map[string]struct{}, len(amr))
	for _, method := range NormalizeStringList(amr) {
		method = strings.ToLower(strings.TrimSpace(method))
		if method == "" {
			continue
		}
		seen[method] = struct{}{}
	}
	return len(seen)
}
