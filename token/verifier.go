// token/verifier.go
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pep_errors "github.com/dive25/pep/errors"
	"github.com/dive25/pep/keys"
	"github.com/dive25/pep/model"
)

// accessClaims is the raw claim set of a platform access token.
type accessClaims struct {
	jwt.RegisteredClaims
	PreferredUsername    string     `json:"preferred_username"`
	UniqueID             string     `json:"uniqueID"`
	Clearance            string     `json:"clearance"`
	ClearanceOriginal    string     `json:"clearanceOriginal"`
	ClearanceCountry     string     `json:"clearanceCountry"`
	CountryOfAffiliation string     `json:"countryOfAffiliation"`
	ACPCOI               StringList `json:"acpCOI"`
	DutyOrg              string     `json:"dutyOrg"`
	OrgUnit              string     `json:"orgUnit"`
	ACR                  string     `json:"acr"`
	AMR                  StringList `json:"amr"`
	AuthTime             int64      `json:"auth_time"`
}

// Verifier validates bearer tokens against a key source and the configured
// issuer and audience allow-lists. Only asymmetric signature algorithms are
// accepted; the symmetric test path of the legacy gateway is served by
// wiring a keys.StaticSource instead.
type Verifier struct {
	keys      keys.Source
	issuers   map[string]struct{}
	audiences map[string]struct{}
	parser    *jwt.Parser
}

func NewVerifier(source keys.Source, issuers []string, audiences []string) *Verifier {
	issuerSet := make(map[string]struct{}, len(issuers))
	for _, issuer := range issuers {
		issuerSet[issuer] = struct{}{}
	}
	audienceSet := make(map[string]struct{}, len(audiences))
	for _, audience := range audiences {
		audienceSet[audience] = struct{}{}
	}
	return &Verifier{
		keys:      source,
		issuers:   issuerSet,
		audiences: audienceSet,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384"}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify checks the token's signature, expiry, issuer and audience, and
// returns the normalized identity. Every failure wraps ErrInvalidToken.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*model.VerifiedIdentity, error) {
	claims := &accessClaims{}

	parsed, err := v.parser.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("%w: token header missing kid", pep_errors.ErrInvalidToken)
		}
		key, err := v.keys.ResolveKey(ctx, kid, claims.Issuer)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", pep_errors.ErrInvalidToken, err)
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, pep_errors.ErrInvalidToken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", pep_errors.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: signature validation failed", pep_errors.ErrInvalidToken)
	}

	if _, ok := v.issuers[claims.Issuer]; !ok {
		return nil, fmt.Errorf("%w: issuer %q is not trusted", pep_errors.ErrInvalidToken, claims.Issuer)
	}
	if !v.audienceAllowed(claims.Audience) {
		return nil, fmt.Errorf("%w: token audience not accepted", pep_errors.ErrInvalidToken)
	}

	return claims.toIdentity(), nil
}

func (v *Verifier) audienceAllowed(audience jwt.ClaimStrings) bool {
	for _, entry := range audience {
		if _, ok := v.audiences[entry]; ok {
			return true
		}
	}
	return false
}

func (c *accessClaims) toIdentity() *model.VerifiedIdentity {
	subjectID := c.UniqueID
	if subjectID == "" {
		subjectID = c.Subject
	}

	var expiresAt time.Time
	if c.ExpiresAt != nil {
		expiresAt = c.ExpiresAt.Time
	}

	return &model.VerifiedIdentity{
		SubjectID:            subjectID,
		Username:             c.PreferredUsername,
		Clearance:            c.Clearance,
		ClearanceOriginal:    c.ClearanceOriginal,
		ClearanceCountry:     c.ClearanceCountry,
		CountryOfAffiliation: c.CountryOfAffiliation,
		ACPCOI:               c.ACPCOI,
		DutyOrg:              c.DutyOrg,
		OrgUnit:              c.OrgUnit,
		TokenID:              c.ID,
		ACR:                  c.ACR,
		AMR:                  c.AMR,
		AuthTime:             c.AuthTime,
		Audience:             c.Audience,
		Issuer:               c.Issuer,
		ExpiresAt:            expiresAt,
	}
}
