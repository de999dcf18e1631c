// model/identity.go
package model

import "time"

// VerifiedIdentity is the normalized result of a successful token
// verification. It lives for the duration of one request and is never
// persisted.
type VerifiedIdentity struct {
	SubjectID            string    `json:"subject_id"`
	Username             string    `json:"username"`
	Clearance            string    `json:"clearance,omitempty"`
	ClearanceOriginal    string    `json:"clearance_original,omitempty"`
	ClearanceCountry     string    `json:"clearance_country,omitempty"`
	CountryOfAffiliation string    `json:"country_of_affiliation,omitempty"`
	ACPCOI               []string  `json:"acp_coi,omitempty"`
	DutyOrg              string    `json:"duty_org,omitempty"`
	OrgUnit              string    `json:"org_unit,omitempty"`
	TokenID              string    `json:"token_id"` // jti, used for revocation checks
	ACR                  string    `json:"acr,omitempty"`
	AMR                  []string  `json:"amr,omitempty"`
	AuthTime             int64     `json:"auth_time,omitempty"`
	Audience             []string  `json:"audience"`
	Issuer               string    `json:"issuer"`
	ExpiresAt            time.Time `json:"expires_at"`
}
