// pdp/model/request.go
package model

// EvaluationRequest is the payload POSTed to the decision endpoint. The
// decision oracle's rule language is opaque to the PEP; this is purely the
// wire contract.
type EvaluationRequest struct {
	Input EvaluationInput `json:"input"`
}

type EvaluationInput struct {
	Subject  Subject  `json:"subject"`
	Action   Action   `json:"action"`
	Resource Resource `json:"resource"`
	Context  Context  `json:"context"`
}

type Subject struct {
	Authenticated        bool     `json:"authenticated"`
	UniqueID             string   `json:"uniqueID"`
	Clearance            string   `json:"clearance"`
	ClearanceOriginal    string   `json:"clearanceOriginal,omitempty"`
	ClearanceCountry     string   `json:"clearanceCountry,omitempty"`
	CountryOfAffiliation string   `json:"countryOfAffiliation"`
	ACPCOI               []string `json:"acpCOI"`
	DutyOrg              string   `json:"dutyOrg,omitempty"`
	OrgUnit              string   `json:"orgUnit,omitempty"`
}

type Action struct {
	Operation string `json:"operation"`
}

type Resource struct {
	ResourceID             string   `json:"resourceId"`
	Classification         string   `json:"classification"`
	OriginalClassification string   `json:"originalClassification,omitempty"`
	OriginalCountry        string   `json:"originalCountry,omitempty"`
	NATOEquivalent         string   `json:"natoEquivalent,omitempty"`
	ReleasabilityTo        []string `json:"releasabilityTo"`
	COI                    []string `json:"COI"`
	COIOperator            string   `json:"coiOperator"`
	CreationDate           string   `json:"creationDate"`
	Encrypted              bool     `json:"encrypted"`
}

type Context struct {
	CurrentTime     string   `json:"currentTime"`
	SourceIP        string   `json:"sourceIP"`
	DeviceCompliant bool     `json:"deviceCompliant"`
	RequestID       string   `json:"requestId"`
	ACR             string   `json:"acr,omitempty"`
	AMR             []string `json:"amr,omitempty"`
	AuthTime        int64    `json:"auth_time,omitempty"`
}
