// model/neo4j/schema.go
package neo4j

// Node labels and property keys used by the resource attribute queries.
const (
	LabelResource = "Resource"

	PropID                     = "id"
	PropName                   = "name"
	PropType                   = "type"
	PropURI                    = "uri"
	PropSecurityLabel          = "securityLabel"
	PropClassification         = "classification"
	PropOriginalClassification = "originalClassification"
	PropOriginalCountry        = "originalCountry"
	PropNATOEquivalent         = "natoEquivalent"
	PropReleasabilityTo        = "releasabilityTo"
	PropCOI                    = "COI"
	PropCOIOperator            = "coiOperator"
	PropCreationDate           = "creationDate"
	PropEncrypted              = "encrypted"
)
