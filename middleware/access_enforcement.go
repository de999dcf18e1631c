// middleware/access_enforcement.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dive25/pep/audit"
	pep_errors "github.com/dive25/pep/errors"
	logger "github.com/dive25/pep/logging"
	"github.com/dive25/pep/model"
	"github.com/dive25/pep/pdp"
	pdp_model "github.com/dive25/pep/pdp/model"
	"github.com/dive25/pep/service"
	"github.com/dive25/pep/token"
	"github.com/dive25/pep/util"
)

// enforcementState tracks a request through the decision pipeline.
type enforcementState string

const (
	statePendingAssurance       enforcementState = "PENDING_ASSURANCE"
	statePendingDecision        enforcementState = "PENDING_DECISION"
	stateDenied                 enforcementState = "DENIED"
	stateGranted                enforcementState = "GRANTED"
	stateGrantedWithObligations enforcementState = "GRANTED_WITH_OBLIGATIONS"
)

// Enforcer applies the policy decision for resource-scoped routes. The
// steps run strictly in order: resource fetch, assurance gate, decision
// cache, PDP, enforcement. The assurance gate sits before the cache on
// purpose: a cached ALLOW from an MFA session must not be reusable by a
// request without MFA evidence.
type Enforcer struct {
	resources      service.IResourceService
	decisions      *pdp.DecisionCache
	decisionPoint  pdp.DecisionPoint
	validationUtil *util.ValidationUtil
	eventBus       *util.EventBus
}

func NewEnforcer(
	resources service.IResourceService,
	decisions *pdp.DecisionCache,
	decisionPoint pdp.DecisionPoint,
	validationUtil *util.ValidationUtil,
	eventBus *util.EventBus,
) *Enforcer {
	return &Enforcer{
		resources:      resources,
		decisions:      decisions,
		decisionPoint:  decisionPoint,
		validationUtil: validationUtil,
		eventBus:       eventBus,
	}
}

// EnforceResourceAccess guards a route that takes a resource id path
// parameter. The operation names the action evaluated by the PDP.
func (e *Enforcer) EnforceResourceAccess(operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		identity, err := util.GetIdentityFromContext(c)
		if err != nil {
			util.RespondUnauthorized(c, "Authentication required", "Bearer <token>", "Missing")
			return
		}
		resourceID := c.Param("id")

		resource, err := e.resources.GetResource(c.Request.Context(), resourceID)
		if err != nil {
			e.respondResourceError(c, resourceID, err)
			return
		}

		state := statePendingAssurance
		if err := token.ValidateAssurance(identity, resource.Security); err != nil {
			logger.Warn("Assurance gate rejected request",
				zap.String("subjectID", identity.SubjectID),
				zap.String("resourceID", resourceID),
				zap.String("classification", resource.Security.Classification))
			e.emitAudit(c, audit.EventAccessDenied, audit.OutcomeDeny, identity, resource,
				&pdp_model.Decision{Reason: "Multi-factor authentication required"}, operation, start)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "This resource requires multi-factor authentication",
				"reason":  "insufficient_authentication_assurance",
			})
			return
		}

		state = statePendingDecision
		logger.Debug("Assurance gate passed",
			zap.String("subjectID", identity.SubjectID),
			zap.String("state", string(state)))
		cacheKey := e.decisions.Key(identity.SubjectID, resource.ID,
			identity.Clearance, identity.CountryOfAffiliation)

		decision, cacheHit := e.decisions.Get(cacheKey)
		if !cacheHit {
			decision, err = e.evaluate(c, identity, resource, operation)
			if err != nil {
				// Fail closed: an unreachable or unparseable PDP never
				// yields an implicit allow.
				e.respondDecisionError(c, err)
				return
			}
			// The cached entry is the exact PDP response, never a
			// synthesized decision.
			e.decisions.Set(cacheKey, decision)
		}

		if !decision.Allow {
			state = stateDenied
			logger.Info("Access denied by policy",
				zap.String("subjectID", identity.SubjectID),
				zap.String("resourceID", resource.ID),
				zap.String("state", string(state)),
				zap.String("reason", decision.Reason))
			e.emitAudit(c, audit.EventAccessDenied, audit.OutcomeDeny, identity, resource, decision, operation, start)
			e.eventBus.Publish(context.WithoutCancel(c.Request.Context()), util.EventAccessDenied, gin.H{
				"subjectID":  identity.SubjectID,
				"resourceID": resource.ID,
				"reason":     decision.Reason,
			})
			c.AbortWithStatusJSON(http.StatusForbidden, deniedBody(identity, resource, decision))
			return
		}

		if len(decision.Obligations) > 0 {
			state = stateGrantedWithObligations
			c.Set(util.ContextObligationsKey, decision.Obligations)
		} else {
			state = stateGranted
		}
		logger.Debug("Access granted",
			zap.String("subjectID", identity.SubjectID),
			zap.String("resourceID", resource.ID),
			zap.String("state", string(state)),
			zap.Bool("cacheHit", cacheHit))
		e.emitAudit(c, audit.EventDecrypt, audit.OutcomeAllow, identity, resource, decision, operation, start)
		c.Next()
	}
}

func (e *Enforcer) evaluate(c *gin.Context, identity *model.VerifiedIdentity, resource *model.Resource, operation string) (*pdp_model.Decision, error) {
	request := buildEvaluationRequest(c, identity, resource, operation)
	if err := e.validationUtil.ValidateEvaluationRequest(*request); err != nil {
		return nil, err
	}
	return e.decisionPoint.Evaluate(c.Request.Context(), request)
}

func buildEvaluationRequest(c *gin.Context, identity *model.VerifiedIdentity, resource *model.Resource, operation string) *pdp_model.EvaluationRequest {
	return &pdp_model.EvaluationRequest{
		Input: pdp_model.EvaluationInput{
			Subject: pdp_model.Subject{
				Authenticated:        true,
				UniqueID:             identity.SubjectID,
				Clearance:            identity.Clearance,
				ClearanceOriginal:    identity.ClearanceOriginal,
				ClearanceCountry:     identity.ClearanceCountry,
				CountryOfAffiliation: identity.CountryOfAffiliation,
				ACPCOI:               identity.ACPCOI,
				DutyOrg:              identity.DutyOrg,
				OrgUnit:              identity.OrgUnit,
			},
			Action: pdp_model.Action{Operation: operation},
			Resource: pdp_model.Resource{
				ResourceID:             resource.ID,
				Classification:         resource.Security.Classification,
				OriginalClassification: resource.Security.OriginalClassification,
				OriginalCountry:        resource.Security.OriginalCountry,
				NATOEquivalent:         resource.Security.NATOEquivalent,
				ReleasabilityTo:        resource.Security.ReleasabilityTo,
				COI:                    resource.Security.COI,
				COIOperator:            resource.Security.COIOperator,
				CreationDate:           resource.Security.CreationDate,
				Encrypted:              resource.Security.Encrypted,
			},
			Context: pdp_model.Context{
				CurrentTime:     time.Now().UTC().Format(time.RFC3339),
				SourceIP:        c.ClientIP(),
				DeviceCompliant: c.GetHeader("X-Device-Compliant") == "true",
				RequestID:       util.GetRequestIDFromContext(c),
				ACR:             identity.ACR,
				AMR:             identity.AMR,
				AuthTime:        identity.AuthTime,
			},
		},
	}
}

func deniedBody(identity *model.VerifiedIdentity, resource *model.Resource, decision *pdp_model.Decision) gin.H {
	details := gin.H{}
	for k, v := range decision.EvaluationDetails {
		details[k] = v
	}
	details["subject"] = gin.H{
		"clearance":            identity.Clearance,
		"countryOfAffiliation": identity.CountryOfAffiliation,
		"acpCOI":               identity.ACPCOI,
	}
	details["resource"] = gin.H{
		"resourceId":      resource.ID,
		"classification":  resource.Security.Classification,
		"releasabilityTo": resource.Security.ReleasabilityTo,
		"COI":             resource.Security.COI,
		"coiOperator":     resource.Security.COIOperator,
	}

	return gin.H{
		"error":   "Forbidden",
		"message": "Access denied by policy",
		"reason":  decision.Reason,
		"details": details,
	}
}

func (e *Enforcer) respondResourceError(c *gin.Context, resourceID string, err error) {
	switch {
	case errors.Is(err, pep_errors.ErrResourceNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "Resource not found",
		})
	case errors.Is(err, pep_errors.ErrInvalidSecurityLabel):
		util.RespondWithError(c, http.StatusInternalServerError, "Resource security label is unusable", err)
		c.Abort()
	default:
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve resource", err)
		c.Abort()
	}
	logger.Warn("Resource lookup failed during enforcement",
		zap.String("resourceID", resourceID),
		zap.Error(err))
}

func (e *Enforcer) respondDecisionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pep_errors.ErrPDPUnavailable):
		logger.Error("PDP unreachable", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Service Unavailable",
			"message": "Policy decision point is unreachable",
		})
	case errors.Is(err, pep_errors.ErrInvalidPDPResponse):
		logger.Error("PDP returned an invalid response", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Policy decision point returned an invalid response",
		})
	default:
		util.RespondWithError(c, http.StatusInternalServerError, "Policy evaluation failed", err)
		c.Abort()
	}
}

// emitAudit publishes exactly one decision event per enforcement outcome,
// before the HTTP response is written. Delivery is asynchronous and
// best-effort; a failing audit sink is logged by the bus, never surfaced
// to the caller.
func (e *Enforcer) emitAudit(c *gin.Context, eventType audit.EventType, outcome audit.Outcome,
	identity *model.VerifiedIdentity, resource *model.Resource, decision *pdp_model.Decision,
	operation string, start time.Time) {

	event := audit.Event{
		EventType:  eventType,
		Timestamp:  time.Now().UTC(),
		RequestID:  util.GetRequestIDFromContext(c),
		Subject:    identity.SubjectID,
		Action:     operation,
		ResourceID: resource.ID,
		Outcome:    outcome,
		Reason:     decision.Reason,
		SubjectAttributes: map[string]interface{}{
			"clearance":            identity.Clearance,
			"countryOfAffiliation": identity.CountryOfAffiliation,
			"acpCOI":               identity.ACPCOI,
			"dutyOrg":              identity.DutyOrg,
		},
		ResourceAttributes: map[string]interface{}{
			"classification":  resource.Security.Classification,
			"releasabilityTo": resource.Security.ReleasabilityTo,
			"COI":             resource.Security.COI,
			"coiOperator":     resource.Security.COIOperator,
			"encrypted":       resource.Security.Encrypted,
		},
		PolicyEvaluation: decision.EvaluationDetails,
		Context: map[string]interface{}{
			"sourceIP": c.ClientIP(),
			"acr":      identity.ACR,
			"amr":      identity.AMR,
		},
		LatencyMs: time.Since(start).Milliseconds(),
	}

	e.eventBus.Publish(context.WithoutCancel(c.Request.Context()), util.EventDecisionRecorded, event)
}
