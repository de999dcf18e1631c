// dao/resource_dao.go
package dao

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	pep_errors "github.com/dive25/pep/errors"
	logger "github.com/dive25/pep/logging"
	"github.com/dive25/pep/model"
	pep_neo4j "github.com/dive25/pep/model/neo4j"
)

// ResourceDAO reads resource records and their security labels from the
// resource store. The enforcement pipeline only ever reads; label writes
// belong to the seeding and administration tooling.
type ResourceDAO struct {
	Driver neo4j.Driver
}

func NewResourceDAO(driver neo4j.Driver) *ResourceDAO {
	return &ResourceDAO{Driver: driver}
}

// GetResource fetches one resource by id, tolerating both the structured
// securityLabel property and the flat legacy property layout.
func (dao *ResourceDAO) GetResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
            MATCH (r:` + pep_neo4j.LabelResource + ` {id: $id})
            RETURN properties(r) AS props
        `
		records, err := transaction.Run(query, map[string]interface{}{"id": resourceID})
		if err != nil {
			return nil, err
		}
		if records.Next() {
			props, _ := records.Record().Get("props")
			return props, nil
		}
		return nil, records.Err()
	})
	if err != nil {
		logger.Error("Failed to fetch resource",
			zap.String("resourceID", resourceID),
			zap.Error(err))
		return nil, pep_errors.ErrDatabaseOperation
	}
	if result == nil {
		return nil, pep_errors.ErrResourceNotFound
	}

	props, ok := result.(map[string]interface{})
	if !ok {
		return nil, pep_errors.ErrInvalidResourceData
	}

	resource, err := resourceFromProps(resourceID, props)
	if err != nil {
		logger.Error("Resource record has an unusable security label",
			zap.String("resourceID", resourceID),
			zap.Error(err))
		return nil, pep_errors.ErrInvalidSecurityLabel
	}

	logger.Debug("Resource fetched",
		zap.String("resourceID", resourceID),
		zap.String("classification", resource.Security.Classification),
		zap.Duration("duration", time.Since(start)))
	return resource, nil
}

func resourceFromProps(resourceID string, props map[string]interface{}) (*model.Resource, error) {
	security, err := model.SecurityAttributesFromMap(props)
	if err != nil {
		return nil, err
	}

	resource := &model.Resource{
		ID:       resourceID,
		Security: security,
	}
	if name, ok := props[pep_neo4j.PropName].(string); ok {
		resource.Name = name
	}
	if resourceType, ok := props[pep_neo4j.PropType].(string); ok {
		resource.Type = resourceType
	}
	if uri, ok := props[pep_neo4j.PropURI].(string); ok {
		resource.URI = uri
	}
	return resource, nil
}
