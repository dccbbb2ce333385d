package oracle

import (
	"context"
	"sync"

	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

// InMemoryClient is a local oracle collaborator for development and tests.
// Data sets are registered by hand; staleness and outlier flags make the
// collaborator's own rejections reproducible.
type InMemoryClient struct {
	mu   sync.RWMutex
	data map[id.OracleDataID]entry
}

type entry struct {
	resolution Resolution
	stale      bool
	outlier    bool
}

func NewInMemoryClient() *InMemoryClient {
	return &InMemoryClient{data: make(map[id.OracleDataID]entry)}
}

// SetData registers a resolvable data set.
func (c *InMemoryClient) SetData(dataID id.OracleDataID, resolution Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[dataID] = entry{resolution: resolution}
}

// MarkStale makes resolution of the data set fail with CodeOracleDataStale.
func (c *InMemoryClient) MarkStale(dataID id.OracleDataID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.data[dataID]
	e.stale = true
	c.data[dataID] = e
}

// MarkOutlier makes resolution fail with CodeOracleOutlierDetected.
func (c *InMemoryClient) MarkOutlier(dataID id.OracleDataID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.data[dataID]
	e.outlier = true
	c.data[dataID] = e
}

func (c *InMemoryClient) SubmissionCount(_ context.Context, dataID id.OracleDataID) (uint32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[dataID]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeNotFound, "oracle data %s not found", dataID)
	}
	return e.resolution.Submissions, nil
}

func (c *InMemoryClient) Resolve(_ context.Context, dataID id.OracleDataID) (Resolution, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[dataID]
	if !ok {
		return Resolution{}, dErrors.Newf(dErrors.CodeNotFound, "oracle data %s not found", dataID)
	}
	if e.stale {
		return Resolution{}, dErrors.Newf(dErrors.CodeOracleDataStale, "oracle data %s is stale", dataID)
	}
	if e.outlier {
		return Resolution{}, dErrors.Newf(dErrors.CodeOracleOutlierDetected, "oracle data %s contains outlier submissions", dataID)
	}
	return e.resolution, nil
}
