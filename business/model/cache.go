package model

import (
	"sync"

	"stayRank/domain"
	"stayRank/pkg/logger"
)

// Cache holds at most one loaded pipeline per worker process, keyed by
// artifact path. When the registry's active model points somewhere else the
// old pipeline is dropped and the new one is loaded synchronously: the first
// call after a promotion pays the load cost.
type Cache struct {
	mu       sync.Mutex
	path     string
	pipeline *Pipeline
}

func NewCache() *Cache {
	return &Cache{}
}

// Pipeline returns the loaded pipeline for the given registry entry,
// reloading on path change.
func (c *Cache) Pipeline(m domain.Model) (*Pipeline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pipeline != nil && c.path == m.Path {
		return c.pipeline, nil
	}

	logger.Info("model cache miss, reloading pipeline", "path", m.Path, "model", m.TaskID)

	p, err := LoadPipeline(m.Path)
	if err != nil {
		return nil, err
	}

	c.path = m.Path
	c.pipeline = p

	return p, nil
}
