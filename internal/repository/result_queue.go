package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/certify-backend/internal/config"
	"github.com/stemsi/certify-backend/internal/model"
)

// ResultQueue hands completed assessment results to the result worker.
type ResultQueue struct {
	rdb *redis.Client
}

// NewResultQueue creates a new ResultQueue.
func NewResultQueue(rdb *redis.Client) *ResultQueue {
	return &ResultQueue{rdb: rdb}
}

// Enqueue pushes a result onto the persistence queue.
func (q *ResultQueue) Enqueue(ctx context.Context, res model.AssessmentResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return q.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw).Err()
}
