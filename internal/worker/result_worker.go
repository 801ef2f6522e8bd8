package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/config"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/model"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWriter stores assessment results.
type ResultWriter interface {
	InsertBatch(ctx context.Context, results []model.AssessmentResult) error
	Insert(ctx context.Context, res model.AssessmentResult) error
}

// ResultWorker moves completed assessment results from the redis queue into
// PostgreSQL in batches.
type ResultWorker struct {
	rdb     *redis.Client
	store   ResultWriter
	requeue func(ctx context.Context, raw []byte) error
	log     zerolog.Logger
}

func NewResultWorker(rdb *redis.Client, store ResultWriter, log zerolog.Logger) *ResultWorker {
	w := &ResultWorker{
		rdb:   rdb,
		store: store,
		log:   logger.Component(log, "result_worker"),
	}
	w.requeue = func(ctx context.Context, raw []byte) error {
		return w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw).Err()
	}
	return w
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]model.AssessmentResult, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			res, ok := w.decode(item[1])
			if !ok {
				continue
			}
			batch = append(batch, res)
		}
	}
}

func (w *ResultWorker) decode(raw string) (model.AssessmentResult, bool) {
	var res model.AssessmentResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload")
		return res, false
	}
	if res.CertificationID == "" || res.QuestionCount <= 0 {
		w.log.Error().Str("certification_id", res.CertificationID).Msg("Incomplete result payload dropped")
		return res, false
	}
	return res, true
}

// ----------------------------------------------------------------
// Batch insert with per-item fallback
// ----------------------------------------------------------------

func (w *ResultWorker) flushSafe(ctx context.Context, batch []model.AssessmentResult) {
	if len(batch) == 0 {
		return
	}

	err := w.store.InsertBatch(ctx, batch)
	if err == nil {
		w.log.Debug().Int("count", len(batch)).Msg("Results persisted")
		return
	}

	w.log.Warn().Err(err).Int("count", len(batch)).Msg("bulk result insert failed, using fallback")
	for _, res := range batch {
		if err := w.store.Insert(ctx, res); err != nil {
			w.log.Error().Err(err).Str("certification_id", res.CertificationID).Msg("single insert failed, requeueing")
			raw, _ := json.Marshal(res)
			if err := w.requeue(ctx, raw); err != nil {
				w.log.Error().Err(err).Msg("requeue failed, result lost")
			}
		}
	}
}
