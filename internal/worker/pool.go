package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueEmail = "jobs:email"

const jobTypeEmail = "email"

// Job is the envelope stored in the Redis list.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb redis.Cmdable
}

func NewDispatcher(rdb redis.Cmdable) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes a document delivery job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, job EmailJob) error {
	if err := job.validar(); err != nil {
		return err
	}
	return d.enqueue(ctx, QueueEmail, jobTypeEmail, job)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", queue, err)
	}
	return nil
}

// StartWorkerPool launches numWorkers goroutines consuming the email queue.
// They stop when ctx is cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, email *EmailWorker) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, email)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, email *EmailWorker) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueEmail).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("brpop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, email, result[0], result[1])
		}
	}
}

// processJob runs one job. Failures go to the DLQ after a single attempt.
func processJob(ctx context.Context, rdb redis.Cmdable, email *EmailWorker, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		aparcar(ctx, rdb, Fallido{Cola: queue, Payload: json.RawMessage(fmt.Sprintf("%q", raw)), Motivo: err.Error(), Intentos: 1})
		return
	}

	var err error
	switch job.Type {
	case jobTypeEmail:
		err = email.Process(ctx, job.Payload)
	default:
		err = fmt.Errorf("tipo de trabajo desconocido: %q", job.Type)
	}
	if err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("job failed")
		aparcar(ctx, rdb, Fallido{Cola: queue, Tipo: job.Type, Payload: job.Payload, Motivo: err.Error(), Intentos: 1})
	}
}
