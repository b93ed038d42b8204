package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"simplesales/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueNotificacoes = "jobs:notificacoes"

	JobNotificacaoVenda = "notificacao_venda"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// JobHandler processes one job payload. A returned error means the job is
// given up on and moved to the DLQ; handlers retry internally first.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueNotificacaoVenda pushes a sale status notification job.
func (d *Dispatcher) EnqueueNotificacaoVenda(ctx context.Context, vendaID uuid.UUID, status model.StatusVenda) error {
	return d.enqueue(ctx, QueueNotificacoes, JobNotificacaoVenda, NotificacaoVendaPayload{
		VendaID: vendaID.String(),
		Status:  string(status),
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool runs numWorkers goroutines consuming QueueNotificacoes.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]JobHandler
	wg       sync.WaitGroup
}

func NewPool(rdb *redis.Client, handlers map[string]JobHandler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers}
}

// Start launches the workers. Each goroutine blocks on BRPOP, so idle
// workers cost no CPU. Workers exit when ctx is cancelled; Wait blocks
// until they have.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
		}
		// Blocking pop: waits up to 5s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 5*time.Second, QueueNotificacoes).Result()
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
		p.process(ctx, result[0], result[1])
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "unknown", json.RawMessage(raw), "malformed envelope", 0)
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler for job type", 0)
		return
	}

	logger := log.With().Str("type", job.Type).Str("queue", queue).Logger()
	if err := h.Process(logger.WithContext(ctx), job.Payload); err != nil {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), maxAttempts)
		return
	}
	logger.Debug().Dur("queued_for", time.Since(job.EnqueuedAt)).Msg("job processed")
}
