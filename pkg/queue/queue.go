package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// QueueNotifications is the Redis list key for booking notification jobs.
	QueueNotifications = "worker:notifications"
	// QueueDLQ is the dead-letter queue for failed jobs after retries.
	QueueDLQ = "worker:dlq"
	// MaxRetries is the number of times to retry a job before moving to DLQ.
	MaxRetries = 3
	// RetryBackoff is the delay between retries.
	RetryBackoff = 10 * time.Second
)

// JobType identifies the job kind.
type JobType string

const (
	JobTypeBookingStatus JobType = "booking_status"
)

// BookingStatusPayload describes a booking lifecycle change to notify both parties about.
type BookingStatusPayload struct {
	BookingID uuid.UUID `json:"booking_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Actor     string    `json:"actor"`
}

// Job is a generic job envelope.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// Queue enqueues and dequeues jobs via Redis.
type Queue struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewQueue creates a new Redis-backed job queue.
func NewQueue(client redis.UniversalClient, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{client: client, logger: logger}
}

func (q *Queue) enqueue(ctx context.Context, key string, typ JobType, payload interface{}) (*Job, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	job := &Job{
		ID:        uuid.New().String(),
		Type:      typ,
		Payload:   body,
		CreatedAt: time.Now(),
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, key, raw).Err(); err != nil {
		return nil, fmt.Errorf("rpush: %w", err)
	}
	return job, nil
}

// EnqueueBookingStatus enqueues a booking notification job.
func (q *Queue) EnqueueBookingStatus(ctx context.Context, payload BookingStatusPayload) error {
	job, err := q.enqueue(ctx, QueueNotifications, JobTypeBookingStatus, payload)
	if err != nil {
		return err
	}
	q.logger.Debug("enqueued booking notification", zap.String("job_id", job.ID), zap.String("booking_id", payload.BookingID.String()), zap.String("to", payload.To))
	return nil
}

// Dequeue blocks up to timeout for a job. A nil job with nil error means nothing arrived.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	result, err := q.client.BLPop(ctx, timeout, QueueNotifications).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.Warn("invalid job payload", zap.String("raw", result[1]), zap.Error(err))
		return nil, nil
	}
	return &job, nil
}

// Retry re-enqueues a job with incremented attempt. If attempt >= MaxRetries, pushes to DLQ instead.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if job.Attempt >= MaxRetries {
		if err := q.client.RPush(ctx, QueueDLQ, raw).Err(); err != nil {
			q.logger.Error("dlq push failed", zap.Error(err), zap.String("job_id", job.ID))
			return err
		}
		q.logger.Warn("job moved to DLQ", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		return nil
	}
	if err := q.client.RPush(ctx, QueueNotifications, raw).Err(); err != nil {
		return err
	}
	q.logger.Info("job retried", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
	return nil
}

// DecodeBookingStatus unmarshals the payload of a booking_status job.
func DecodeBookingStatus(job *Job) (BookingStatusPayload, error) {
	var p BookingStatusPayload
	if job.Type != JobTypeBookingStatus {
		return p, fmt.Errorf("unexpected job type %q", job.Type)
	}
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return p, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}
