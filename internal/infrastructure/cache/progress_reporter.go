package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/importer"
	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/infrastructure/config"
)

const (
	progressKeyPrefix = "import:job:"
	progressTTL       = time.Hour
)

// RedisProgressReporter mirrors live import counters into a Redis hash so
// clients can poll progress without hitting the database. All writes are
// best-effort; a Redis outage never affects the import run itself.
type RedisProgressReporter struct {
	client *redis.Client
	logger *zap.Logger
}

var _ importer.ProgressReporter = (*RedisProgressReporter)(nil)

// NewRedisProgressReporter connects to Redis and verifies the connection
func NewRedisProgressReporter(cfg *config.RedisConfig, logger *zap.Logger) (*RedisProgressReporter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProgressReporter{client: client, logger: logger}, nil
}

// NewRedisProgressReporterWithClient wraps an existing Redis client
func NewRedisProgressReporterWithClient(client *redis.Client, logger *zap.Logger) *RedisProgressReporter {
	return &RedisProgressReporter{client: client, logger: logger}
}

// Report writes the job's current counters to Redis
func (r *RedisProgressReporter) Report(ctx context.Context, job *bulk.ImportJob) {
	key := progressKeyPrefix + job.ID.String()

	fields := map[string]interface{}{
		"status":         string(job.Status),
		"total_rows":     job.TotalRows,
		"processed_rows": job.ProcessedRows,
		"created_count":  job.CreatedCount,
		"updated_count":  job.UpdatedCount,
		"skipped_count":  job.SkippedCount,
		"error_count":    job.ErrorCount,
	}

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, progressTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("failed to report import progress",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}
}

// Clear removes the progress hash once the job record is authoritative
func (r *RedisProgressReporter) Clear(ctx context.Context, jobID uuid.UUID) {
	key := progressKeyPrefix + jobID.String()
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("failed to clear import progress",
			zap.String("job_id", jobID.String()),
			zap.Error(err))
	}
}

// Close closes the underlying Redis client
func (r *RedisProgressReporter) Close() error {
	return r.client.Close()
}
