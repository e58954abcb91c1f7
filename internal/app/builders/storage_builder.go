package builders

import (
	"fmt"

	"github.com/aatumaykin/coursebot/internal/config"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/storage"
	"github.com/aatumaykin/coursebot/internal/workers"
)

// StorageBuilder opens the database and creates the worker pool.
type StorageBuilder struct {
	config *config.Config
	logger *logger.Logger
}

func NewStorageBuilder(cfg *config.Config, log *logger.Logger) *StorageBuilder {
	return &StorageBuilder{
		config: cfg,
		logger: log,
	}
}

// Build opens the database and applies pending migrations.
func (b *StorageBuilder) Build() (*storage.Store, error) {
	store, err := storage.OpenStore(b.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	b.logger.Info("database ready", logger.Field{Key: "path", Value: b.config.Database.Path})
	return store, nil
}

// BuildWorkerPool creates and starts the worker pool.
func (b *StorageBuilder) BuildWorkerPool() *workers.WorkerPool {
	workerPool := workers.NewPool(b.config.Workers.PoolSize, b.config.Workers.QueueSize, b.logger)
	workerPool.OnResult(func(r workers.Result) {
		if r.Error != nil {
			b.logger.Error("background task failed", r.Error,
				logger.Field{Key: "task_id", Value: r.TaskID},
				logger.Field{Key: "task_type", Value: r.Type},
				logger.Field{Key: "duration", Value: r.Duration.String()})
		}
	})
	workerPool.Start()
	return workerPool
}
