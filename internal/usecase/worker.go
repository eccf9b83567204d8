package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/jengatrack/jengatrack/internal/config"
	"github.com/jengatrack/jengatrack/internal/observer"
	"github.com/jengatrack/jengatrack/pkg/logger"
)

// MessageTask carries one inbound message into the worker pool.
type MessageTask struct {
	// Ctx is derived for the task, NOT the webhook request context, which is
	// gone by the time the task runs.
	Ctx     context.Context
	Message InboundMessage
}

// IMessageWorker defines the interface for the inbound-message worker pool.
type IMessageWorker interface {
	SubmitTask(task MessageTask) error
	Stop()
}

// MessageWorker processes inbound messages asynchronously so the webhook can
// acknowledge deliveries immediately.
type MessageWorker struct {
	pool       *ants.PoolWithFunc
	chat       *ChatService
	cfg        config.WorkerPoolConfig
	baseLogger *zap.Logger
}

// Ensure MessageWorker implements IMessageWorker
var _ IMessageWorker = (*MessageWorker)(nil)

// NewMessageWorker creates and initializes the worker pool.
func NewMessageWorker(cfg config.WorkerPoolConfig, chat *ChatService, baseLogger *zap.Logger) (*MessageWorker, error) {
	worker := &MessageWorker{
		chat:       chat,
		cfg:        cfg,
		baseLogger: baseLogger.Named("message_worker"),
	}

	pool, err := ants.NewPoolWithFunc(cfg.PoolSize, func(i interface{}) {
		task, ok := i.(MessageTask)
		if !ok {
			worker.baseLogger.Error("Invalid task data type received", zap.Any("data", i))
			return
		}
		worker.processTask(task)
	},
		ants.WithExpiryDuration(cfg.ExpiryTime),
		ants.WithNonblocking(false),
		ants.WithMaxBlockingTasks(cfg.QueueSize),
		ants.WithPanicHandler(func(err interface{}) {
			worker.baseLogger.Error("Panic recovered in message worker", zap.Any("panic_error", err), zap.Stack("stack"))
			observer.IncWorkerTasksProcessed("panic")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message worker pool: %w", err)
	}
	worker.pool = pool
	worker.baseLogger.Info("Message worker pool initialized",
		zap.Int("pool_size", cfg.PoolSize),
		zap.Int("queue_size", cfg.QueueSize),
		zap.Duration("expiry_time", cfg.ExpiryTime),
	)
	return worker, nil
}

// SubmitTask queues an inbound message for processing.
func (w *MessageWorker) SubmitTask(task MessageTask) error {
	observer.IncWorkerTasksSubmitted()
	observer.SetWorkerQueueLength(w.pool.Waiting())

	if err := w.pool.Invoke(task); err != nil {
		w.baseLogger.Warn("Failed to submit message task to pool",
			zap.String("from", task.Message.From),
			zap.Error(err),
		)
		observer.IncWorkerTasksProcessed("submit_error")
		if errors.Is(err, ants.ErrPoolOverload) {
			return fmt.Errorf("message pool overload: %w", err)
		}
		return fmt.Errorf("failed to invoke message task: %w", err)
	}
	return nil
}

// processTask runs inside a worker goroutine.
func (w *MessageWorker) processTask(task MessageTask) {
	log := logger.FromContextOr(task.Ctx, w.baseLogger)
	start := time.Now()

	err := w.chat.HandleInbound(task.Ctx, task.Message)
	if err != nil {
		log.Error("Message task failed",
			zap.String("from", task.Message.From),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		observer.IncWorkerTasksProcessed("failure")
		return
	}

	log.Debug("Message task completed", zap.Duration("duration", time.Since(start)))
	observer.IncWorkerTasksProcessed("success")
}

// Stop gracefully shuts down the worker pool.
func (w *MessageWorker) Stop() {
	if w.pool != nil {
		w.baseLogger.Info("Releasing message worker pool")
		start := time.Now()
		w.pool.Release()
		w.baseLogger.Info("Message worker pool released", zap.Duration("duration", time.Since(start)))
	}
}
