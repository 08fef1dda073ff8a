package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/provider"
	"github.com/quickcart-next/internal/queue"
	"github.com/quickcart-next/internal/repository"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartSnapshotPersist, c.handleCartSnapshotPersist)
}

func (c *Consumer) snapshotRepo() repository.CartSnapshotRepository {
	if c == nil || c.Container == nil {
		return nil
	}
	return c.CartSnapshotRepo
}

// handleCartSnapshotPersist 按 revision 写入快照，旧版本直接丢弃
func (c *Consumer) handleCartSnapshotPersist(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_snapshot_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCartSnapshotPayload(task)
	if err != nil {
		logger.Warnw("worker_cart_snapshot_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.Payload != "" && !json.Valid([]byte(payload.Payload)) {
		logger.Warnw("worker_cart_snapshot_invalid_payload", "key", payload.Key, "revision", payload.Revision)
		return fmt.Errorf("cart snapshot payload is not json: %w", asynq.SkipRetry)
	}
	repo := c.snapshotRepo()
	if repo == nil {
		logger.Warnw("worker_cart_snapshot_skip_repo_nil", "key", payload.Key)
		return nil
	}

	applied, err := repo.Put(ctx, &models.CartSnapshot{
		Key:      payload.Key,
		Revision: payload.Revision,
		Payload:  payload.Payload,
	})
	if err != nil {
		logger.Warnw("worker_cart_snapshot_write_failed",
			"key", payload.Key,
			"revision", payload.Revision,
			"error", err,
		)
		return err
	}
	if !applied {
		logger.Debugw("worker_cart_snapshot_skip_stale", "key", payload.Key, "revision", payload.Revision)
		return nil
	}
	logger.Debugw("worker_cart_snapshot_written",
		"key", payload.Key,
		"revision", payload.Revision,
		"removed", payload.Payload == "",
	)
	return nil
}
