package queue

import (
	"encoding/json"
	"fmt"

	"github.com/quickcart-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartSnapshotPersist 购物车快照写入任务
	TaskCartSnapshotPersist = constants.TaskCartSnapshotPersist
)

// CartSnapshotPayload 购物车快照任务载荷（Payload 为空表示清空）
type CartSnapshotPayload struct {
	Key      string `json:"key"`
	Revision uint64 `json:"revision"`
	Payload  string `json:"payload"`
}

// NewCartSnapshotTask 创建购物车快照任务
func NewCartSnapshotTask(payload CartSnapshotPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartSnapshotPersist, body), nil
}

// ParseCartSnapshotPayload 解析购物车快照任务载荷
func ParseCartSnapshotPayload(task *asynq.Task) (CartSnapshotPayload, error) {
	var payload CartSnapshotPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	if payload.Key == "" {
		return payload, fmt.Errorf("cart snapshot payload missing key")
	}
	return payload, nil
}
