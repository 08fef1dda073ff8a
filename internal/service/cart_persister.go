package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/quickcart-next/internal/logger"
	"github.com/quickcart-next/internal/metrics"
	"github.com/quickcart-next/internal/models"
	"github.com/quickcart-next/internal/queue"

	"github.com/hibiken/asynq"
)

// CartStorage 购物车快照键值存储
type CartStorage interface {
	SaveCart(ctx context.Context, key string, state *models.CartState) error
	LoadCart(ctx context.Context, key string) (*models.CartState, error)
	RemoveCart(ctx context.Context, key string, revision uint64) error
}

// CartSnapshotEnqueuer 快照写入任务投递方
type CartSnapshotEnqueuer interface {
	EnqueueCartSnapshot(ctx context.Context, payload queue.CartSnapshotPayload, opts ...asynq.Option) error
}

type persistJob struct {
	op       string
	state    *models.CartState
	remove   bool
	revision uint64
}

// SnapshotPersister 后台写入购物车快照
//
// 待写入任务只保留最新一份；写入失败只记录日志与指标，不回滚内存状态。
type SnapshotPersister struct {
	storage CartStorage
	key     string
	timeout time.Duration
	metrics *metrics.CartMetrics

	mu      sync.Mutex
	pending *persistJob
	running bool
	stopped bool
	waiters []chan struct{}

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewSnapshotPersister 创建快照写入器
func NewSnapshotPersister(storage CartStorage, key string, timeout time.Duration, m *metrics.CartMetrics) *SnapshotPersister {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SnapshotPersister{
		storage: storage,
		key:     key,
		timeout: timeout,
		metrics: m,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start 启动后台写入协程
func (p *SnapshotPersister) Start() {
	go p.loop()
}

// Schedule 接收变更事件，覆盖尚未写入的旧快照
func (p *SnapshotPersister) Schedule(event CartEvent) {
	if !event.Persist || event.State == nil {
		return
	}
	job := &persistJob{
		op:       event.Op,
		state:    event.State,
		remove:   event.Cleared,
		revision: event.State.Revision,
	}
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		logger.Warnw("cart_persist_after_stop", "key", p.key, "revision", job.revision)
		return
	}
	p.pending = job
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Flush 等待当前待写入快照落盘
func (p *SnapshotPersister) Flush(ctx context.Context) error {
	p.mu.Lock()
	if p.pending == nil && !p.running {
		p.mu.Unlock()
		return nil
	}
	waiter := make(chan struct{})
	p.waiters = append(p.waiters, waiter)
	p.mu.Unlock()

	select {
	case <-waiter:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop 写完剩余快照后退出
func (p *SnapshotPersister) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.mu.Unlock()
	close(p.stop)

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *SnapshotPersister) loop() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.stop:
			p.drain()
			return
		}
	}
}

func (p *SnapshotPersister) drain() {
	for {
		p.mu.Lock()
		job := p.pending
		p.pending = nil
		if job == nil {
			p.running = false
			waiters := p.waiters
			p.waiters = nil
			p.mu.Unlock()
			for _, waiter := range waiters {
				close(waiter)
			}
			return
		}
		p.running = true
		p.mu.Unlock()

		p.write(job)
	}
}

func (p *SnapshotPersister) write(job *persistJob) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	started := time.Now()
	var err error
	if job.remove {
		err = p.storage.RemoveCart(ctx, p.key, job.revision)
	} else {
		err = p.storage.SaveCart(ctx, p.key, job.state)
	}
	p.metrics.ObservePersist(time.Since(started), err)
	if err != nil {
		logger.Warnw("cart_persist_failed",
			"key", p.key,
			"op", job.op,
			"revision", job.revision,
			"remove", job.remove,
			"error", err,
		)
		return
	}
	logger.Debugw("cart_persisted", "key", p.key, "op", job.op, "revision", job.revision)
}

// QueuedCartStorage 写入经异步队列交给 worker 落库，读取直接走底层存储
type QueuedCartStorage struct {
	enqueuer CartSnapshotEnqueuer
	reader   CartStorage
}

// NewQueuedCartStorage 创建队列写入存储
func NewQueuedCartStorage(enqueuer CartSnapshotEnqueuer, reader CartStorage) *QueuedCartStorage {
	return &QueuedCartStorage{enqueuer: enqueuer, reader: reader}
}

// SaveCart 投递快照写入任务
func (s *QueuedCartStorage) SaveCart(ctx context.Context, key string, state *models.CartState) error {
	if state == nil {
		return nil
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal cart state: %w", err)
	}
	return s.enqueue(ctx, queue.CartSnapshotPayload{Key: key, Revision: state.Revision, Payload: string(payload)})
}

// LoadCart 从底层存储读取
func (s *QueuedCartStorage) LoadCart(ctx context.Context, key string) (*models.CartState, error) {
	return s.reader.LoadCart(ctx, key)
}

// RemoveCart 投递清空任务
func (s *QueuedCartStorage) RemoveCart(ctx context.Context, key string, revision uint64) error {
	return s.enqueue(ctx, queue.CartSnapshotPayload{Key: key, Revision: revision})
}

func (s *QueuedCartStorage) enqueue(ctx context.Context, payload queue.CartSnapshotPayload) error {
	if s.enqueuer == nil {
		return ErrQueueUnavailable
	}
	if err := s.enqueuer.EnqueueCartSnapshot(ctx, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}
	return nil
}
