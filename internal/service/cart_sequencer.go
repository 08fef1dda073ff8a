package service

import (
	"context"
	"sync"
)

// intentTicket 意图排队号；key 相同的意图中只有最后签发的一个被视为最新
type intentTicket struct {
	seq uint64
	key string
}

// intentSequencer 按签发顺序依次放行意图
//
// 远程查询在拿到排队号之后并发进行，真正修改状态的步骤严格按排队号执行。
type intentSequencer struct {
	mu        sync.Mutex
	next      uint64
	serving   uint64
	abandoned map[uint64]struct{}
	latest    map[string]uint64
	changed   chan struct{}
}

func newIntentSequencer() *intentSequencer {
	return &intentSequencer{
		abandoned: make(map[uint64]struct{}),
		latest:    make(map[string]uint64),
		changed:   make(chan struct{}),
	}
}

// Take 签发排队号
func (q *intentSequencer) Take(key string) intentTicket {
	q.mu.Lock()
	defer q.mu.Unlock()
	ticket := intentTicket{seq: q.next, key: key}
	q.next++
	if key != "" {
		q.latest[key] = ticket.seq
	}
	return ticket
}

// Run 轮到该排队号时执行 fn，latest 表示期间没有同 key 的更新意图
func (q *intentSequencer) Run(ctx context.Context, ticket intentTicket, fn func(latest bool) error) error {
	for {
		q.mu.Lock()
		if q.serving == ticket.seq {
			latest := ticket.key == "" || q.latest[ticket.key] == ticket.seq
			q.mu.Unlock()
			defer q.finish(ticket)
			return fn(latest)
		}
		wait := q.changed
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			q.Abandon(ticket)
			return ctx.Err()
		}
	}
}

// Abandon 放弃排队号，后续意图不再等待它
func (q *intentSequencer) Abandon(ticket intentTicket) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if ticket.seq < q.serving {
		return
	}
	if ticket.seq == q.serving {
		q.advanceLocked()
		return
	}
	q.abandoned[ticket.seq] = struct{}{}
}

func (q *intentSequencer) finish(ticket intentTicket) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if ticket.seq == q.serving {
		q.advanceLocked()
	}
}

func (q *intentSequencer) advanceLocked() {
	q.serving++
	for {
		if _, ok := q.abandoned[q.serving]; !ok {
			break
		}
		delete(q.abandoned, q.serving)
		q.serving++
	}
	for key, seq := range q.latest {
		if seq < q.serving {
			delete(q.latest, key)
		}
	}
	close(q.changed)
	q.changed = make(chan struct{})
}
