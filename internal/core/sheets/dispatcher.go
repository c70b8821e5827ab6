package sheets

import (
	"context"
	"log"
	"sync"

	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
)

// DefaultQueueSize は Dispatcher が保持できる未送信 Record 数の既定値です。
const DefaultQueueSize = 64

// Dispatcher は候補者の保存後に Record を非同期で転送します。
// 転送の成否は保存処理に影響しません。
type Dispatcher struct {
	forwarder Forwarder
	queue     chan Record
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewDispatcher は Dispatcher を生成し、ワーカーを 1 つ起動します。
func NewDispatcher(forwarder Forwarder, size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	d := &Dispatcher{
		forwarder: forwarder,
		queue:     make(chan Record, size),
		done:      make(chan struct{}),
	}
	go d.run()
	return d
}

// CandidateSaved は candidate.SavedHook を実装します。
func (d *Dispatcher) CandidateSaved(_ context.Context, c *candidate.Candidate) {
	if c == nil {
		return
	}
	d.Enqueue(RecordFromCandidate(c))
}

// Enqueue は Record をキューに積みます。キューが満杯または停止済みの場合は破棄して false を返します。
func (d *Dispatcher) Enqueue(r Record) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		log.Printf("sheets: dispatcher closed, dropping record for %s", r.Email)
		return false
	}

	select {
	case d.queue <- r:
		return true
	default:
		log.Printf("sheets: queue full, dropping record for %s", r.Email)
		return false
	}
}

// Close は新規受付を止め、キューに残った Record の転送完了を待ちます。
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for r := range d.queue {
		result, err := d.forwarder.Forward(context.Background(), r)
		switch {
		case err != nil:
			log.Printf("sheets: forward failed for %s: %v", r.Email, err)
		case result != nil && !result.Success:
			log.Printf("sheets: forward skipped for %s: %s", r.Email, result.Message)
		}
	}
}
