package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultRecomputeDelay: окно, в котором несколько правок правил схлопываются в один пересчёт.
const DefaultRecomputeDelay = 120 * time.Millisecond

// Recomputer откладывает пересчёт тегов: каждый Schedule отменяет ожидающий
// таймер и взводит его заново.
type Recomputer struct {
	delay time.Duration
	fn    func(context.Context) int
	log   *zap.SugaredLogger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running sync.Mutex // не даёт двум пересчётам пересечься
}

// NewRecomputer создаёт планировщик; delay <= 0 означает DefaultRecomputeDelay.
func NewRecomputer(delay time.Duration, fn func(context.Context) int, logger *zap.SugaredLogger) *Recomputer {
	if delay <= 0 {
		delay = DefaultRecomputeDelay
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Recomputer{delay: delay, fn: fn, log: logger}
}

// Schedule взводит пересчёт через delay, отменяя ранее запланированный.
func (r *Recomputer) Schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.pending = true
	r.timer = time.AfterFunc(r.delay, r.fire)
}

func (r *Recomputer) fire() {
	r.mu.Lock()
	if !r.pending {
		r.mu.Unlock()
		return
	}
	r.pending = false
	r.timer = nil
	r.mu.Unlock()
	r.run()
}

func (r *Recomputer) run() {
	r.running.Lock()
	defer r.running.Unlock()
	n := r.fn(context.Background())
	r.log.Debugw("tags recomputed", "changed", n)
}

// Flush выполняет ожидающий пересчёт немедленно. Возвращает false, если ждать было нечего.
func (r *Recomputer) Flush() bool {
	r.mu.Lock()
	if !r.pending {
		r.mu.Unlock()
		// дождаться пересчёта, который уже выполняется
		r.running.Lock()
		r.running.Unlock()
		return false
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pending = false
	r.mu.Unlock()
	r.run()
	return true
}

// Stop отменяет ожидающий пересчёт.
func (r *Recomputer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pending = false
}

// Pending сообщает, запланирован ли пересчёт.
func (r *Recomputer) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}
