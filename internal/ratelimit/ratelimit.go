// Package ratelimit: лимитер запросов по ключу (token bucket на ключ).
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedLimiter хранит отдельный rate.Limiter на каждый ключ (обычно IP).
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// New создаёт лимитер: rps запросов в секунду и burst сверху.
// Ключи без обращений дольше idle выкидываются в Prune.
func New(rps float64, burst int, idle time.Duration) *KeyedLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		idle:     idle,
		now:      time.Now,
	}
}

// Allow не блокирует: true, если у ключа есть токен.
func (k *KeyedLimiter) Allow(key string) bool {
	now := k.now()
	k.mu.Lock()
	e, ok := k.limiters[key]
	if !ok {
		e = &entry{lim: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = e
	}
	e.lastSeen = now
	k.mu.Unlock()
	return e.lim.AllowN(now, 1)
}

// Prune удаляет простаивающие ключи и возвращает их число.
func (k *KeyedLimiter) Prune() int {
	if k.idle <= 0 {
		return 0
	}
	cutoff := k.now().Add(-k.idle)
	k.mu.Lock()
	defer k.mu.Unlock()
	n := 0
	for key, e := range k.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(k.limiters, key)
			n++
		}
	}
	return n
}

// Len: число отслеживаемых ключей.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}
