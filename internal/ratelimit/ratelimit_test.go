package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiter_PerKeyBurst(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New(1, 2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"), "burst exhausted")
	// другой ключ не затронут
	assert.True(t, l.Allow("2.2.2.2"))

	// через секунду появился один токен
	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"))
}

func TestKeyedLimiter_Prune(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New(5, 5, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(45 * time.Second)
	l.Allow("b")
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, l.Prune())
	assert.Equal(t, 1, l.Len())

	assert.Equal(t, 0, New(1, 1, 0).Prune())
}
