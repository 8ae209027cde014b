package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_Exclusive(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	unlock, ok, err := l.TryLock(ctx, "clock:emp-1")
	require.NoError(t, err)
	require.True(t, ok)

	held, _ := l.Held(ctx, "clock:emp-1")
	assert.True(t, held)

	_, ok, _ = l.TryLock(ctx, "clock:emp-1")
	assert.False(t, ok)

	_, ok, _ = l.TryLock(ctx, "clock:emp-2")
	assert.True(t, ok)

	unlock()
	unlock()
	held, _ = l.Held(ctx, "clock:emp-1")
	assert.False(t, held)

	_, ok, _ = l.TryLock(ctx, "clock:emp-1")
	assert.True(t, ok)
}

func TestMemoryLocker_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	var winners int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := l.TryLock(ctx, "clock:emp-1"); ok {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners)
}

func newTestRedisLocker(t *testing.T) (*RedisLocker, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	l := NewRedisLocker(client, time.Minute)
	l.newToken = func() string { return "token-1" }
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	return l, mock
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	l, mock := newTestRedisLocker(t)

	mock.ExpectSetNX("ems:lock:clock:emp-1", "token-1", time.Minute).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"ems:lock:clock:emp-1"}, "token-1").SetVal(int64(1))

	unlock, ok, err := l.TryLock(context.Background(), "clock:emp-1")
	require.NoError(t, err)
	require.True(t, ok)
	unlock()
	unlock()
}

func TestRedisLocker_AlreadyHeld(t *testing.T) {
	l, mock := newTestRedisLocker(t)

	mock.ExpectSetNX("ems:lock:clock:emp-1", "token-1", time.Minute).SetVal(false)

	_, ok, err := l.TryLock(context.Background(), "clock:emp-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLocker_Error(t *testing.T) {
	l, mock := newTestRedisLocker(t)

	mock.ExpectSetNX("ems:lock:clock:emp-1", "token-1", time.Minute).SetErr(errors.New("connection refused"))

	_, ok, err := l.TryLock(context.Background(), "clock:emp-1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisLocker_Held(t *testing.T) {
	l, mock := newTestRedisLocker(t)

	mock.ExpectExists("ems:lock:clock:emp-1").SetVal(1)
	mock.ExpectExists("ems:lock:clock:emp-2").SetVal(0)

	held, err := l.Held(context.Background(), "clock:emp-1")
	require.NoError(t, err)
	assert.True(t, held)

	held, err = l.Held(context.Background(), "clock:emp-2")
	require.NoError(t, err)
	assert.False(t, held)
}
