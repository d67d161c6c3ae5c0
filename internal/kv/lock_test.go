package kv

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerSerialises(t *testing.T) {
	ctx := context.Background()
	locker := NewLocalLocker()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Lock(ctx, "product:1")
			if err != nil {
				return
			}
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, locker.size())
}

func TestLocalLockerHonoursContext(t *testing.T) {
	locker := NewLocalLocker()

	release, err := locker.Lock(context.Background(), "customer:1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "customer:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLockKeysDedupesAndReleases(t *testing.T) {
	ctx := context.Background()
	locker := NewLocalLocker()

	release, err := LockKeys(ctx, locker, "product:b", "product:a", "product:b")
	require.NoError(t, err)
	release()

	again, err := LockKeys(ctx, locker, "product:a", "product:b")
	require.NoError(t, err)
	again()
}

func TestLocalLockerForgetsReleasedKeys(t *testing.T) {
	ctx := context.Background()
	locker := NewLocalLocker()

	for i := 0; i < 100; i++ {
		release, err := locker.Lock(ctx, "product:"+strconv.Itoa(i))
		require.NoError(t, err)
		release()
	}
	assert.Zero(t, locker.size())

	held, err := locker.Lock(ctx, "product:1")
	require.NoError(t, err)

	timeout, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(timeout, "product:1")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, locker.size(), "holder keeps the entry after a waiter gives up")

	held()
	assert.Zero(t, locker.size())
}
