package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awmpietro/under5-screening/internal/logger"
	"github.com/awmpietro/under5-screening/internal/triage"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func screened(t *testing.T) (string, triage.Result) {
	a := triage.AnswerSet{
		AgeGroup: triage.AgeChild,
		Fever:    true,
		MUAC:     triage.MUACGreen,
		RDT:      triage.RDTPositive,
	}
	res, err := triage.Screen(a)
	require.NoError(t, err)
	return a.Fingerprint(), res
}

func TestRedis_StoresAndReturnsResult(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewRedis(client, time.Hour, logger.NewTestLogger(t))
	ctx := context.Background()
	key, want := screened(t)

	calls := 0
	fn := func() (triage.Result, error) { calls++; return want, nil }

	got, err := c.GetOrCompute(ctx, key, fn)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = c.GetOrCompute(ctx, key, fn)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, calls)

	assert.True(t, mr.Exists(defaultKeyPrefix+key))
	assert.Equal(t, time.Hour, mr.TTL(defaultKeyPrefix+key))
}

func TestRedis_ExpiredEntryIsRecomputed(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewRedis(client, time.Minute, nil)
	ctx := context.Background()
	key, want := screened(t)

	calls := 0
	fn := func() (triage.Result, error) { calls++; return want, nil }

	_, err := c.GetOrCompute(ctx, key, fn)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = c.GetOrCompute(ctx, key, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRedis_CorruptEntryIsReplaced(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewRedis(client, time.Minute, logger.NewTestLogger(t))
	key, want := screened(t)
	require.NoError(t, mr.Set(defaultKeyPrefix+key, "{not json"))

	got, err := c.GetOrCompute(context.Background(), key, func() (triage.Result, error) { return want, nil })
	require.NoError(t, err)
	assert.Equal(t, want, got)

	stored, err := mr.Get(defaultKeyPrefix + key)
	require.NoError(t, err)
	assert.NotEqual(t, "{not json", stored)
}

func TestRedis_UnavailableFallsBackToCompute(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewRedis(client, time.Minute, logger.NewTestLogger(t))
	key, want := screened(t)
	mr.Close()

	got, err := c.GetOrCompute(context.Background(), key, func() (triage.Result, error) { return want, nil })
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedis_ComputeErrorIsNotStored(t *testing.T) {
	mr, client := setupRedis(t)
	c := NewRedis(client, time.Minute, nil)

	_, err := c.GetOrCompute(context.Background(), "k", func() (triage.Result, error) {
		return triage.Result{}, errors.New("boom")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists(defaultKeyPrefix+"k"))
}
