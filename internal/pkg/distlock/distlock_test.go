package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisLock_MutualExclusion(t *testing.T) {
	_, client := newRedis(t)
	ctx := context.Background()

	a := NewRedisLock(client, "finalize:s1", time.Minute)
	b := NewRedisLock(client, "finalize:s1", time.Minute)

	ok, err := a.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second contender must not acquire")

	assert.ErrorIs(t, b.Release(ctx), ErrNotHeld, "non-owner cannot release")
	require.NoError(t, a.Release(ctx))

	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLock_ExpiresAndExtends(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	l := NewRedisLock(client, "finalize:s2", 2*time.Second)
	ok, err := l.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "lock:finalize:s2", l.Key())

	require.NoError(t, l.Extend(ctx, 10*time.Second))
	mr.FastForward(5 * time.Second)
	assert.True(t, mr.Exists(l.Key()))

	mr.FastForward(6 * time.Second)
	assert.False(t, mr.Exists(l.Key()))
	assert.ErrorIs(t, l.Extend(ctx, time.Second), ErrNotHeld)
}

func TestPGAdvisoryLock_AcquireRelease(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	l := NewPGAdvisoryLock(db, "finalize:s3")
	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WithArgs(l.lockID).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(true))
	mock.ExpectQuery("SELECT pg_advisory_unlock").
		WithArgs(l.lockID).
		WillReturnRows(sqlmock.NewRows([]string{"pg_advisory_unlock"}).AddRow(true))

	ctx := context.Background()
	ok, err := l.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, l.Release(ctx))
	assert.ErrorIs(t, l.Release(ctx), ErrNotHeld)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGAdvisoryLock_Contended(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	l := NewPGAdvisoryLock(db, "finalize:s4")
	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WithArgs(l.lockID).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(false))

	ok, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewProvider(t *testing.T) {
	_, client := newRedis(t)
	assert.Nil(t, NewProvider(nil, nil, time.Second))

	p := NewProvider(client, nil, time.Second)
	require.NotNil(t, p)
	_, isRedis := p.NewLock("k").(*RedisLock)
	assert.True(t, isRedis)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	p = NewProvider(nil, db, time.Second)
	_, isPG := p.NewLock("k").(*PGAdvisoryLock)
	assert.True(t, isPG)
}
