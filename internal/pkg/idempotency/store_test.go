package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "idemp:/api/v1/payrolls/calculate-all:u-1:abc"

func newTestStore(t *testing.T) (*Store, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	tokens := 0
	store := NewStore(db, time.Hour, WithTokenFunc(func() string {
		tokens++
		return fmt.Sprintf("tok-%d", tokens)
	}))
	return store, mock
}

func TestKey(t *testing.T) {
	assert.Equal(t, testKey, Key("/api/v1/payrolls/calculate-all", "u-1", "abc"))
}

func TestStore_GetMiss(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectGet(testKey).RedisNil()

	got, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_GetHit(t *testing.T) {
	store, mock := newTestStore(t)
	want := CachedResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"success":true}`)}
	payload, err := json.Marshal(want)
	require.NoError(t, err)
	mock.ExpectGet(testKey).SetVal(string(payload))

	got, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestStore_GetError(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectGet(testKey).SetErr(errors.New("connection refused"))

	_, err := store.Get(context.Background(), testKey)
	assert.ErrorContains(t, err, "connection refused")
}

func TestStore_Acquire(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectSetNX(testKey+":lock", "tok-1", DefaultLockTTL).SetVal(true)
	mock.ExpectSetNX(testKey+":lock", "tok-2", DefaultLockTTL).SetVal(false)

	token, ok, err := store.Acquire(context.Background(), testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)

	_, ok, err = store.Acquire(context.Background(), testKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_AcquireWithLockTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewStore(db, time.Hour, WithLockTTL(15*time.Minute), WithTokenFunc(func() string { return "tok" }))
	mock.ExpectSetNX(testKey+":lock", "tok", 15*time.Minute).SetVal(true)

	_, ok, err := store.Acquire(context.Background(), testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveAndRelease(t *testing.T) {
	store, mock := newTestStore(t)
	resp := CachedResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(`{}`)}
	payload, err := json.Marshal(resp)
	require.NoError(t, err)

	mock.ExpectSet(testKey, string(payload), time.Hour).SetVal("OK")
	mock.ExpectEval(ReleaseScript, []string{testKey + ":lock"}, "tok-1").SetVal(int64(1))

	require.NoError(t, store.Save(context.Background(), testKey, resp))
	require.NoError(t, store.Release(context.Background(), testKey, "tok-1"))
}

func TestStore_ReleaseOfExpiredLockKeepsNewerHolder(t *testing.T) {
	store, mock := newTestStore(t)
	// The script reports 0 deletions when the lock now holds another token.
	mock.ExpectEval(ReleaseScript, []string{testKey + ":lock"}, "tok-old").SetVal(int64(0))

	assert.NoError(t, store.Release(context.Background(), testKey, "tok-old"))
}
