package outbox

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "outbox.db"), "notifications")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEnqueueAndGetBatch(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Notification{Email: "a@example.com", Subject: "s1", Body: "b1"}))
	require.NoError(t, store.Enqueue(Notification{Email: "b@example.com", Subject: "s2", Body: "b2"}))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, "a@example.com", items[0].Email)
}

func TestGetBatchRespectsLimit(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Enqueue(Notification{Email: "x@example.com"}))
	}

	items, err := store.GetBatch(3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Enqueue(Notification{Email: "a@example.com"}))

	items, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, store.Remove(items[0]))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestRequeueMovesToBack(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Enqueue(Notification{Email: "first@example.com"}))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.Enqueue(Notification{Email: "second@example.com"}))

	items, err := store.GetBatch(2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	front := items[0]
	require.NoError(t, store.Remove(front))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.Requeue(front))

	items, err = store.GetBatch(2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second@example.com", items[0].Email)
	assert.Equal(t, "first@example.com", items[1].Email)
}

func TestCleanup(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Enqueue(Notification{Email: "old@example.com", Timestamp: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, store.Enqueue(Notification{Email: "new@example.com"}))

	require.NoError(t, store.Cleanup(time.Now().Add(-24*time.Hour)))

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "new@example.com", items[0].Email)
}
