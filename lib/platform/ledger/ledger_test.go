package ledger

import (
	"errors"
	"path/filepath"
	"testing"

	"example.com/swarmpolicy/lib/core/adapter/persistentmetadata"
	"example.com/swarmpolicy/lib/core/domain"
	"example.com/swarmpolicy/lib/platform/skvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.skv.db")
	first := []domain.Download{{FromID: "a", ToID: "me", Blocks: 3}}
	second := []domain.Download{{FromID: "b", ToID: "me", Blocks: 1}, {FromID: "c", ToID: "me", Blocks: 2}}

	store, err := skvstore.Open(path)
	require.NoError(t, err)
	l, err := Open(store)
	require.NoError(t, err)
	assert.Equal(t, 0, l.CurrentRound())

	require.NoError(t, l.Record(first))
	require.NoError(t, l.Record(nil))
	require.NoError(t, l.Record(second))
	require.NoError(t, store.Close())

	store, err = skvstore.Open(path)
	require.NoError(t, err)
	defer store.Close()
	l, err = Open(store)
	require.NoError(t, err)

	assert.Equal(t, 3, l.CurrentRound())
	assert.Equal(t, first, l.Downloads(0))
	assert.Empty(t, l.Downloads(1))
	assert.Equal(t, second, l.Downloads(2))
	assert.Len(t, l.Range(1, 3), 2)
	assert.Nil(t, l.Range(-1, 3))
}

type failingStore struct {
	values map[string]interface{}
	failOn string
}

var errDisk = errors.New("disk full")

func (s *failingStore) Put(key string, value interface{}) error {
	if key == s.failOn {
		return errDisk
	}
	s.values[key] = value
	return nil
}

func (s *failingStore) Get(key string, value interface{}) error {
	if key == s.failOn {
		return errDisk
	}
	return persistentmetadata.ErrNotFound
}

func TestLedgerWriteFailure(t *testing.T) {
	store := &failingStore{values: map[string]interface{}{}, failOn: "round/0"}
	l, err := Open(store)
	require.NoError(t, err)

	err = l.Record([]domain.Download{{FromID: "a", ToID: "me", Blocks: 1}})
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, 0, l.CurrentRound())
	assert.NotContains(t, store.values, "rounds")
}

func TestLedgerReadFailure(t *testing.T) {
	_, err := Open(&failingStore{failOn: "rounds"})
	assert.ErrorIs(t, err, errDisk)
}
