package store

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerStoreAppendOrder(t *testing.T) {
	s := newTestBadgerStore(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(testEvent(i)))
	}

	events := s.ReadAll()
	require.Len(t, events, 10)
	for i, ev := range events {
		require.Equal(t, testEvent(i).ID, ev.ID)
	}
}

func TestBadgerStoreRoundTripsFields(t *testing.T) {
	s := newTestBadgerStore(t)

	dur := 42.5
	ev := testEvent(0)
	ev.VideoCaption = "dance challenge"
	ev.WatchDuration = &dur
	ev.Device = DeviceInfo{UserAgent: "ua", Platform: "iOS", ScreenWidth: 390, ScreenHeight: 844}
	ev.Location = &Location{Country: "DE", City: "Berlin", Timezone: "Europe/Berlin"}
	require.NoError(t, s.Append(ev))

	events := s.ReadAll()
	require.Len(t, events, 1)
	require.Equal(t, ev, events[0])
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, s.Append(testEvent(0)))
	require.NoError(t, s.Append(testEvent(1)))
	require.NoError(t, s.Close())

	s, err = OpenBadger(dir)
	require.NoError(t, err)
	defer s.Close()
	require.Len(t, s.ReadAll(), 2)
}

func TestBadgerStoreClearIdempotent(t *testing.T) {
	s := newTestBadgerStore(t)
	require.NoError(t, s.Append(testEvent(0)))

	require.NoError(t, s.Clear())
	require.Empty(t, s.ReadAll())
	require.NoError(t, s.Clear())
	require.Empty(t, s.ReadAll())
}

func TestBadgerStoreCorruptDataReadsAsEmpty(t *testing.T) {
	s := newTestBadgerStore(t)
	require.NoError(t, s.Append(testEvent(0)))

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(logKey), []byte("{not json"))
	})
	require.NoError(t, err)

	require.Empty(t, s.ReadAll())
}

func TestBadgerStoreUnknownVersionReadsAsEmpty(t *testing.T) {
	s := newTestBadgerStore(t)

	data, err := json.Marshal(envelope{Version: 99, Interactions: []Interaction{testEvent(0)}})
	require.NoError(t, err)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(logKey), data)
	})
	require.NoError(t, err)

	require.Empty(t, s.ReadAll())
}

func TestBadgerStoreAppendAfterCorruptionStartsFresh(t *testing.T) {
	s := newTestBadgerStore(t)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(logKey), []byte("garbage"))
	})
	require.NoError(t, err)

	require.NoError(t, s.Append(testEvent(7)))

	events := s.ReadAll()
	require.Len(t, events, 1)
	require.Equal(t, testEvent(7).ID, events[0].ID)
}
