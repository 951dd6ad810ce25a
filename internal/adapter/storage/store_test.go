package storage

import (
	"testing"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/core/domain"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {

	require := require.New(t)

	fs := afero.NewMemMapFs()
	store := NewSnapshotStore(fs, "data/state.json")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot := domain.NewLedgerSnapshot(now)
	meter := snapshot.Meter(domain.METRIC_PRODUCTION)
	meter.LifetimeTotal = 123.456
	meter.LastRawValue = 9876.5
	meter.Initialized = true
	snapshot.SpotVsFixedSavings = -4.2
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	snapshot.QuotaPeriodStart = &start
	snapshot.QuotaMeterReadingAtStart = 500

	require.NoError(store.Save(*snapshot))

	loaded, err := store.Load()
	require.NoError(err)
	require.NotNil(loaded)
	require.Equal(snapshot, loaded)
}

func TestSnapshotStoreMissingFileMeansFirstStart(t *testing.T) {

	require := require.New(t)

	store := NewSnapshotStore(afero.NewMemMapFs(), "state.json")
	loaded, err := store.Load()
	require.NoError(err)
	require.Nil(loaded)
}

func TestSnapshotStoreCorruptFile(t *testing.T) {

	require := require.New(t)

	fs := afero.NewMemMapFs()
	require.NoError(afero.WriteFile(fs, "state.json", []byte("{not json"), 0o644))

	store := NewSnapshotStore(fs, "state.json")
	_, err := store.Load()
	require.Error(err)
}

func TestSnapshotStoreOverwritesPreviousSnapshot(t *testing.T) {

	require := require.New(t)

	fs := afero.NewMemMapFs()
	store := NewSnapshotStore(fs, "state.json")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := domain.NewLedgerSnapshot(now)
	first.Meter(domain.METRIC_IMPORT).LifetimeTotal = 10
	require.NoError(store.Save(*first))

	second := domain.NewLedgerSnapshot(now)
	second.Meter(domain.METRIC_IMPORT).LifetimeTotal = 20
	require.NoError(store.Save(*second))

	loaded, err := store.Load()
	require.NoError(err)
	require.InDelta(20.0, loaded.Meter(domain.METRIC_IMPORT).LifetimeTotal, 1e-9)

	// no temp file left behind
	exists, err := afero.Exists(fs, "state.json.tmp")
	require.NoError(err)
	require.False(exists)
}
