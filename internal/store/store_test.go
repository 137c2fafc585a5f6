package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"wager-validator-store/internal/config"
	dbpkg "wager-validator-store/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a fresh sqlite database in a temp dir.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := config.Config{
		DBDialect: config.DialectSqlite,
		DBDsn:     filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := dbpkg.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, dbpkg.AutoMigrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	return New(db, log)
}

func TestCounts_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	require.Zero(t, counts.Snapshots)
	require.Zero(t, counts.Miners)
	require.Zero(t, counts.Events)
	require.Zero(t, counts.WalletMappings)
}

func TestCounts_ReflectsWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, 100, map[int64]float64{1: 0.5}, map[int64]float64{1: 10}))
	require.NoError(t, s.UpsertMinerState(ctx, MinerStateInput{UID: 1, Hotkey: "hk", Coldkey: "ck"}))
	require.NoError(t, s.CacheEvent(ctx, BetEventInput{
		EVMAddress: "0xabc0000000000000000000000000000000000001", GameID: 1, BlockNumber: 5,
	}))
	require.True(t, s.SaveWalletMapping(ctx, WalletMappingInput{
		Coldkey:    "ck",
		EVMAddress: "0xAbC0000000000000000000000000000000000001",
		Signature:  "sig",
		Message:    "msg",
		Timestamp:  1700000000000,
	}))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Snapshots)
	require.EqualValues(t, 1, counts.Miners)
	require.EqualValues(t, 1, counts.Events)
	require.EqualValues(t, 1, counts.WalletMappings)
}
