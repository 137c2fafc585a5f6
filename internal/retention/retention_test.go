package retention

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"wager-validator-store/internal/config"
	dbpkg "wager-validator-store/internal/db"
	"wager-validator-store/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
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

	return store.New(db, log)
}

func TestSweeper_PurgesOnStart(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().Unix() - 20*86400
	require.NoError(t, st.CacheEvent(ctx, store.BetEventInput{
		EVMAddress:  "0xabc0000000000000000000000000000000000001",
		GameID:      1,
		BlockNumber: 1,
		Timestamp:   old,
	}))
	require.NoError(t, st.CacheEvent(ctx, store.BetEventInput{
		EVMAddress:  "0xabc0000000000000000000000000000000000001",
		GameID:      2,
		BlockNumber: 2,
		Timestamp:   time.Now().UTC().Unix(),
	}))

	sweeper := New(st, 14, "@hourly", nil)
	require.NoError(t, sweeper.Start())
	defer sweeper.Stop()

	// Start kicks off an immediate sweep in the background
	require.Eventually(t, func() bool {
		counts, err := st.Counts(ctx)
		return err == nil && counts.Events == 1
	}, 5*time.Second, 50*time.Millisecond)
}

func TestSweeper_InvalidSchedule(t *testing.T) {
	st := newTestStore(t)

	sweeper := New(st, 14, "not a schedule", nil)
	require.Error(t, sweeper.Start())
}

func TestSweeper_StopIsClean(t *testing.T) {
	st := newTestStore(t)

	sweeper := New(st, 14, "@hourly", nil)
	require.NoError(t, sweeper.Start())
	sweeper.Stop()
}
