package store

import (
	"context"
	"fmt"
	"time"

	"wager-validator-store/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"
)

// BetEventInput is one wager event extracted from chain logs by the caller.
type BetEventInput struct {
	EVMAddress  string
	GameID      int64
	Amount      float64
	Side        int
	BlockNumber int64
	Timestamp   int64 // unix seconds
}

// BetEventRecord is a cached wager event as returned to callers.
type BetEventRecord struct {
	GameID      int64
	Amount      float64
	Side        int
	BlockNumber int64
	Timestamp   int64
}

// CacheEvent stores a bet event unless the same (address, game, block, side)
// tuple is already cached. Callers re-scan overlapping block ranges and
// submit speculatively; a duplicate is a successful no-op, never an error.
func (s *Store) CacheEvent(ctx context.Context, in BetEventInput) error {
	row := models.BetEvent{
		EVMAddress:  in.EVMAddress,
		GameID:      in.GameID,
		Amount:      in.Amount,
		Side:        in.Side,
		BlockNumber: in.BlockNumber,
		Timestamp:   in.Timestamp,
	}

	tx := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "evm_address"},
				{Name: "game_id"},
				{Name: "block_number"},
				{Name: "side"},
			},
			DoNothing: true,
		}).
		Create(&row)
	if tx.Error != nil {
		return fmt.Errorf("cache bet event: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		s.log.WithFields(logrus.Fields{
			"address": in.EVMAddress,
			"game":    in.GameID,
			"block":   in.BlockNumber,
		}).Debug("duplicate bet event ignored")
	}
	return nil
}

// CachedEvents returns all cached events for an address with timestamp at
// or after since, newest first. This is the read path used instead of
// re-querying the chain for an already-scanned window.
func (s *Store) CachedEvents(ctx context.Context, evmAddress string, since int64) ([]BetEventRecord, error) {
	var rows []models.BetEvent
	err := s.db.WithContext(ctx).
		Where("evm_address = ? AND timestamp >= ?", evmAddress, since).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]BetEventRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, BetEventRecord{
			GameID:      r.GameID,
			Amount:      r.Amount,
			Side:        r.Side,
			BlockNumber: r.BlockNumber,
			Timestamp:   r.Timestamp,
		})
	}
	return records, nil
}

// PurgeEventsOlderThan deletes every cached event whose timestamp is older
// than now minus the given number of days, measured against this machine's
// clock at call time. Returns the number of rows removed; zero is a normal
// outcome and not logged.
func (s *Store) PurgeEventsOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().Unix() - int64(days)*86400

	tx := s.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.BetEvent{})
	if tx.Error != nil {
		return 0, fmt.Errorf("purge bet events: %w", tx.Error)
	}

	if tx.RowsAffected > 0 {
		s.log.WithField("removed", tx.RowsAffected).Info("purged old bet events")
	}
	return tx.RowsAffected, nil
}
