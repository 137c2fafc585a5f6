// Package store implements the validator's local persistence layer: scoring
// round snapshots, per-miner aggregate state, the bet-event cache, and
// verified coldkey-to-EVM wallet mappings. The four tables share one
// database handle but nothing else; no operation holds a transaction across
// calls, so each write commits independently.
package store

import (
	"context"

	"wager-validator-store/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Store struct {
	db  *gorm.DB
	log *logrus.Logger
}

func New(db *gorm.DB, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{db: db, log: log}
}

// Counts reports the row count of each table, for operator visibility.
// Snapshots grow without bound by design; the console surfaces that here.
type Counts struct {
	Snapshots      int64
	Miners         int64
	Events         int64
	WalletMappings int64
}

func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	if err := s.db.WithContext(ctx).Model(&models.Snapshot{}).Count(&c.Snapshots).Error; err != nil {
		return c, err
	}
	if err := s.db.WithContext(ctx).Model(&models.MinerState{}).Count(&c.Miners).Error; err != nil {
		return c, err
	}
	if err := s.db.WithContext(ctx).Model(&models.BetEvent{}).Count(&c.Events).Error; err != nil {
		return c, err
	}
	if err := s.db.WithContext(ctx).Model(&models.WalletMapping{}).Count(&c.WalletMappings).Error; err != nil {
		return c, err
	}
	return c, nil
}
