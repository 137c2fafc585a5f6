package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wager-validator-store/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MinerStateInput is the full per-miner record supplied by the scorer.
// Upserts replace the stored row wholesale, so every field must be set.
type MinerStateInput struct {
	UID            int64
	Hotkey         string
	Coldkey        string
	EVMAddress     *string
	DailyVolumes   []float64
	WeightedVolume float64
	Score          float64
}

// MinerStateRecord is the stored per-miner state as returned to callers.
type MinerStateRecord struct {
	UID            int64
	Hotkey         string
	Coldkey        string
	EVMAddress     *string
	DailyVolumes   []float64
	WeightedVolume float64
	Score          float64
	LastUpdated    time.Time
}

// UpsertMinerState writes the latest aggregate for one miner. A row already
// present for the UID is replaced in full; nothing from the previous write
// survives. LastUpdated is set to the write time.
func (s *Store) UpsertMinerState(ctx context.Context, in MinerStateInput) error {
	volumesJSON, err := json.Marshal(in.DailyVolumes)
	if err != nil {
		return fmt.Errorf("encode daily volumes: %w", err)
	}

	row := models.MinerState{
		UID:              in.UID,
		Hotkey:           in.Hotkey,
		Coldkey:          in.Coldkey,
		EVMAddress:       in.EVMAddress,
		DailyVolumesJSON: string(volumesJSON),
		WeightedVolume:   in.WeightedVolume,
		Score:            in.Score,
		LastUpdated:      time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert miner %d: %w", in.UID, err)
	}
	return nil
}

// MinerState returns the stored state for one UID, or nil when absent.
func (s *Store) MinerState(ctx context.Context, uid int64) (*MinerStateRecord, error) {
	var row models.MinerState
	err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return minerStateRecord(row)
}

// AllMinerStates returns every miner row ordered by score descending, with
// UID ascending as the stable tiebreak.
func (s *Store) AllMinerStates(ctx context.Context) ([]MinerStateRecord, error) {
	var rows []models.MinerState
	err := s.db.WithContext(ctx).Order("score DESC, uid ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]MinerStateRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := minerStateRecord(r)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

func minerStateRecord(row models.MinerState) (*MinerStateRecord, error) {
	var volumes []float64
	if row.DailyVolumesJSON != "" {
		if err := json.Unmarshal([]byte(row.DailyVolumesJSON), &volumes); err != nil {
			return nil, fmt.Errorf("decode daily volumes for uid %d: %w", row.UID, err)
		}
	}
	return &MinerStateRecord{
		UID:            row.UID,
		Hotkey:         row.Hotkey,
		Coldkey:        row.Coldkey,
		EVMAddress:     row.EVMAddress,
		DailyVolumes:   volumes,
		WeightedVolume: row.WeightedVolume,
		Score:          row.Score,
		LastUpdated:    row.LastUpdated,
	}, nil
}
