package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"wager-validator-store/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SnapshotRecord is a full scoring-round snapshot as returned to callers.
type SnapshotRecord struct {
	BlockNumber int64
	Timestamp   time.Time
	TotalMiners int
	TotalVolume float64
	Scores      map[int64]float64
	Volumes     map[int64]float64
}

// SnapshotSummary carries the listing fields only, without the score and
// volume payloads.
type SnapshotSummary struct {
	BlockNumber int64
	Timestamp   time.Time
	TotalMiners int
	TotalVolume float64
}

// SaveSnapshot appends one snapshot row for a committed scoring round.
// TotalMiners is the count of strictly positive scores, TotalVolume the sum
// of all volumes. Snapshots are never updated or deleted.
func (s *Store) SaveSnapshot(ctx context.Context, blockNumber int64, scores, volumes map[int64]float64) error {
	scoresJSON, err := encodeUIDMap(scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	volumesJSON, err := encodeUIDMap(volumes)
	if err != nil {
		return fmt.Errorf("encode volumes: %w", err)
	}

	totalMiners := 0
	for _, score := range scores {
		if score > 0 {
			totalMiners++
		}
	}
	totalVolume := 0.0
	for _, v := range volumes {
		totalVolume += v
	}

	row := models.Snapshot{
		BlockNumber: blockNumber,
		TotalMiners: totalMiners,
		TotalVolume: totalVolume,
		ScoresJSON:  scoresJSON,
		VolumesJSON: volumesJSON,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"block":  blockNumber,
		"miners": totalMiners,
		"volume": totalVolume,
	}).Info("snapshot saved")
	return nil
}

// LatestSnapshot returns the most recently inserted snapshot, or nil when
// the table is empty. Recency is insertion order, not block number.
func (s *Store) LatestSnapshot(ctx context.Context) (*SnapshotRecord, error) {
	var row models.Snapshot
	err := s.db.WithContext(ctx).Order("id DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snapshotRecord(row)
}

// ListSnapshots returns up to limit snapshot summaries, most recent first.
func (s *Store) ListSnapshots(ctx context.Context, limit int) ([]SnapshotSummary, error) {
	var rows []models.Snapshot
	err := s.db.WithContext(ctx).
		Select("id", "block_number", "timestamp", "total_miners", "total_volume").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]SnapshotSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, SnapshotSummary{
			BlockNumber: r.BlockNumber,
			Timestamp:   r.Timestamp,
			TotalMiners: r.TotalMiners,
			TotalVolume: r.TotalVolume,
		})
	}
	return summaries, nil
}

// SnapshotByBlock returns the snapshot recorded at the given block number,
// or nil when none exists. Block numbers are not unique; when several rows
// share one, the most recently inserted wins.
func (s *Store) SnapshotByBlock(ctx context.Context, blockNumber int64) (*SnapshotRecord, error) {
	var row models.Snapshot
	err := s.db.WithContext(ctx).
		Where("block_number = ?", blockNumber).
		Order("id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snapshotRecord(row)
}

func snapshotRecord(row models.Snapshot) (*SnapshotRecord, error) {
	scores, err := decodeUIDMap(row.ScoresJSON)
	if err != nil {
		return nil, fmt.Errorf("decode scores for block %d: %w", row.BlockNumber, err)
	}
	volumes, err := decodeUIDMap(row.VolumesJSON)
	if err != nil {
		return nil, fmt.Errorf("decode volumes for block %d: %w", row.BlockNumber, err)
	}
	return &SnapshotRecord{
		BlockNumber: row.BlockNumber,
		Timestamp:   row.Timestamp,
		TotalMiners: row.TotalMiners,
		TotalVolume: row.TotalVolume,
		Scores:      scores,
		Volumes:     volumes,
	}, nil
}

// encodeUIDMap serializes a UID-keyed map as a JSON object. JSON object
// keys are strings, so UIDs go through strconv; decodeUIDMap reverses it.
func encodeUIDMap(m map[int64]float64) (string, error) {
	out := make(map[string]float64, len(m))
	for uid, v := range m {
		out[strconv.FormatInt(uid, 10)] = v
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeUIDMap(payload string) (map[int64]float64, error) {
	if payload == "" {
		return map[int64]float64{}, nil
	}
	var raw map[string]float64
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, err
	}
	out := make(map[int64]float64, len(raw))
	for k, v := range raw {
		uid, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric uid key %q", k)
		}
		out[uid] = v
	}
	return out, nil
}
