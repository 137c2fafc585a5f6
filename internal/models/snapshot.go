// Package models defines the database models for the validator store.
package models

import "time"

// Snapshot is an immutable record of one committed scoring round.
// Rows are append-only; insertion order (ID) is the recency order, because
// block numbers are caller-supplied and not guaranteed to increase.
type Snapshot struct {
	ID          uint      `gorm:"primaryKey"`
	BlockNumber int64     `gorm:"column:block_number;not null;index"`
	Timestamp   time.Time `gorm:"column:timestamp;autoCreateTime"`
	TotalMiners int       `gorm:"column:total_miners"`
	TotalVolume float64   `gorm:"column:total_volume"`
	ScoresJSON  string    `gorm:"column:scores_json;type:text"`
	VolumesJSON string    `gorm:"column:volumes_json;type:text"`
}
