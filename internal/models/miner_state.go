package models

import "time"

// MinerState holds the latest-known aggregate for one miner registration slot.
// Exactly one row per UID; every write replaces the whole row.
type MinerState struct {
	UID              int64     `gorm:"column:uid;primaryKey;autoIncrement:false"`
	Hotkey           string    `gorm:"column:hotkey;size:128;not null"`
	Coldkey          string    `gorm:"column:coldkey;size:128;not null"`
	EVMAddress       *string   `gorm:"column:evm_address;size:64"`
	DailyVolumesJSON string    `gorm:"column:daily_volumes_json;type:text"`
	WeightedVolume   float64   `gorm:"column:weighted_volume;default:0"`
	Score            float64   `gorm:"column:score;default:0;index"`
	LastUpdated      time.Time `gorm:"column:last_updated"`
}

func (MinerState) TableName() string {
	return "miner_data"
}
