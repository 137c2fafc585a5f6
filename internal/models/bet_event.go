package models

// BetEvent caches one wager observed on the external chain.
// The composite unique index is the dedup contract: re-submitting an event
// from an overlapping scan window must not create a second row. Amount is
// deliberately outside the index.
type BetEvent struct {
	ID          uint    `gorm:"primaryKey"`
	EVMAddress  string  `gorm:"column:evm_address;size:64;not null;uniqueIndex:ux_bet_event;index"`
	GameID      int64   `gorm:"column:game_id;uniqueIndex:ux_bet_event"`
	Amount      float64 `gorm:"column:amount"`
	Side        int     `gorm:"column:side;uniqueIndex:ux_bet_event"`
	BlockNumber int64   `gorm:"column:block_number;uniqueIndex:ux_bet_event"`
	Timestamp   int64   `gorm:"column:timestamp;index"` // unix seconds, source-chain event time
}
