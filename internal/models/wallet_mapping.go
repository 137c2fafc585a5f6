package models

import "time"

// WalletMapping binds a native-chain coldkey to a verified EVM address.
// One row per coldkey; a later verified binding replaces the earlier one.
// Signature and message are kept verbatim for audit and replay detection
// by the caller. EVMAddress is stored lowercase.
type WalletMapping struct {
	ID         uint      `gorm:"primaryKey"`
	Coldkey    string    `gorm:"column:coldkey;size:128;not null;uniqueIndex"`
	EVMAddress string    `gorm:"column:evm_address;size:64;not null;index"`
	Signature  string    `gorm:"column:signature;type:text;not null"`
	Message    string    `gorm:"column:message;type:text;not null"`
	Timestamp  int64     `gorm:"column:timestamp;not null"` // claimed signing time, unix milliseconds
	VerifiedAt time.Time `gorm:"column:verified_at;index"`
}
