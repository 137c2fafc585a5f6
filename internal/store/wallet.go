package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"wager-validator-store/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletMappingInput is an already-verified coldkey-to-EVM binding.
// Signature verification happens upstream; the store only records it.
type WalletMappingInput struct {
	Coldkey    string
	EVMAddress string
	Signature  string
	Message    string
	Timestamp  int64 // claimed signing time, unix milliseconds
}

// WalletMappingRecord is the stored binding including its audit payload.
type WalletMappingRecord struct {
	Coldkey    string
	EVMAddress string
	Signature  string
	Message    string
	Timestamp  int64
	VerifiedAt time.Time
}

// WalletMappingSummary is a listing row without signature and message.
type WalletMappingSummary struct {
	Coldkey    string
	EVMAddress string
	Timestamp  int64
	VerifiedAt time.Time
}

// SaveWalletMapping records a verified binding, replacing any prior mapping
// for the coldkey. The address is lowercased so later lookups are
// insensitive to input casing. Unlike the scoring writers this one is
// best-effort: a failed save must not abort the caller's workflow, so
// storage faults are logged and reported as false.
func (s *Store) SaveWalletMapping(ctx context.Context, in WalletMappingInput) bool {
	if !common.IsHexAddress(in.EVMAddress) {
		s.log.WithFields(logrus.Fields{
			"coldkey": truncateKey(in.Coldkey),
			"address": in.EVMAddress,
		}).Error("rejecting wallet mapping with invalid EVM address")
		return false
	}

	row := models.WalletMapping{
		Coldkey:    in.Coldkey,
		EVMAddress: strings.ToLower(in.EVMAddress),
		Signature:  in.Signature,
		Message:    in.Message,
		Timestamp:  in.Timestamp,
		VerifiedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "coldkey"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		s.log.WithError(err).WithField("coldkey", truncateKey(in.Coldkey)).
			Error("failed to save wallet mapping")
		return false
	}

	s.log.WithFields(logrus.Fields{
		"coldkey": truncateKey(in.Coldkey),
		"address": truncateKey(row.EVMAddress),
	}).Info("wallet mapping saved")
	return true
}

// WalletMapping returns the binding for a coldkey, or nil when absent.
func (s *Store) WalletMapping(ctx context.Context, coldkey string) (*WalletMappingRecord, error) {
	var row models.WalletMapping
	err := s.db.WithContext(ctx).Where("coldkey = ?", coldkey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &WalletMappingRecord{
		Coldkey:    row.Coldkey,
		EVMAddress: row.EVMAddress,
		Signature:  row.Signature,
		Message:    row.Message,
		Timestamp:  row.Timestamp,
		VerifiedAt: row.VerifiedAt,
	}, nil
}

// EVMAddressForColdkey returns just the mapped address. The second result
// reports whether a mapping exists.
func (s *Store) EVMAddressForColdkey(ctx context.Context, coldkey string) (string, bool, error) {
	mapping, err := s.WalletMapping(ctx, coldkey)
	if err != nil {
		return "", false, err
	}
	if mapping == nil {
		return "", false, nil
	}
	return mapping.EVMAddress, true, nil
}

// AllWalletMappings lists every binding, most recently verified first.
// Signatures and messages are excluded from listings.
func (s *Store) AllWalletMappings(ctx context.Context) ([]WalletMappingSummary, error) {
	var rows []models.WalletMapping
	err := s.db.WithContext(ctx).
		Select("coldkey", "evm_address", "timestamp", "verified_at", "id").
		Order("verified_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]WalletMappingSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, WalletMappingSummary{
			Coldkey:    r.Coldkey,
			EVMAddress: r.EVMAddress,
			Timestamp:  r.Timestamp,
			VerifiedAt: r.VerifiedAt,
		})
	}
	return summaries, nil
}

// DeleteWalletMapping removes the binding for a coldkey. It reports whether
// a row was actually removed; deleting an absent coldkey is not an error.
func (s *Store) DeleteWalletMapping(ctx context.Context, coldkey string) (bool, error) {
	tx := s.db.WithContext(ctx).
		Where("coldkey = ?", coldkey).
		Delete(&models.WalletMapping{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// truncateKey shortens identity strings for log output.
func truncateKey(k string) string {
	if len(k) > 10 {
		return k[:10] + "..."
	}
	return k
}
