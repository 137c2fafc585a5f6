package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mixedCaseAddr = "0xAbC0000000000000000000000000000000000001"
	otherAddr     = "0xDef0000000000000000000000000000000000002"
)

func TestSaveWalletMapping_LowercasesAddress(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok := s.SaveWalletMapping(ctx, WalletMappingInput{
		Coldkey:    "coldkey-1",
		EVMAddress: mixedCaseAddr,
		Signature:  "deadbeef",
		Message:    "link my wallet",
		Timestamp:  1700000000000,
	})
	require.True(t, ok)

	mapping, err := s.WalletMapping(ctx, "coldkey-1")
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Equal(t, strings.ToLower(mixedCaseAddr), mapping.EVMAddress)
	assert.Equal(t, "deadbeef", mapping.Signature)
	assert.Equal(t, "link my wallet", mapping.Message)
	assert.EqualValues(t, 1700000000000, mapping.Timestamp)
	assert.False(t, mapping.VerifiedAt.IsZero())
}

func TestSaveWalletMapping_RejectsInvalidAddress(t *testing.T) {
	s := newTestStore(t)

	ok := s.SaveWalletMapping(context.Background(), WalletMappingInput{
		Coldkey:    "coldkey-1",
		EVMAddress: "not-an-address",
		Signature:  "sig",
		Message:    "msg",
	})
	assert.False(t, ok)
}

func TestSaveWalletMapping_RebindReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.True(t, s.SaveWalletMapping(ctx, WalletMappingInput{
		Coldkey: "coldkey-1", EVMAddress: mixedCaseAddr, Signature: "sig1", Message: "msg1", Timestamp: 1,
	}))
	require.True(t, s.SaveWalletMapping(ctx, WalletMappingInput{
		Coldkey: "coldkey-1", EVMAddress: otherAddr, Signature: "sig2", Message: "msg2", Timestamp: 2,
	}))

	addr, found, err := s.EVMAddressForColdkey(ctx, "coldkey-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, strings.ToLower(otherAddr), addr)

	mapping, err := s.WalletMapping(ctx, "coldkey-1")
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Equal(t, "sig2", mapping.Signature)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.WalletMappings)
}

func TestEVMAddressForColdkey_NotFound(t *testing.T) {
	s := newTestStore(t)

	addr, found, err := s.EVMAddressForColdkey(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, addr)
}

func TestAllWalletMappings_SummariesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.True(t, s.SaveWalletMapping(ctx, WalletMappingInput{
		Coldkey: "coldkey-1", EVMAddress: mixedCaseAddr, Signature: "s1", Message: "m1", Timestamp: 1,
	}))
	require.True(t, s.SaveWalletMapping(ctx, WalletMappingInput{
		Coldkey: "coldkey-2", EVMAddress: otherAddr, Signature: "s2", Message: "m2", Timestamp: 2,
	}))

	summaries, err := s.AllWalletMappings(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "coldkey-2", summaries[0].Coldkey)
	assert.Equal(t, "coldkey-1", summaries[1].Coldkey)
}

func TestDeleteWalletMapping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	removed, err := s.DeleteWalletMapping(ctx, "coldkey-1")
	require.NoError(t, err)
	assert.False(t, removed)

	require.True(t, s.SaveWalletMapping(ctx, WalletMappingInput{
		Coldkey: "coldkey-1", EVMAddress: mixedCaseAddr, Signature: "s", Message: "m", Timestamp: 1,
	}))

	removed, err = s.DeleteWalletMapping(ctx, "coldkey-1")
	require.NoError(t, err)
	assert.True(t, removed)

	mapping, err := s.WalletMapping(ctx, "coldkey-1")
	require.NoError(t, err)
	assert.Nil(t, mapping)
}
