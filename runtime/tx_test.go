// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/topicvm/instruction"
)

func newKey(t *testing.T) ed25519.PrivateKey {
	_, key, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return key
}

func TestSignParseVerify(t *testing.T) {
	require := require.New(t)

	key := newKey(t)
	req, err := instruction.NewCreateTopicRequest(ids.GenerateTestID(), ids.GenerateTestID(), PublicKeyID(key), "Lunch", "Pizza")
	require.NoError(err)

	tx, err := Sign(NewUnsignedTx(req), key, newKey(t))
	require.NoError(err)
	require.Len(tx.Signatures, 1)
	require.NoError(tx.Verify())

	parsed, err := ParseTx(tx.Bytes())
	require.NoError(err)
	require.Equal(tx.ID(), parsed.ID())
	require.Equal(tx.Unsigned, parsed.Unsigned)
	require.Equal(tx.Signatures, parsed.Signatures)
	require.NoError(parsed.Verify())

	// ed25519 signatures are deterministic, so re-signing yields the same id.
	other, err := Sign(NewUnsignedTx(req), key)
	require.NoError(err)
	require.Equal(tx.ID(), other.ID())
	require.NotEqual(ids.Empty, tx.ID())
}

func TestSignMissingKey(t *testing.T) {
	req, err := instruction.NewFinishTopicRequest(ids.GenerateTestID(), ids.GenerateTestID(), PublicKeyID(newKey(t)))
	require.NoError(t, err)

	_, err = Sign(NewUnsignedTx(req), newKey(t))
	require.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifyRejectsTampering(t *testing.T) {
	require := require.New(t)

	key := newKey(t)
	req, err := instruction.NewVoteTopicRequest(ids.GenerateTestID(), ids.GenerateTestID(), PublicKeyID(key), 0)
	require.NoError(err)
	tx, err := Sign(NewUnsignedTx(req), key)
	require.NoError(err)

	tampered := *tx
	tampered.Unsigned.Data = []byte{2, 1}
	require.ErrorIs(tampered.Verify(), ErrInvalidSignature)

	stripped := *tx
	stripped.Signatures = nil
	require.ErrorIs(stripped.Verify(), ErrMissingSignature)
}

func TestParseTxMalformed(t *testing.T) {
	require := require.New(t)

	key := newKey(t)
	req, err := instruction.NewFinishTopicRequest(ids.GenerateTestID(), ids.GenerateTestID(), PublicKeyID(key))
	require.NoError(err)
	tx, err := Sign(NewUnsignedTx(req), key)
	require.NoError(err)
	b := tx.Bytes()

	tests := map[string][]byte{
		"empty":     nil,
		"truncated": b[:len(b)-1],
		"trailing":  append(append([]byte(nil), b...), 0),
	}
	for name, test := range tests {
		_, err := ParseTx(test)
		require.ErrorIs(err, ErrMalformedTx, name)
	}

	// Unknown account flag bits.
	bad := append([]byte(nil), b...)
	bad[ids.IDLen+2+ids.IDLen] = 0x80
	_, err = ParseTx(bad)
	require.ErrorIs(err, ErrMalformedTx)
}
