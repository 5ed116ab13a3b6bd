// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/ids"
	"golang.org/x/crypto/blake2b"

	"github.com/luxfi/topicvm/instruction"
	"github.com/luxfi/topicvm/utils/wrappers"
)

const (
	signerFlag   byte = 1 << 0
	writableFlag byte = 1 << 1

	maxTxSize = math.MaxUint16
)

var (
	ErrMalformedTx      = errors.New("malformed transaction")
	ErrMissingSignature = errors.New("missing signature")
	ErrInvalidSignature = errors.New("invalid signature")
)

// AccountRef names an account a transaction touches. A signer's key is its
// ed25519 public key.
type AccountRef struct {
	Key        ids.ID `json:"key"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// UnsignedTx is a single instruction addressed to a program.
type UnsignedTx struct {
	ProgramID ids.ID       `json:"programID"`
	Accounts  []AccountRef `json:"accounts"`
	Data      []byte       `json:"data"`
}

// NewUnsignedTx converts an instruction request into an unsigned transaction.
func NewUnsignedTx(req *instruction.Request) *UnsignedTx {
	accounts := make([]AccountRef, len(req.Accounts))
	for i, meta := range req.Accounts {
		accounts[i] = AccountRef{
			Key:        meta.Key,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		}
	}
	return &UnsignedTx{
		ProgramID: req.ProgramID,
		Accounts:  accounts,
		Data:      req.Data,
	}
}

// Signers returns the keys of the signing accounts, in account order.
func (u *UnsignedTx) Signers() []ids.ID {
	var signers []ids.ID
	for _, ref := range u.Accounts {
		if ref.IsSigner {
			signers = append(signers, ref.Key)
		}
	}
	return signers
}

// Bytes returns the message every signer signs.
func (u *UnsignedTx) Bytes() ([]byte, error) {
	p := wrappers.Packer{MaxSize: maxTxSize}
	u.pack(&p)
	return p.Bytes, p.Err
}

func (u *UnsignedTx) pack(p *wrappers.Packer) {
	if len(u.Accounts) > math.MaxUint16 {
		p.Add(fmt.Errorf("%w: too many accounts", ErrMalformedTx))
		return
	}
	p.PackID(u.ProgramID)
	p.PackShort(uint16(len(u.Accounts)))
	for _, ref := range u.Accounts {
		var flags byte
		if ref.IsSigner {
			flags |= signerFlag
		}
		if ref.IsWritable {
			flags |= writableFlag
		}
		p.PackID(ref.Key)
		p.PackByte(flags)
	}
	p.PackBytes(u.Data)
}

func (u *UnsignedTx) unpack(p *wrappers.Packer) {
	u.ProgramID = p.UnpackID()
	numAccounts := p.UnpackShort()
	for i := uint16(0); i < numAccounts && !p.Errored(); i++ {
		key := p.UnpackID()
		flags := p.UnpackByte()
		if flags&^(signerFlag|writableFlag) != 0 {
			p.Add(fmt.Errorf("%w: unknown account flags %#x", ErrMalformedTx, flags))
			return
		}
		u.Accounts = append(u.Accounts, AccountRef{
			Key:        key,
			IsSigner:   flags&signerFlag != 0,
			IsWritable: flags&writableFlag != 0,
		})
	}
	u.Data = append([]byte(nil), p.UnpackBytes()...)
}

// Tx is an unsigned transaction with one ed25519 signature per signer, in
// signer order.
type Tx struct {
	Unsigned   UnsignedTx `json:"unsigned"`
	Signatures [][]byte   `json:"signatures"`

	bytes []byte
	id    ids.ID
}

// Sign signs [unsigned] with [keys]. Every signing account needs a matching
// key; keys for accounts that are not signers are ignored.
func Sign(unsigned *UnsignedTx, keys ...ed25519.PrivateKey) (*Tx, error) {
	msg, err := unsigned.Bytes()
	if err != nil {
		return nil, err
	}

	byKey := make(map[ids.ID]ed25519.PrivateKey, len(keys))
	for _, key := range keys {
		byKey[PublicKeyID(key)] = key
	}

	tx := &Tx{Unsigned: *unsigned}
	for _, signer := range unsigned.Signers() {
		key, ok := byKey[signer]
		if !ok {
			return nil, fmt.Errorf("%w: no key for %s", ErrMissingSignature, signer)
		}
		tx.Signatures = append(tx.Signatures, ed25519.Sign(key, msg))
	}
	return tx, tx.initialize()
}

// PublicKeyID returns the account key controlled by [key].
func PublicKeyID(key ed25519.PrivateKey) ids.ID {
	var id ids.ID
	copy(id[:], key.Public().(ed25519.PublicKey))
	return id
}

func ParseTx(b []byte) (*Tx, error) {
	p := wrappers.Packer{Bytes: b}
	tx := &Tx{}
	tx.Unsigned.unpack(&p)
	numSigs := p.UnpackShort()
	for i := uint16(0); i < numSigs && !p.Errored(); i++ {
		tx.Signatures = append(tx.Signatures, append([]byte(nil), p.UnpackFixedBytes(ed25519.SignatureSize)...))
	}
	switch {
	case p.Errored():
		return nil, fmt.Errorf("%w: %w", ErrMalformedTx, p.Err)
	case p.Offset != len(b):
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedTx, len(b)-p.Offset)
	}
	tx.bytes = b
	tx.id = blake2b.Sum256(b)
	return tx, nil
}

func (tx *Tx) initialize() error {
	p := wrappers.Packer{MaxSize: maxTxSize}
	tx.Unsigned.pack(&p)
	p.PackShort(uint16(len(tx.Signatures)))
	for _, sig := range tx.Signatures {
		p.PackFixedBytes(sig)
	}
	if p.Errored() {
		return fmt.Errorf("%w: %w", ErrMalformedTx, p.Err)
	}
	tx.bytes = p.Bytes
	tx.id = blake2b.Sum256(p.Bytes)
	return nil
}

// ID is the blake2b-256 hash of the signed transaction bytes.
func (tx *Tx) ID() ids.ID {
	return tx.id
}

func (tx *Tx) Bytes() []byte {
	return tx.bytes
}

// Verify checks that every signer signed the unsigned transaction.
func (tx *Tx) Verify() error {
	signers := tx.Unsigned.Signers()
	if len(tx.Signatures) != len(signers) {
		return fmt.Errorf("%w: expected %d signatures but got %d", ErrMissingSignature, len(signers), len(tx.Signatures))
	}
	msg, err := tx.Unsigned.Bytes()
	if err != nil {
		return err
	}
	for i, signer := range signers {
		if !ed25519.Verify(signer[:], msg, tx.Signatures[i]) {
			return fmt.Errorf("%w: signer %s", ErrInvalidSignature, signer)
		}
	}
	return nil
}
