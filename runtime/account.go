// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"bytes"
	"fmt"

	"github.com/luxfi/constants"
	"github.com/luxfi/ids"

	"github.com/luxfi/topicvm/utils/wrappers"
)

const (
	// MaxAccountSize bounds the data buffer of a single account.
	MaxAccountSize = 16 * constants.KiB

	accountHeaderLen = ids.IDLen + wrappers.ShortLen
)

// Account is a stored data buffer together with the program allowed to
// modify it.
type Account struct {
	Owner ids.ID `json:"owner"`
	Data  []byte `json:"data"`
}

func (a *Account) Clone() *Account {
	return &Account{
		Owner: a.Owner,
		Data:  bytes.Clone(a.Data),
	}
}

func (a *Account) Bytes() ([]byte, error) {
	p := wrappers.Packer{
		MaxSize: accountHeaderLen + MaxAccountSize,
		Bytes:   make([]byte, 0, accountHeaderLen+len(a.Data)),
	}
	p.PackID(a.Owner)
	p.PackBytes(a.Data)
	return p.Bytes, p.Err
}

func ParseAccount(b []byte) (*Account, error) {
	p := wrappers.Packer{Bytes: b}
	a := &Account{
		Owner: p.UnpackID(),
		Data:  bytes.Clone(p.UnpackBytes()),
	}
	switch {
	case p.Errored():
		return nil, fmt.Errorf("couldn't parse account: %w", p.Err)
	case p.Offset != len(b):
		return nil, fmt.Errorf("couldn't parse account: %d trailing bytes", len(b)-p.Offset)
	default:
		return a, nil
	}
}
