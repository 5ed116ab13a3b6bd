// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime stores accounts and executes signed transactions against
// them.
package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/google/btree"
	"github.com/luxfi/cache"
	"github.com/luxfi/cache/lru"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"

	"github.com/luxfi/topicvm/utils/compression"
)

const defaultTreeDegree = 2

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidAccountSize = errors.New("invalid account size")

	accountPrefix = []byte("accounts")
)

// Ledger is the account store. Stored values are compressed account records;
// decoded accounts are cached and every key is kept in an ordered index.
type Ledger struct {
	lock sync.RWMutex

	db         database.Database
	compressor compression.Compressor
	cache      cache.Cacher[ids.ID, *Account]
	index      *btree.BTreeG[ids.ID]
}

func NewLedger(db database.Database, compressor compression.Compressor, cacheSize int) (*Ledger, error) {
	l := &Ledger{
		db:         prefixdb.New(accountPrefix, db),
		compressor: compressor,
		cache:      lru.NewCache[ids.ID, *Account](cacheSize),
		index:      btree.NewG(defaultTreeDegree, lessID),
	}

	it := l.db.NewIterator()
	defer it.Release()

	for it.Next() {
		key, err := ids.ToID(it.Key())
		if err != nil {
			return nil, fmt.Errorf("invalid account key: %w", err)
		}
		l.index.ReplaceOrInsert(key)
	}
	return l, it.Error()
}

func lessID(a, b ids.ID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// GetAccount returns a copy of the account stored at [key].
func (l *Ledger) GetAccount(key ids.ID) (*Account, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	account, err := l.getAccount(key)
	if err != nil {
		return nil, err
	}
	return account.Clone(), nil
}

func (l *Ledger) getAccount(key ids.ID) (*Account, error) {
	if account, ok := l.cache.Get(key); ok {
		return account, nil
	}

	compressed, err := l.db.Get(key[:])
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	accountBytes, err := l.compressor.Decompress(compressed)
	if err != nil {
		return nil, err
	}
	account, err := ParseAccount(accountBytes)
	if err != nil {
		return nil, err
	}

	l.cache.Put(key, account)
	return account, nil
}

// CreateAccount stores a zeroed buffer of [size] bytes at [key], owned by
// [owner].
func (l *Ledger) CreateAccount(key, owner ids.ID, size int) error {
	if size <= 0 || size > MaxAccountSize {
		return fmt.Errorf("%w: %d", ErrInvalidAccountSize, size)
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if l.index.Has(key) {
		return fmt.Errorf("%w: %s", ErrAccountExists, key)
	}
	return l.commit(map[ids.ID]*Account{
		key: {
			Owner: owner,
			Data:  make([]byte, size),
		},
	})
}

// Keys returns every account key in ascending order.
func (l *Ledger) Keys() []ids.ID {
	l.lock.RLock()
	defer l.lock.RUnlock()

	keys := make([]ids.ID, 0, l.index.Len())
	l.index.Ascend(func(key ids.ID) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (l *Ledger) Len() int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.index.Len()
}

// Commit writes [accounts] atomically: either every account is stored or
// none is.
func (l *Ledger) Commit(accounts map[ids.ID]*Account) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.commit(accounts)
}

func (l *Ledger) commit(accounts map[ids.ID]*Account) error {
	vdb := versiondb.New(l.db)
	for key, account := range accounts {
		accountBytes, err := account.Bytes()
		if err != nil {
			vdb.Abort()
			return fmt.Errorf("couldn't encode account %s: %w", key, err)
		}
		compressed, err := l.compressor.Compress(accountBytes)
		if err != nil {
			vdb.Abort()
			return fmt.Errorf("couldn't compress account %s: %w", key, err)
		}
		if err := vdb.Put(key[:], compressed); err != nil {
			vdb.Abort()
			return err
		}
	}
	if err := vdb.Commit(); err != nil {
		return err
	}

	for key, account := range accounts {
		l.cache.Put(key, account.Clone())
		l.index.ReplaceOrInsert(key)
	}
	return nil
}
