// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/topicvm/processor"
)

var (
	ErrUnknownProgram     = errors.New("unknown program")
	ErrDuplicateAccount   = errors.New("duplicate account")
	ErrAccountNotWritable = errors.New("account not writable")
)

// Executor runs transactions one at a time against a ledger.
type Executor struct {
	lock sync.Mutex

	programID ids.ID
	ledger    *Ledger
	processor *processor.Processor
	log       log.Logger
}

func NewExecutor(programID ids.ID, ledger *Ledger, processor *processor.Processor, log log.Logger) *Executor {
	return &Executor{
		programID: programID,
		ledger:    ledger,
		processor: processor,
		log:       log,
	}
}

// Execute verifies [tx], applies its instruction and commits the modified
// accounts. If any step fails the ledger is left unchanged.
func (e *Executor) Execute(tx *Tx) error {
	if err := tx.Verify(); err != nil {
		return err
	}
	if tx.Unsigned.ProgramID != e.programID {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, tx.Unsigned.ProgramID)
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	accounts, stored, err := e.load(tx.Unsigned.Accounts)
	if err != nil {
		return err
	}
	if err := e.processor.Process(accounts, tx.Unsigned.Data); err != nil {
		e.log.Debug("transaction failed",
			log.Stringer("txID", tx.ID()),
			log.Err(err),
		)
		return err
	}

	modified := make(map[ids.ID]*Account)
	for i, ref := range tx.Unsigned.Accounts {
		original, ok := stored[ref.Key]
		if !ok || bytes.Equal(original.Data, accounts[i].Data) {
			continue
		}
		if !ref.IsWritable {
			return fmt.Errorf("%w: %s", ErrAccountNotWritable, ref.Key)
		}
		modified[ref.Key] = &Account{
			Owner: original.Owner,
			Data:  accounts[i].Data,
		}
	}
	if err := e.ledger.Commit(modified); err != nil {
		return err
	}

	e.log.Debug("transaction executed",
		log.Stringer("txID", tx.ID()),
		log.Int("modified", len(modified)),
	)
	return nil
}

// load copies every referenced account out of the ledger. Accounts that were
// never created are presented as empty and unowned.
func (e *Executor) load(refs []AccountRef) ([]*processor.Account, map[ids.ID]*Account, error) {
	var (
		accounts = make([]*processor.Account, len(refs))
		stored   = make(map[ids.ID]*Account, len(refs))
		seen     = make(map[ids.ID]struct{}, len(refs))
	)
	for i, ref := range refs {
		if _, ok := seen[ref.Key]; ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, ref.Key)
		}
		seen[ref.Key] = struct{}{}

		account := &processor.Account{
			Key:      ref.Key,
			IsSigner: ref.IsSigner,
		}
		existing, err := e.ledger.GetAccount(ref.Key)
		switch {
		case errors.Is(err, ErrAccountNotFound):
		case err != nil:
			return nil, nil, err
		default:
			// The processor mutates its copy in place.
			account.Owner = existing.Owner
			account.Data = bytes.Clone(existing.Data)
			stored[ref.Key] = existing
		}
		accounts[i] = account
	}
	return accounts, stored, nil
}
