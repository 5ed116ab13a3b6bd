// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/topicvm/runtime"
)

//go:generate go run go.uber.org/mock/mockgen -package=apimock -destination=apimock/backend.go -mock_names=Backend=Backend . Backend

// Backend is the state the topic API reads from and writes to.
type Backend interface {
	// ProgramID is the program that owns topic accounts.
	ProgramID() ids.ID
	GetAccount(key ids.ID) (*runtime.Account, error)
	// Keys returns every account key in ascending order.
	Keys() []ids.ID
	// CreateAccount allocates a zeroed account of [size] bytes owned by the
	// program.
	CreateAccount(key ids.ID, size int) error
	Execute(tx *runtime.Tx) error
}
