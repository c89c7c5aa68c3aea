/*
 * NanoMint
 *
 * Copyright NanoMint Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package nanonft provides Go bindings for the NanoNFT contract.
//
// Every positional contract return is surfaced as a named struct so the
// field order documented by the ABI stays in exactly one place.
package nanonft

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/nanonft/nanomint/contracts/nanonft/contract"
)

// NanoNFT is a wrapper around the deployed NanoNFT contract.
type NanoNFT struct {
	abi          abi.ABI
	address      common.Address
	contract     *bind.BoundContract
	transactOpts *bind.TransactOpts
}

// New connects to an already-deployed NanoNFT contract. The transact
// options may be nil for a read-only binding.
func New(addr common.Address, backend bind.ContractBackend, opts *bind.TransactOpts) (*NanoNFT, error) {
	parsed, err := abi.JSON(strings.NewReader(contract.NanoNFTABI))
	if err != nil {
		return nil, err
	}
	bound := bind.NewBoundContract(addr, parsed, backend, backend, backend)
	return &NanoNFT{
		abi:          parsed,
		address:      addr,
		contract:     bound,
		transactOpts: opts,
	}, nil
}

// Address returns the contract address this binding points at.
func (n *NanoNFT) Address() common.Address {
	return n.address
}

// CreateNFT mints a new token pointing at the given metadata locator.
// isFree asks the contract to consume one of the caller's free daily
// creations; the contract reverts if none remain.
func (n *NanoNFT) CreateNFT(opts *bind.TransactOpts, tokenURI string, isFree bool) (*types.Transaction, error) {
	if opts == nil {
		opts = n.transactOpts
	}
	return n.contract.Transact(opts, "createNFT", tokenURI, isFree)
}

// GlobalStats mirrors getGlobalStats() in ABI field order.
type GlobalStats struct {
	TotalCreations *big.Int
	FreeCreations  *big.Int
	PaidCreations  *big.Int
	MaxSupply      *big.Int
}

// UserCreationStats mirrors getUserCreationStats(address) in ABI field order.
type UserCreationStats struct {
	TotalCreations     *big.Int
	FreeCreationsToday *big.Int
	LastCreation       *big.Int
	NextFreeCreation   *big.Int
}

// FreeMintStatus mirrors canCreateFreeNFT(address) in ABI field order.
type FreeMintStatus struct {
	CanCreate      bool
	CreationsToday *big.Int
	TimeLeft       *big.Int
}

// GetGlobalStats reads collection-wide creation counters.
func (n *NanoNFT) GetGlobalStats(opts *bind.CallOpts) (*GlobalStats, error) {
	var out []interface{}
	err := n.contract.Call(opts, &out, "getGlobalStats")
	if err != nil {
		return nil, err
	}
	return &GlobalStats{
		TotalCreations: out[0].(*big.Int),
		FreeCreations:  out[1].(*big.Int),
		PaidCreations:  out[2].(*big.Int),
		MaxSupply:      out[3].(*big.Int),
	}, nil
}

// GetUserCreationStats reads per-wallet creation counters.
func (n *NanoNFT) GetUserCreationStats(opts *bind.CallOpts, user common.Address) (*UserCreationStats, error) {
	var out []interface{}
	err := n.contract.Call(opts, &out, "getUserCreationStats", user)
	if err != nil {
		return nil, err
	}
	return &UserCreationStats{
		TotalCreations:     out[0].(*big.Int),
		FreeCreationsToday: out[1].(*big.Int),
		LastCreation:       out[2].(*big.Int),
		NextFreeCreation:   out[3].(*big.Int),
	}, nil
}

// CanCreateFreeNFT reads the wallet's free-mint eligibility within the
// contract's rolling 24-hour window.
func (n *NanoNFT) CanCreateFreeNFT(opts *bind.CallOpts, user common.Address) (*FreeMintStatus, error) {
	var out []interface{}
	err := n.contract.Call(opts, &out, "canCreateFreeNFT", user)
	if err != nil {
		return nil, err
	}
	return &FreeMintStatus{
		CanCreate:      out[0].(bool),
		CreationsToday: out[1].(*big.Int),
		TimeLeft:       out[2].(*big.Int),
	}, nil
}

// BalanceOf returns how many tokens an address owns.
func (n *NanoNFT) BalanceOf(opts *bind.CallOpts, owner common.Address) (*big.Int, error) {
	var out []interface{}
	err := n.contract.Call(opts, &out, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// GetNextTokenId returns the contract's monotonically increasing token-id
// counter. The counter is one past the last minted id.
func (n *NanoNFT) GetNextTokenId(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := n.contract.Call(opts, &out, "getNextTokenId")
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// OwnerOf returns the current owner of a token. The call reverts for
// token ids that were never minted.
func (n *NanoNFT) OwnerOf(opts *bind.CallOpts, tokenID *big.Int) (common.Address, error) {
	var out []interface{}
	err := n.contract.Call(opts, &out, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

// TokenURI returns the metadata locator a token points at.
func (n *NanoNFT) TokenURI(opts *bind.CallOpts, tokenID *big.Int) (string, error) {
	var out []interface{}
	err := n.contract.Call(opts, &out, "tokenURI", tokenID)
	if err != nil {
		return "", err
	}
	return out[0].(string), nil
}
