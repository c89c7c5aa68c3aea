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

// Package chain connects the service to the NanoNFT contract over an
// Ethereum JSON-RPC endpoint and exposes the handful of reads and the one
// write the rest of the system consumes.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/nanonft/nanomint/contracts/nanonft"
	"github.com/nanonft/nanomint/types"
)

// Client wraps the NanoNFT binding with context-aware, plainly typed
// methods. All reads are single attempts against the latest block.
type Client struct {
	eth      *ethclient.Client
	nft      *nanonft.NanoNFT
	operator common.Address
	opts     *bind.TransactOpts
}

// Dial connects to an Ethereum JSON-RPC endpoint and binds the NanoNFT
// contract at the given address. operatorKeyHex signs mint transactions;
// pass an empty string for a read-only client.
func Dial(ctx context.Context, rpcURL string, contractAddr common.Address, operatorKeyHex string, chainID *big.Int) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial rpc endpoint")
	}

	var (
		opts     *bind.TransactOpts
		operator common.Address
	)
	if operatorKeyHex != "" {
		key, err := crypto.HexToECDSA(operatorKeyHex)
		if err != nil {
			return nil, errors.Wrap(err, "parse operator key")
		}
		opts, err = bind.NewKeyedTransactorWithChainID(key, chainID)
		if err != nil {
			return nil, errors.Wrap(err, "build transactor")
		}
		operator = crypto.PubkeyToAddress(key.PublicKey)
	}

	nft, err := nanonft.New(contractAddr, eth, opts)
	if err != nil {
		return nil, errors.Wrap(err, "bind contract")
	}

	return &Client{eth: eth, nft: nft, operator: operator, opts: opts}, nil
}

// Operator returns the address that signs mint transactions.
func (c *Client) Operator() common.Address {
	return c.operator
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

func callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}

// BalanceOf returns the number of tokens the address owns.
func (c *Client) BalanceOf(ctx context.Context, owner common.Address) (uint64, error) {
	bal, err := c.nft.BalanceOf(callOpts(ctx), owner)
	if err != nil {
		return 0, err
	}
	return bal.Uint64(), nil
}

// NextTokenID returns the contract's token-id counter, one past the last
// minted id.
func (c *Client) NextTokenID(ctx context.Context) (uint64, error) {
	next, err := c.nft.GetNextTokenId(callOpts(ctx))
	if err != nil {
		return 0, err
	}
	return next.Uint64(), nil
}

// OwnerOf returns the owner of a token id. Reverts surface as errors and
// are treated by callers as "not owned".
func (c *Client) OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error) {
	return c.nft.OwnerOf(callOpts(ctx), new(big.Int).SetUint64(tokenID))
}

// TokenURI returns the metadata locator for a token id.
func (c *Client) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	return c.nft.TokenURI(callOpts(ctx), new(big.Int).SetUint64(tokenID))
}

// FreeMintStatus reads the wallet's free-mint quota state.
func (c *Client) FreeMintStatus(ctx context.Context, user common.Address) (types.MintQuotaState, error) {
	status, err := c.nft.CanCreateFreeNFT(callOpts(ctx), user)
	if err != nil {
		return types.MintQuotaState{}, err
	}
	return types.MintQuotaState{
		EligibleForFree:          status.CanCreate,
		CreationsToday:           status.CreationsToday.Uint64(),
		CooldownSecondsRemaining: status.TimeLeft.Uint64(),
	}, nil
}

// UserStats reads the wallet's lifetime creation counters.
func (c *Client) UserStats(ctx context.Context, user common.Address) (*nanonft.UserCreationStats, error) {
	return c.nft.GetUserCreationStats(callOpts(ctx), user)
}

// GlobalStats reads collection-wide creation counters.
func (c *Client) GlobalStats(ctx context.Context) (*nanonft.GlobalStats, error) {
	return c.nft.GetGlobalStats(callOpts(ctx))
}

// CreateNFT submits the mint transaction and returns its hash. The
// transaction is only submitted here; confirmation is the caller's
// concern.
func (c *Client) CreateNFT(ctx context.Context, tokenURI string, isFree bool) (string, error) {
	if c.opts == nil {
		return "", errors.New("client is read-only: no operator key configured")
	}
	opts := *c.opts
	opts.Context = ctx
	tx, err := c.nft.CreateNFT(&opts, tokenURI, isFree)
	if err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}
