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

// Package scan discovers which NanoNFT tokens a wallet owns by probing a
// bounded window of token ids below the contract's id counter.
package scan

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/nanonft/nanomint/types"
)

const (
	// FullWindow is the id window for an initial collection load.
	FullWindow = 100

	// RefreshWindow is the narrower window used right after a mint,
	// when the new token is known to sit near the tip.
	RefreshWindow = 20

	// DefaultMaxResults caps how many owned tokens one scan returns.
	DefaultMaxResults = 10

	// Defaults applied when a metadata document omits a field.
	defaultDescription = "AI-generated NFT"
	placeholderImage   = "/icon.png"
)

// ContractReader is the read-only slice of the contract a scan consumes.
type ContractReader interface {
	BalanceOf(ctx context.Context, owner common.Address) (uint64, error)
	NextTokenID(ctx context.Context) (uint64, error)
	OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error)
	TokenURI(ctx context.Context, tokenID uint64) (string, error)
}

// MetadataResolver dereferences a token URI into a metadata document.
type MetadataResolver interface {
	Resolve(ctx context.Context, locator string) (*types.NFTMetadata, error)
}

// Options tune one scan.
type Options struct {
	// WindowSize bounds how many ids below the counter are probed.
	WindowSize uint64

	// MaxResults caps the result set.
	MaxResults int

	// FallbackCreations substitutes for the wallet balance when the
	// balanceOf call fails. It is an approximation: transferred-out
	// tokens still count, so a stale non-zero value can trigger a scan
	// that finds nothing. That mirrors the deployed behavior and is
	// accepted as-is.
	FallbackCreations uint64
}

// FullScan returns the options for an initial collection load.
func FullScan() Options {
	return Options{WindowSize: FullWindow, MaxResults: DefaultMaxResults}
}

// RefreshScan returns the options for a post-mint refresh.
func RefreshScan() Options {
	return Options{WindowSize: RefreshWindow, MaxResults: DefaultMaxResults}
}

// Scanner performs ownership scans.
type Scanner struct {
	reader   ContractReader
	resolver MetadataResolver
	logger   zerolog.Logger
}

// NewScanner wires a scanner to a contract reader and metadata resolver.
func NewScanner(reader ContractReader, resolver MetadataResolver, logger zerolog.Logger) *Scanner {
	return &Scanner{reader: reader, resolver: resolver, logger: logger}
}

// Scan walks token ids ascending through the window
// [max(1, next-window), next-1] and collects tokens owned by the given
// wallet, newest first. Per-id failures (nonexistent token, reverted
// call, unresolvable metadata) skip that id and never abort the scan.
func (s *Scanner) Scan(ctx context.Context, owner common.Address, opts Options) ([]types.OwnedToken, error) {
	if opts.WindowSize == 0 {
		opts.WindowSize = FullWindow
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}

	balance, err := s.reader.BalanceOf(ctx, owner)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("owner", owner.Hex()).
			Uint64("fallback", opts.FallbackCreations).
			Msg("❗  balanceOf failed, substituting creation count")
		balance = opts.FallbackCreations
	}
	if balance == 0 {
		return []types.OwnedToken{}, nil
	}

	next, err := s.reader.NextTokenID(ctx)
	if err != nil {
		return nil, err
	}

	if next <= 1 {
		return []types.OwnedToken{}, nil
	}

	// The counter is one past the last minted id.
	endID := next - 1
	startID := uint64(1)
	if next > opts.WindowSize {
		startID = next - opts.WindowSize
	}

	owned := make([]types.OwnedToken, 0, opts.MaxResults)
	for tokenID := startID; tokenID <= endID && len(owned) < opts.MaxResults; tokenID++ {
		holder, err := s.reader.OwnerOf(ctx, tokenID)
		if err != nil {
			// Nonexistent or burned token: not owned, keep going.
			continue
		}
		if holder != owner {
			continue
		}

		uri, err := s.reader.TokenURI(ctx, tokenID)
		if err != nil || uri == "" {
			s.logger.Warn().Uint64("tokenID", tokenID).Msg("❗  token has no usable URI")
			continue
		}

		meta, err := s.resolver.Resolve(ctx, uri)
		if err != nil {
			s.logger.Warn().Err(err).Uint64("tokenID", tokenID).Msg("❗  metadata resolution failed")
			continue
		}

		owned = append(owned, buildToken(tokenID, meta))
	}

	reverse(owned)
	return owned, nil
}

func buildToken(tokenID uint64, meta *types.NFTMetadata) types.OwnedToken {
	token := types.OwnedToken{
		ID:          tokenID,
		Name:        meta.Name,
		Description: meta.Description,
		Image:       meta.Image,
	}
	if token.Name == "" {
		token.Name = defaultName(tokenID)
	}
	if token.Description == "" {
		token.Description = defaultDescription
	}
	if token.Image == "" {
		token.Image = placeholderImage
	}
	return token
}

func defaultName(tokenID uint64) string {
	return fmt.Sprintf("NanoNFT #%d", tokenID)
}

// reverse flips discovery order so the most recently minted token comes
// first.
func reverse(tokens []types.OwnedToken) {
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
}
