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

// Package mint sequences the upload-then-mint workflow: decode the
// generated image, pin it, pin the metadata document referencing it,
// decide the free-mint flag, and submit the contract transaction under a
// deadline.
package mint

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/nanonft/nanomint/ipfs"
	"github.com/nanonft/nanomint/types"
)

const (
	// DefaultTxTimeout is how long a submitted transaction may take
	// before the mint is declared failed.
	DefaultTxTimeout = 60 * time.Second

	// DefaultSettleDelay is how long to wait after a successful mint
	// before the refresh scan, allowing the chain to reflect the token.
	DefaultSettleDelay = 3 * time.Second
)

// ErrMintInFlight rejects a mint while another one is running. There is
// no queue; the caller retries once the current attempt resolves.
var ErrMintInFlight = fmt.Errorf("mint: another mint is already in flight")

// Uploader pins an image and then a metadata document.
type Uploader interface {
	UploadImage(ctx context.Context, data []byte, filename string) (string, error)
	UploadMetadata(ctx context.Context, meta types.NFTMetadata) (string, error)
}

// ContractWriter is the contract slice the orchestrator consumes.
type ContractWriter interface {
	FreeMintStatus(ctx context.Context, user common.Address) (types.MintQuotaState, error)
	CreateNFT(ctx context.Context, tokenURI string, isFree bool) (string, error)
}

// Refresher re-scans the wallet's collection after a settled mint.
type Refresher interface {
	Refresh(ctx context.Context, owner common.Address)
}

// Request carries one mint attempt's inputs.
type Request struct {
	// ImageDataURL is the generation result: data:<mime>;base64,<payload>.
	ImageDataURL string

	// Prompt is the text the image was generated from.
	Prompt string
}

// Orchestrator drives the mint state machine. One instance serves one
// operator wallet; concurrent Mint calls beyond the first are rejected.
type Orchestrator struct {
	uploader  Uploader
	writer    ContractWriter
	refresher Refresher
	operator  common.Address
	logger    zerolog.Logger

	txTimeout   time.Duration
	settleDelay time.Duration
	now         func() time.Time

	mu       sync.Mutex
	state    State
	inFlight bool
	timers   []*time.Timer
	closed   bool
}

// Option tweaks orchestrator construction.
type Option func(*Orchestrator)

// WithTxTimeout overrides the transaction deadline.
func WithTxTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.txTimeout = d }
}

// WithSettleDelay overrides the post-mint settling delay.
func WithSettleDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.settleDelay = d }
}

// WithClock overrides the time source, used by tests for deterministic
// metadata documents.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator wires a mint orchestrator for the given operator wallet.
// refresher may be nil, in which case the post-mint refresh is skipped.
func NewOrchestrator(uploader Uploader, writer ContractWriter, refresher Refresher, operator common.Address, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		uploader:    uploader,
		writer:      writer,
		refresher:   refresher,
		operator:    operator,
		logger:      logger,
		txTimeout:   DefaultTxTimeout,
		settleDelay: DefaultSettleDelay,
		now:         time.Now,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State reports the most recent workflow state, for observability only.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Close cancels any pending post-mint refresh. An in-flight mint is not
// interrupted; it resolves on its own.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	for _, t := range o.timers {
		t.Stop()
	}
	o.timers = nil
}

// Mint runs the full workflow for one generated image. The transaction
// step races a fixed deadline; on success a refresh scan is scheduled
// after the settling delay. Failures of that refresh are logged, never
// surfaced, because the mint itself already succeeded.
func (o *Orchestrator) Mint(ctx context.Context, req Request) (*types.TransactionRecord, error) {
	if err := o.acquire(); err != nil {
		return nil, err
	}
	defer o.release()

	record, err := o.run(ctx, req)
	if err != nil {
		o.setState(EventFailure)
		return nil, err
	}
	return record, nil
}

func (o *Orchestrator) run(ctx context.Context, req Request) (*types.TransactionRecord, error) {
	imageBytes, err := decodeDataURL(req.ImageDataURL)
	if err != nil {
		return nil, err
	}
	if err := o.setState(EventImageAccepted); err != nil {
		return nil, err
	}
	if err := o.setState(EventMintRequested); err != nil {
		return nil, err
	}

	now := o.now()
	filename := fmt.Sprintf("nft-%d.png", now.UnixMilli())

	imageURI, err := o.uploader.UploadImage(ctx, imageBytes, filename)
	if err != nil {
		return nil, err
	}
	o.logger.Info().Str("image", imageURI).Msg("✅  Image pinned")

	metadataURI, err := o.uploader.UploadMetadata(ctx, ipfs.BuildMetadata(imageURI, req.Prompt, now))
	if err != nil {
		return nil, err
	}
	o.logger.Info().Str("metadata", metadataURI).Msg("✅  Metadata pinned")

	if err := o.setState(EventUploadsComplete); err != nil {
		return nil, err
	}

	// A failed quota read falls back to a paid mint; the contract is the
	// final authority either way.
	isFree := false
	if quota, err := o.writer.FreeMintStatus(ctx, o.operator); err != nil {
		o.logger.Warn().Err(err).Msg("❗  Quota read failed, minting as paid")
	} else {
		isFree = quota.EligibleForFree
	}

	hash, err := o.submit(ctx, metadataURI, isFree)
	if err != nil {
		return nil, err
	}
	if err := o.setState(EventTxResolved); err != nil {
		return nil, err
	}

	record := &types.TransactionRecord{Hash: hash, Success: true}
	o.logger.Info().
		Str("txHash", hash).
		Bool("isFree", isFree).
		Msg("⭐  Mint transaction submitted")

	o.scheduleRefresh()

	return record, nil
}

// submit races the contract write against the configured deadline;
// whichever resolves first wins.
func (o *Orchestrator) submit(ctx context.Context, metadataURI string, isFree bool) (string, error) {
	type txResult struct {
		hash string
		err  error
	}

	done := make(chan txResult, 1)
	go func() {
		hash, err := o.writer.CreateNFT(ctx, metadataURI, isFree)
		done <- txResult{hash: hash, err: err}
	}()

	timeout := time.NewTimer(o.txTimeout)
	defer timeout.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return "", &types.TransactionError{Err: res.err}
		}
		if res.hash == "" {
			return "", &types.MissingHashError{}
		}
		return res.hash, nil
	case <-timeout.C:
		return "", &types.TimeoutError{After: o.txTimeout}
	case <-ctx.Done():
		return "", &types.TransactionError{Err: ctx.Err()}
	}
}

func (o *Orchestrator) scheduleRefresh() {
	if o.refresher == nil {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(o.settleDelay, func() {
		o.refresher.Refresh(context.Background(), o.operator)
		o.mu.Lock()
		o.dropTimer(timer)
		o.mu.Unlock()
	})
	o.timers = append(o.timers, timer)
}

func (o *Orchestrator) dropTimer(timer *time.Timer) {
	for i, t := range o.timers {
		if t == timer {
			o.timers = append(o.timers[:i], o.timers[i+1:]...)
			return
		}
	}
}

func (o *Orchestrator) acquire() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return ErrMintInFlight
	}
	o.inFlight = true
	o.state = StateIdle
	return nil
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.inFlight = false
	o.mu.Unlock()
}

func (o *Orchestrator) setState(event Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	next, err := transition(o.state, event)
	if err != nil {
		return err
	}
	o.state = next
	return nil
}

// decodeDataURL extracts the binary payload from a base64 data URL.
func decodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, types.NewInvalidInputError("image must be a data URL")
	}
	idx := strings.Index(dataURL, ";base64,")
	if idx < 0 {
		return nil, types.NewInvalidInputError("image data URL must be base64-encoded")
	}
	payload, err := base64.StdEncoding.DecodeString(dataURL[idx+len(";base64,"):])
	if err != nil {
		return nil, types.NewInvalidInputError("image data URL payload is not valid base64")
	}
	if len(payload) == 0 {
		return nil, types.NewInvalidInputError("image data URL payload is empty")
	}
	return payload, nil
}
