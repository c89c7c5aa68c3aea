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

package mint

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanonft/nanomint/types"
)

var operator = common.HexToAddress("0x00000000000000000000000000000000000000ee")

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47})
}

type fakeUploader struct {
	mu       sync.Mutex
	calls    []string
	imageErr error
	metaErr  error
	lastMeta types.NFTMetadata
	lastName string
}

func (f *fakeUploader) UploadImage(_ context.Context, _ []byte, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "image")
	f.lastName = filename
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return "ipfs://QmImage", nil
}

func (f *fakeUploader) UploadMetadata(_ context.Context, meta types.NFTMetadata) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "metadata")
	f.lastMeta = meta
	if f.metaErr != nil {
		return "", f.metaErr
	}
	return "ipfs://QmMetadata", nil
}

type fakeWriter struct {
	mu       sync.Mutex
	quota    types.MintQuotaState
	quotaErr error
	hash     string
	txErr    error
	block    chan struct{}
	calls    []string
	lastURI  string
	lastFree bool
}

func (f *fakeWriter) FreeMintStatus(_ context.Context, _ common.Address) (types.MintQuotaState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "quota")
	return f.quota, f.quotaErr
}

func (f *fakeWriter) CreateNFT(_ context.Context, tokenURI string, isFree bool) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "create")
	f.lastURI = tokenURI
	f.lastFree = isFree
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.hash, f.txErr
}

type fakeRefresher struct {
	refreshed chan common.Address
}

func newFakeRefresher() *fakeRefresher {
	return &fakeRefresher{refreshed: make(chan common.Address, 1)}
}

func (f *fakeRefresher) Refresh(_ context.Context, owner common.Address) {
	f.refreshed <- owner
}

func TestMint(t *testing.T) {

	t.Parallel()

	uploader := &fakeUploader{}
	writer := &fakeWriter{
		quota: types.MintQuotaState{EligibleForFree: true},
		hash:  "0xabc123",
	}
	refresher := newFakeRefresher()

	o := NewOrchestrator(
		uploader, writer, refresher, operator, zerolog.Nop(),
		WithSettleDelay(10*time.Millisecond),
	)

	record, err := o.Mint(context.Background(), Request{
		ImageDataURL: pngDataURL(),
		Prompt:       "a panda eating bamboo",
	})
	require.NoError(t, err)

	assert.Equal(t, "0xabc123", record.Hash)
	assert.True(t, record.Success)
	assert.Equal(t, StateSubmitted, o.State())

	// image before metadata, both before the contract write
	assert.Equal(t, []string{"image", "metadata"}, uploader.calls)
	assert.Equal(t, []string{"quota", "create"}, writer.calls)
	assert.Equal(t, "ipfs://QmMetadata", writer.lastURI)
	assert.True(t, writer.lastFree)
	assert.Equal(t, "ipfs://QmImage", uploader.lastMeta.Image)
	assert.Contains(t, uploader.lastMeta.Description, "a panda eating bamboo")

	select {
	case owner := <-refresher.refreshed:
		assert.Equal(t, operator, owner)
	case <-time.After(time.Second):
		t.Fatal("refresh scan was never scheduled")
	}
}

func TestMintRejectsBadImage(t *testing.T) {

	t.Parallel()

	uploader := &fakeUploader{}
	writer := &fakeWriter{hash: "0xabc"}

	o := NewOrchestrator(uploader, writer, nil, operator, zerolog.Nop())

	for _, bad := range []string{
		"",
		"https://example.com/image.png",
		"data:image/png,not-base64-marker",
		"data:image/png;base64,!!!!",
		"data:image/png;base64,",
	} {
		_, err := o.Mint(context.Background(), Request{ImageDataURL: bad, Prompt: "p"})
		var invalid *types.InvalidInputError
		require.ErrorAs(t, err, &invalid, "input %q", bad)
	}

	// nothing was uploaded and nothing was written
	assert.Empty(t, uploader.calls)
	assert.Empty(t, writer.calls)
	assert.Equal(t, StateFailed, o.State())
}

func TestMintUploadFailureStopsBeforeContractWrite(t *testing.T) {

	t.Parallel()

	uploader := &fakeUploader{metaErr: fmt.Errorf("pinning service down")}
	writer := &fakeWriter{hash: "0xabc"}

	o := NewOrchestrator(uploader, writer, nil, operator, zerolog.Nop())

	_, err := o.Mint(context.Background(), Request{ImageDataURL: pngDataURL(), Prompt: "p"})
	require.Error(t, err)

	assert.Equal(t, []string{"image", "metadata"}, uploader.calls)
	assert.Empty(t, writer.calls, "contract write must not happen before both uploads succeed")
	assert.Equal(t, StateFailed, o.State())
}

func TestMintMissingHash(t *testing.T) {

	t.Parallel()

	o := NewOrchestrator(
		&fakeUploader{}, &fakeWriter{hash: ""}, nil, operator, zerolog.Nop(),
	)

	_, err := o.Mint(context.Background(), Request{ImageDataURL: pngDataURL(), Prompt: "p"})

	var missing *types.MissingHashError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, StateFailed, o.State())
}

func TestMintTransactionError(t *testing.T) {

	t.Parallel()

	o := NewOrchestrator(
		&fakeUploader{}, &fakeWriter{txErr: fmt.Errorf("execution reverted")}, nil, operator, zerolog.Nop(),
	)

	_, err := o.Mint(context.Background(), Request{ImageDataURL: pngDataURL(), Prompt: "p"})

	var txErr *types.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, StateFailed, o.State())
}

func TestMintTimeout(t *testing.T) {

	t.Parallel()

	writer := &fakeWriter{hash: "0xabc", block: make(chan struct{})}
	defer close(writer.block)

	o := NewOrchestrator(
		&fakeUploader{}, writer, nil, operator, zerolog.Nop(),
		WithTxTimeout(20*time.Millisecond),
	)

	_, err := o.Mint(context.Background(), Request{ImageDataURL: pngDataURL(), Prompt: "p"})

	var timeoutErr *types.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 20*time.Millisecond, timeoutErr.After)
	assert.Equal(t, StateFailed, o.State())
}

func TestMintInFlightGuard(t *testing.T) {

	t.Parallel()

	writer := &fakeWriter{hash: "0xabc", block: make(chan struct{})}

	o := NewOrchestrator(&fakeUploader{}, writer, nil, operator, zerolog.Nop())

	started := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		close(started)
		_, _ = o.Mint(context.Background(), Request{ImageDataURL: pngDataURL(), Prompt: "p"})
	}()

	<-started
	// wait until the first mint reaches the blocked contract write
	require.Eventually(t, func() bool {
		writer.mu.Lock()
		defer writer.mu.Unlock()
		return len(writer.calls) > 0 && writer.calls[len(writer.calls)-1] == "create"
	}, time.Second, time.Millisecond)

	_, err := o.Mint(context.Background(), Request{ImageDataURL: pngDataURL(), Prompt: "p"})
	require.ErrorIs(t, err, ErrMintInFlight)

	close(writer.block)
	<-finished

	// once the first mint resolves, a new one is accepted
	record, err := o.Mint(context.Background(), Request{ImageDataURL: pngDataURL(), Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "0xabc", record.Hash)
}

func TestMintPaidFallbackOnQuotaFailure(t *testing.T) {

	t.Parallel()

	writer := &fakeWriter{hash: "0xabc", quotaErr: fmt.Errorf("rpc unavailable")}

	o := NewOrchestrator(&fakeUploader{}, writer, nil, operator, zerolog.Nop())

	_, err := o.Mint(context.Background(), Request{ImageDataURL: pngDataURL(), Prompt: "p"})
	require.NoError(t, err)

	assert.False(t, writer.lastFree, "quota failure must fall back to a paid mint")
}

func TestCloseCancelsPendingRefresh(t *testing.T) {

	t.Parallel()

	refresher := newFakeRefresher()
	writer := &fakeWriter{hash: "0xabc"}

	o := NewOrchestrator(
		&fakeUploader{}, writer, refresher, operator, zerolog.Nop(),
		WithSettleDelay(50*time.Millisecond),
	)

	_, err := o.Mint(context.Background(), Request{ImageDataURL: pngDataURL(), Prompt: "p"})
	require.NoError(t, err)

	o.Close()

	select {
	case <-refresher.refreshed:
		t.Fatal("refresh ran after Close")
	case <-time.After(150 * time.Millisecond):
	}
}
