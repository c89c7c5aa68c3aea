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

package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanonft/nanomint/types"
)

func TestUploadImage(t *testing.T) {

	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pinning/pinFileToIPFS", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "nft-123.png", header.Filename)

		fmt.Fprint(w, `{"IpfsHash": "QmPinned"}`)
	}))
	defer srv.Close()

	uploader := NewUploader(srv.URL, "secret")

	locator, err := uploader.UploadImage(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47}, "nft-123.png")
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmPinned", locator)
}

func TestUploadImageEmptyPayload(t *testing.T) {

	t.Parallel()

	uploader := NewUploader("https://unused.test", "")

	_, err := uploader.UploadImage(context.Background(), nil, "nft.png")
	require.Error(t, err)
}

func TestUploadMetadata(t *testing.T) {

	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pinning/pinJSONToIPFS", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var meta types.NFTMetadata
		require.NoError(t, json.NewDecoder(r.Body).Decode(&meta))
		assert.Equal(t, "ipfs://QmImage", meta.Image)
		require.Len(t, meta.Attributes, 4)

		fmt.Fprint(w, `{"IpfsHash": "QmMetaPinned"}`)
	}))
	defer srv.Close()

	uploader := NewUploader(srv.URL, "secret")

	meta := BuildMetadata("ipfs://QmImage", "a panda", time.Now())
	locator, err := uploader.UploadMetadata(context.Background(), meta)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmMetaPinned", locator)
}

func TestUploadPinFailure(t *testing.T) {

	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	uploader := NewUploader(srv.URL, "secret")

	_, err := uploader.UploadImage(context.Background(), []byte{1}, "nft.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestUploadEmptyHash(t *testing.T) {

	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"IpfsHash": ""}`)
	}))
	defer srv.Close()

	uploader := NewUploader(srv.URL, "secret")

	_, err := uploader.UploadImage(context.Background(), []byte{1}, "nft.png")
	require.Error(t, err)

	var locatorErr *types.InvalidLocatorError
	require.ErrorAs(t, err, &locatorErr)
}

func TestValidateLocator(t *testing.T) {

	t.Parallel()

	assert.NoError(t, ValidateLocator("ipfs://QmHash"))
	assert.NoError(t, ValidateLocator("https://gw.test/ipfs/QmHash"))

	var locatorErr *types.InvalidLocatorError
	assert.ErrorAs(t, ValidateLocator("ipfs://"), &locatorErr)
	assert.ErrorAs(t, ValidateLocator("http://insecure.test"), &locatorErr)
	assert.ErrorAs(t, ValidateLocator("QmBareHash"), &locatorErr)
}
