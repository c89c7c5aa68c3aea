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

// Package ipfs handles the service's two storage concerns: resolving
// content-addressed metadata locators through an HTTP gateway, and
// uploading freshly generated assets to a pinning service.
package ipfs

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/nanonft/nanomint/types"
)

const (
	// Scheme is the content-addressing URI scheme this service rewrites.
	Scheme = "ipfs://"

	// DefaultGateway serves content-addressed data over plain HTTP.
	DefaultGateway = "https://ipfs.io"

	resolveTimeout = 15 * time.Second
)

// GatewayURL rewrites a content-addressed locator to an HTTP gateway URL:
// ipfs://<hash> becomes <gateway>/ipfs/<hash>. Locators that already use
// an HTTP scheme are returned unchanged, which makes the rewrite
// idempotent.
func GatewayURL(gateway, locator string) string {
	if !strings.HasPrefix(locator, Scheme) {
		return locator
	}
	hash := strings.TrimPrefix(locator, Scheme)
	return strings.TrimRight(gateway, "/") + "/ipfs/" + hash
}

// Resolver fetches NFT metadata documents from their token URIs.
type Resolver struct {
	client  *http.Client
	gateway string
}

// NewResolver creates a resolver against the given gateway base URL.
func NewResolver(gateway string) *Resolver {
	if gateway == "" {
		gateway = DefaultGateway
	}
	return &Resolver{
		client:  &http.Client{Timeout: resolveTimeout},
		gateway: gateway,
	}
}

// Resolve dereferences a token URI and returns its metadata document with
// every locator rewritten to a directly renderable HTTP URL.
//
// A single attempt is made. A non-2xx status yields a FetchError and a
// JSON decode failure yields a ParseError; callers scanning many tokens
// treat either as "skip this item".
func (r *Resolver) Resolve(ctx context.Context, locator string) (*types.NFTMetadata, error) {
	url := GatewayURL(r.gateway, locator)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, types.NewFetchError(url, 0)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, types.NewFetchError(url, resp.StatusCode)
	}

	var meta types.NFTMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, &types.ParseError{URL: url, Err: err}
	}

	// The image field commonly uses the ipfs:// scheme too; rewrite it so
	// callers receive something a browser can load as-is.
	meta.Image = GatewayURL(r.gateway, meta.Image)

	return &meta, nil
}
