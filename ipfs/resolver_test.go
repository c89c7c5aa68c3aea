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
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanonft/nanomint/types"
)

func TestGatewayURL(t *testing.T) {

	t.Parallel()

	assert.Equal(t,
		"https://ipfs.io/ipfs/QmHash",
		GatewayURL("https://ipfs.io", "ipfs://QmHash"),
	)

	// already-HTTP locators pass through unchanged
	assert.Equal(t,
		"https://example.com/meta.json",
		GatewayURL("https://ipfs.io", "https://example.com/meta.json"),
	)

	// rewriting twice is a no-op
	once := GatewayURL("https://ipfs.io", "ipfs://QmHash")
	assert.Equal(t, once, GatewayURL("https://ipfs.io", once))

	// trailing slash on the gateway does not double up
	assert.Equal(t,
		"https://gw.test/ipfs/QmHash",
		GatewayURL("https://gw.test/", "ipfs://QmHash"),
	)
}

func TestResolve(t *testing.T) {

	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ipfs/QmMeta", r.URL.Path)
		fmt.Fprint(w, `{
			"name": "NanoNFT #1",
			"description": "AI-generated NFT: a panda",
			"image": "ipfs://QmImage",
			"attributes": [{"trait_type": "AI Model", "value": "Gemini Nano Banana"}]
		}`)
	}))
	defer srv.Close()

	resolver := NewResolver(srv.URL)

	meta, err := resolver.Resolve(context.Background(), "ipfs://QmMeta")
	require.NoError(t, err)

	assert.Equal(t, "NanoNFT #1", meta.Name)
	assert.Equal(t, "AI-generated NFT: a panda", meta.Description)
	assert.Equal(t, srv.URL+"/ipfs/QmImage", meta.Image)
	require.Len(t, meta.Attributes, 1)
	assert.Equal(t, "AI Model", meta.Attributes[0].TraitType)
}

func TestResolveFetchError(t *testing.T) {

	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	resolver := NewResolver(srv.URL)

	_, err := resolver.Resolve(context.Background(), "ipfs://QmMissing")
	require.Error(t, err)

	var fetchErr *types.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestResolveParseError(t *testing.T) {

	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	resolver := NewResolver(srv.URL)

	_, err := resolver.Resolve(context.Background(), "ipfs://QmBroken")
	require.Error(t, err)

	var parseErr *types.ParseError
	require.ErrorAs(t, err, &parseErr)
}
