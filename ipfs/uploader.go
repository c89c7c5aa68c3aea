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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nanonft/nanomint/types"
)

const uploadTimeout = 30 * time.Second

// Uploader pins assets through a Pinata-compatible pinning HTTP API and
// returns content-addressed locators. Uploads are single attempts; any
// failure aborts the mint sequence that requested them.
type Uploader struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewUploader creates an uploader for the given pinning service base URL.
// token is sent as a bearer credential when non-empty.
func NewUploader(baseURL, token string) *Uploader {
	return &Uploader{
		client:  &http.Client{Timeout: uploadTimeout},
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   token,
	}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// UploadImage pins raw image bytes and returns their ipfs:// locator.
func (u *Uploader) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image payload is empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", errors.Wrap(err, "create multipart body")
	}
	if _, err := part.Write(data); err != nil {
		return "", errors.Wrap(err, "write multipart body")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "close multipart body")
	}

	return u.pin(ctx, "/pinning/pinFileToIPFS", &body, writer.FormDataContentType())
}

// UploadMetadata pins a metadata document and returns its ipfs:// locator.
func (u *Uploader) UploadMetadata(ctx context.Context, meta types.NFTMetadata) (string, error) {
	encoded, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode metadata")
	}
	return u.pin(ctx, "/pinning/pinJSONToIPFS", bytes.NewReader(encoded), "application/json")
}

func (u *Uploader) pin(ctx context.Context, path string, body io.Reader, contentType string) (string, error) {
	if u.baseURL == "" {
		return "", errors.New("pinning endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+path, body)
	if err != nil {
		return "", errors.Wrap(err, "create pin request")
	}
	req.Header.Set("Content-Type", contentType)
	if u.token != "" {
		req.Header.Set("Authorization", "Bearer "+u.token)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "pin request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.Errorf("pinning service returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var pinned pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", errors.Wrap(err, "decode pin response")
	}

	locator := Scheme + pinned.IpfsHash
	if err := ValidateLocator(locator); err != nil {
		return "", err
	}
	return locator, nil
}

// ValidateLocator enforces the only two locator shapes the storage
// boundary may hand back: content-addressed or plain HTTPS.
func ValidateLocator(locator string) error {
	hash := strings.TrimPrefix(locator, Scheme)
	if strings.HasPrefix(locator, Scheme) && hash != "" {
		return nil
	}
	if strings.HasPrefix(locator, "https://") {
		return nil
	}
	return &types.InvalidLocatorError{Locator: locator}
}
