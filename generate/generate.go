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

// Package generate submits text prompts to the Gemini image-generation
// boundary and normalizes the responses into typed results.
package generate

import (
	"context"
	"encoding/base64"
	"strings"

	"google.golang.org/genai"

	"github.com/nanonft/nanomint/types"
)

// MaxPromptLength bounds prompts before any network dispatch.
const MaxPromptLength = 500

// DefaultModels is the ordered fallback list tried per generation.
// Attempts are independent; the first success wins.
var DefaultModels = []string{
	"gemini-2.5-flash-image-preview",
	"gemini-1.5-flash-image-preview",
	"gemini-pro-vision",
}

// ModelBackend is the slice of the Gemini API the client consumes.
type ModelBackend interface {
	GenerateContent(ctx context.Context, model string, prompt string) (*genai.GenerateContentResponse, error)
}

type genaiBackend struct {
	client *genai.Client
}

func (b *genaiBackend) GenerateContent(ctx context.Context, model string, prompt string) (*genai.GenerateContentResponse, error) {
	return b.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
}

// Client turns prompts into generation results.
type Client struct {
	backend ModelBackend
	models  []string
}

// NewClient builds a client against the hosted Gemini API.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{backend: &genaiBackend{client: gc}, models: DefaultModels}, nil
}

// NewClientWithBackend wires an explicit backend, used by tests and by
// callers that already hold a configured Gemini client.
func NewClientWithBackend(backend ModelBackend, models []string) *Client {
	if len(models) == 0 {
		models = DefaultModels
	}
	return &Client{backend: backend, models: models}
}

// Generate validates the prompt, walks the model fallback list, and
// normalizes the winning response. Validation failures return before any
// network call.
func (c *Client) Generate(ctx context.Context, prompt string) (*types.GenerationResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, types.NewInvalidInputError("prompt is required and must be a non-empty string")
	}
	if len(prompt) > MaxPromptLength {
		return nil, types.NewInvalidInputError("prompt must be 500 characters or less")
	}

	var (
		resp    *genai.GenerateContentResponse
		lastErr error
	)
	for _, model := range c.models {
		r, err := c.backend.GenerateContent(ctx, model, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		resp = r
		break
	}
	if resp == nil {
		return nil, classify(lastErr)
	}

	if len(resp.Candidates) == 0 {
		return nil, &types.NoCandidatesError{}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, &types.MalformedResponseError{Reason: "candidate has no content parts"}
	}

	var (
		description strings.Builder
		imageData   []byte
		mimeType    = "image/png"
	)
	for _, part := range candidate.Content.Parts {
		switch {
		case part.Text != "":
			description.WriteString(part.Text)
		case part.InlineData != nil && imageData == nil:
			imageData = part.InlineData.Data
			if part.InlineData.MIMEType != "" {
				mimeType = part.InlineData.MIMEType
			}
		}
	}

	if imageData == nil {
		return nil, &types.NoImageError{}
	}

	return &types.GenerationResult{
		ImageURL:    "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(imageData),
		Description: strings.TrimSpace(description.String()),
		Prompt:      strings.TrimSpace(prompt),
	}, nil
}

// classify maps an exhausted fallback list's final error onto the failure
// taxonomy by inspecting the upstream message, mirroring how the Gemini
// API reports auth, quota and safety problems.
func classify(err error) error {
	if err == nil {
		return &types.UpstreamError{Err: &types.NoCandidatesError{}}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "API_KEY"):
		return &types.AuthError{Err: err}
	case strings.Contains(msg, "QUOTA"):
		return &types.QuotaExceededError{Err: err}
	case strings.Contains(msg, "SAFETY"):
		return &types.SafetyRejectedError{Err: err}
	default:
		return &types.UpstreamError{Err: err}
	}
}
