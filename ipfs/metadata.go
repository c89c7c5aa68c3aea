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
	"fmt"
	"time"

	"github.com/nanonft/nanomint/types"
)

const (
	// AIModelLabel is the fixed model attribution embedded in every
	// metadata document.
	AIModelLabel = "Gemini Nano Banana"

	promptExcerptLimit = 100
)

// BuildMetadata constructs the metadata document for a freshly generated
// image. The result is deterministic given the image locator, prompt and
// timestamp; the name embeds the timestamp for uniqueness.
//
// The attribute order is fixed: AI Model, Generation Date, Prompt,
// Created At.
func BuildMetadata(imageLocator, prompt string, now time.Time) types.NFTMetadata {
	excerpt := prompt
	if len(excerpt) > promptExcerptLimit {
		excerpt = excerpt[:promptExcerptLimit] + "..."
	}

	return types.NFTMetadata{
		Name:        fmt.Sprintf("NanoNFT #%d", now.UnixMilli()),
		Description: fmt.Sprintf("AI-generated NFT: %s", prompt),
		Image:       imageLocator,
		Attributes: []types.Attribute{
			{TraitType: "AI Model", Value: AIModelLabel},
			{TraitType: "Generation Date", Value: now.UTC().Format("2006-01-02")},
			{TraitType: "Prompt", Value: excerpt},
			{TraitType: "Created At", Value: now.UTC().Format(time.RFC3339)},
		},
	}
}
