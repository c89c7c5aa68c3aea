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

package types

// GenerationResult is the outcome of one successful image generation.
// It is immutable once produced and never persisted.
type GenerationResult struct {
	// ImageURL is a data URL: "data:<mime>;base64,<payload>".
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// Attribute is one trait entry inside an NFT metadata document. Order is
// significant and preserved through JSON round-trips.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// NFTMetadata is the off-chain metadata document uploaded alongside each
// minted token. It is write-once: after upload its identity is the
// content-addressed locator returned by the storage boundary.
type NFTMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// OwnedToken is one token owned by the scanned wallet, enriched with
// resolved metadata. It is derived per scan and lives for one render
// cycle only; ownership may change between scans.
type OwnedToken struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Image is always a directly renderable HTTP URL (or the local
	// placeholder), never an ipfs:// locator.
	Image string `json:"image"`
}

// MintQuotaState is the contract's answer to "can this wallet mint for
// free right now". It is read-only from the client's point of view.
type MintQuotaState struct {
	EligibleForFree          bool   `json:"eligibleForFree"`
	CreationsToday           uint64 `json:"creationsToday"`
	CooldownSecondsRemaining uint64 `json:"cooldownSecondsRemaining"`
}

// TransactionRecord exists only after a submitted transaction resolved.
type TransactionRecord struct {
	Hash    string `json:"hash"`
	Success bool   `json:"success"`
}

// ExplorerURL builds a block-explorer link for the transaction, e.g.
// https://sepolia.etherscan.io/tx/0x....
func (r TransactionRecord) ExplorerURL(explorerBase string) string {
	if r.Hash == "" {
		return ""
	}
	return explorerBase + "/tx/" + r.Hash
}
