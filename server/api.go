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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/nanonft/nanomint/contracts/nanonft"
	"github.com/nanonft/nanomint/generate"
	"github.com/nanonft/nanomint/mint"
	"github.com/nanonft/nanomint/scan"
	"github.com/nanonft/nanomint/types"
	"github.com/nanonft/nanomint/utils"
)

// Generator produces an image for a prompt. Nil when the server runs
// without an upstream credential.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*types.GenerationResult, error)
}

// Minter drives the upload-then-mint workflow.
type Minter interface {
	Mint(ctx context.Context, req mint.Request) (*types.TransactionRecord, error)
}

// CollectionScanner walks recent token ids for a wallet.
type CollectionScanner interface {
	Scan(ctx context.Context, owner common.Address, opts scan.Options) ([]types.OwnedToken, error)
}

// StatsReader serves the contract's counters.
type StatsReader interface {
	GlobalStats(ctx context.Context) (*nanonft.GlobalStats, error)
	UserStats(ctx context.Context, user common.Address) (*nanonft.UserCreationStats, error)
	FreeMintStatus(ctx context.Context, user common.Address) (types.MintQuotaState, error)
}

// APIServer routes the NanoMint HTTP API.
type APIServer struct {
	router      *mux.Router
	logger      zerolog.Logger
	generator   Generator
	minter      Minter
	scanner     CollectionScanner
	stats       StatsReader
	metrics     *Metrics
	explorerURL string
}

func NewAPIServer(
	logger zerolog.Logger,
	generator Generator,
	minter Minter,
	scanner CollectionScanner,
	stats StatsReader,
	metrics *Metrics,
	explorerURL string,
) *APIServer {
	router := mux.NewRouter().StrictSlash(true)
	a := &APIServer{
		router:      router,
		logger:      logger,
		generator:   generator,
		minter:      minter,
		scanner:     scanner,
		stats:       stats,
		metrics:     metrics,
		explorerURL: explorerURL,
	}

	router.HandleFunc("/api/generate-nft", a.GenerateNFT)
	router.HandleFunc("/api/mint", a.Mint).Methods(http.MethodPost)
	router.HandleFunc("/api/collection", a.Collection).Methods(http.MethodGet)
	router.HandleFunc("/api/stats", a.Stats).Methods(http.MethodGet)
	router.HandleFunc("/api/stats/{address}", a.UserStats).Methods(http.MethodGet)

	return a
}

func (a *APIServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Success     bool   `json:"success"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

func (a *APIServer) GenerateNFT(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		a.metrics.Generations.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Prompt is required and must be a non-empty string",
		})
		return
	}

	if len(req.Prompt) > generate.MaxPromptLength {
		a.metrics.Generations.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Prompt must be 500 characters or less",
		})
		return
	}

	if a.generator == nil {
		a.logger.Error().Msg("❗  Generation requested but no API key is configured")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server configuration error"})
		return
	}

	result, err := a.generator.Generate(r.Context(), req.Prompt)
	if err != nil {
		a.metrics.Generations.WithLabelValues("error").Inc()
		a.writeError(w, err)
		return
	}

	a.metrics.Generations.WithLabelValues("ok").Inc()
	utils.PrintGenerationResult(&a.logger, result)
	writeJSON(w, http.StatusOK, generateResponse{
		Success:     true,
		ImageURL:    result.ImageURL,
		Description: result.Description,
		Prompt:      result.Prompt,
	})
}

type mintRequest struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

type mintResponse struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
	TxLink  string `json:"txLink,omitempty"`
}

func (a *APIServer) Mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	record, err := a.minter.Mint(r.Context(), mint.Request{
		ImageDataURL: req.ImageURL,
		Prompt:       req.Prompt,
	})
	if err != nil {
		a.metrics.Mints.WithLabelValues("error").Inc()
		a.writeError(w, err)
		return
	}

	a.metrics.Mints.WithLabelValues("ok").Inc()
	utils.PrintMintResult(&a.logger, record, a.explorerURL)
	writeJSON(w, http.StatusOK, mintResponse{
		Success: true,
		TxHash:  record.Hash,
		TxLink:  record.ExplorerURL(a.explorerURL),
	})
}

type collectionResponse struct {
	NFTs []types.OwnedToken `json:"nfts"`
}

func (a *APIServer) Collection(w http.ResponseWriter, r *http.Request) {
	owner, ok := parseAddress(r.URL.Query().Get("owner"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid owner address"})
		return
	}

	opts := scan.FullScan()
	if stats, err := a.stats.UserStats(r.Context(), owner); err == nil {
		opts.FallbackCreations = stats.TotalCreations.Uint64()
	}

	tokens, err := a.scanner.Scan(r.Context(), owner, opts)
	if err != nil {
		a.metrics.Scans.WithLabelValues("error").Inc()
		a.writeError(w, err)
		return
	}

	a.metrics.Scans.WithLabelValues("ok").Inc()
	utils.PrintScanResult(&a.logger, owner.Hex(), len(tokens))
	writeJSON(w, http.StatusOK, collectionResponse{NFTs: tokens})
}

type statsResponse struct {
	Total     uint64 `json:"total"`
	Free      uint64 `json:"free"`
	Paid      uint64 `json:"paid"`
	MaxSupply uint64 `json:"maxSupply"`
}

func (a *APIServer) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.stats.GlobalStats(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Total:     stats.TotalCreations.Uint64(),
		Free:      stats.FreeCreations.Uint64(),
		Paid:      stats.PaidCreations.Uint64(),
		MaxSupply: stats.MaxSupply.Uint64(),
	})
}

type userStatsResponse struct {
	TotalCreations           uint64 `json:"totalCreations"`
	FreeCreationsToday       uint64 `json:"freeCreationsToday"`
	EligibleForFree          bool   `json:"eligibleForFree"`
	CooldownSecondsRemaining uint64 `json:"cooldownSecondsRemaining"`
}

func (a *APIServer) UserStats(w http.ResponseWriter, r *http.Request) {
	user, ok := parseAddress(mux.Vars(r)["address"])
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid address"})
		return
	}

	stats, err := a.stats.UserStats(r.Context(), user)
	if err != nil {
		a.writeError(w, err)
		return
	}

	quota, err := a.stats.FreeMintStatus(r.Context(), user)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userStatsResponse{
		TotalCreations:           stats.TotalCreations.Uint64(),
		FreeCreationsToday:       stats.FreeCreationsToday.Uint64(),
		EligibleForFree:          quota.EligibleForFree,
		CooldownSecondsRemaining: quota.CooldownSecondsRemaining,
	})
}

// writeError maps the failure taxonomy onto HTTP statuses. Quota failures
// carry the remediation payload the UI renders with distinct styling.
func (a *APIServer) writeError(w http.ResponseWriter, err error) {
	var (
		invalid   *types.InvalidInputError
		auth      *types.AuthError
		quota     *types.QuotaExceededError
		safety    *types.SafetyRejectedError
		noImage   *types.NoImageError
		noCand    *types.NoCandidatesError
		malformed *types.MalformedResponseError
	)

	switch {
	case errors.Is(err, mint.ErrMintInFlight):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "A mint is already in progress"})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalid.Reason})
	case errors.As(err, &auth):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication error"})
	case errors.As(err, &quota):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"error":      "Gemini API Not Properly Configured",
			"details":    quota.Details(),
			"help":       quota.Help(),
			"link":       quota.Link(),
			"retryAfter": quota.RetryAfter(),
		})
	case errors.As(err, &safety):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Content violates safety guidelines. Please try a different prompt.",
		})
	case errors.As(err, &noCand):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "No response generated from AI"})
	case errors.As(err, &malformed):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Invalid response format from AI"})
	case errors.As(err, &noImage):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "No image was generated"})
	default:
		a.logger.Error().Err(err).Msg("❗  Request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func parseAddress(raw string) (common.Address, bool) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}
