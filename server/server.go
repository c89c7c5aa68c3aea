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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/psiemens/graceland"
	"github.com/rs/zerolog"

	"github.com/nanonft/nanomint/chain"
	"github.com/nanonft/nanomint/generate"
	"github.com/nanonft/nanomint/ipfs"
	"github.com/nanonft/nanomint/mint"
	"github.com/nanonft/nanomint/scan"
)

// NanoMintServer hosts the NanoMint HTTP API in front of the NanoNFT
// contract, the IPFS pinning service and the Gemini API.
type NanoMintServer struct {
	logger       zerolog.Logger
	config       *Config
	group        *graceland.Group
	liveness     *LivenessTicker
	http         *HTTPServer
	chain        *chain.Client
	orchestrator *mint.Orchestrator
}

// NewNanoMintServer creates a new instance of a NanoMint server.
func NewNanoMintServer(logger zerolog.Logger, conf *Config) *NanoMintServer {
	conf = sanitizeConfig(conf)

	chainClient, err := chain.Dial(
		context.Background(),
		conf.RPCURL,
		common.HexToAddress(conf.ContractAddress),
		conf.OperatorKey,
		big.NewInt(conf.ChainID),
	)
	if err != nil {
		logger.Error().Err(err).Msg("❗  Failed to connect to the contract")
		return nil
	}

	logger.Info().
		Str("contract", conf.ContractAddress).
		Str("operator", chainClient.Operator().Hex()).
		Msgf("⚙️   Using operator account %s", chainClient.Operator().Hex())

	var generator Generator
	if conf.GeminiAPIKey != "" {
		client, err := generate.NewClient(context.Background(), conf.GeminiAPIKey)
		if err != nil {
			logger.Error().Err(err).Msg("❗  Failed to configure the generation client")
			return nil
		}
		generator = client
	} else {
		logger.Warn().Msg("❗  No Gemini API key configured, generation endpoint disabled")
	}

	resolver := ipfs.NewResolver(conf.GatewayURL)
	uploader := ipfs.NewUploader(conf.PinURL, conf.PinToken)
	scanner := scan.NewScanner(chainClient, resolver, logger)

	orchestrator := mint.NewOrchestrator(
		uploader,
		chainClient,
		&scanRefresher{scanner: scanner, logger: logger},
		chainClient.Operator(),
		logger,
		mint.WithTxTimeout(conf.TxTimeout),
		mint.WithSettleDelay(conf.SettleDelay),
	)

	metrics := NewMetrics()
	metrics.Register(prometheus.DefaultRegisterer)

	livenessTicker := NewLivenessTicker(conf.LivenessCheckTolerance)
	api := NewAPIServer(logger, generator, orchestrator, scanner, chainClient, metrics, conf.ExplorerURL)
	httpServer := NewHTTPServer(logger, api, livenessTicker, conf.Host, conf.Port, conf.HTTPHeaders)

	return &NanoMintServer{
		logger:       logger,
		config:       conf,
		liveness:     livenessTicker,
		http:         httpServer,
		chain:        chainClient,
		orchestrator: orchestrator,
	}
}

// Listen starts listening for incoming connections.
func (s *NanoMintServer) Listen() error {
	return s.http.Listen()
}

// Start starts the NanoMint server.
//
// This is a blocking call that runs until the routine group stops.
func (s *NanoMintServer) Start() {
	s.Stop()

	s.group = graceland.NewGroup()
	s.group.Add(s.liveness)

	s.logger.Info().
		Int("port", s.config.Port).
		Msgf("🌱  Starting API server on port %d", s.config.Port)
	s.group.Add(s.http)

	err := s.group.Start()
	if err != nil {
		s.logger.Error().Err(err).Msg("❗  Server error")
	}

	s.Stop()
}

func (s *NanoMintServer) Stop() {
	if s.group == nil {
		return
	}

	s.group.Stop()
	s.orchestrator.Close()
	s.chain.Close()

	s.logger.Info().Msg("🛑  Server stopped")
}

// scanRefresher runs the post-mint refresh scan. Failures are logged and
// never surfaced; the next full scan corrects the view.
type scanRefresher struct {
	scanner *scan.Scanner
	logger  zerolog.Logger
}

func (r *scanRefresher) Refresh(ctx context.Context, owner common.Address) {
	tokens, err := r.scanner.Scan(ctx, owner, scan.RefreshScan())
	if err != nil {
		r.logger.Warn().Err(err).Msg("❗  Post-mint refresh scan failed")
		return
	}

	r.logger.Info().
		Str("owner", owner.Hex()).
		Int("count", len(tokens)).
		Msg("✅  Post-mint refresh scan complete")
}
