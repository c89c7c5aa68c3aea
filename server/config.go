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
	"time"

	"github.com/nanonft/nanomint/ipfs"
	"github.com/nanonft/nanomint/mint"
)

const (
	defaultPort                   = 8080
	defaultLivenessCheckTolerance = time.Second
	defaultExplorerURL            = "https://sepolia.etherscan.io"
	defaultPinURL                 = "https://api.pinata.cloud"
)

var defaultHTTPHeaders = []HTTPHeader{
	{
		Key:   "Access-Control-Allow-Origin",
		Value: "*",
	},
	{
		Key:   "Access-Control-Allow-Methods",
		Value: "POST, GET, OPTIONS",
	},
	{
		Key:   "Access-Control-Allow-Headers",
		Value: "*",
	},
}

// Config is the configuration for a NanoMint server.
type Config struct {
	// Host and Port for the HTTP API server.
	Host string
	Port int
	// HTTPHeaders are set on every API response.
	HTTPHeaders []HTTPHeader

	// RPCURL is the Ethereum JSON-RPC endpoint serving the NanoNFT contract.
	RPCURL string
	// ContractAddress is the deployed NanoNFT contract address (hex).
	ContractAddress string
	// OperatorKey is the hex-encoded private key that signs mint transactions.
	OperatorKey string
	// ChainID of the target network.
	ChainID int64

	// GatewayURL is the IPFS gateway used to rewrite ipfs:// locators.
	GatewayURL string
	// PinURL and PinToken configure the pinning service uploads go to.
	PinURL   string
	PinToken string

	// GeminiAPIKey authenticates image generation calls. Empty disables
	// the generation endpoint with a configuration error.
	GeminiAPIKey string

	// ExplorerURL is the block explorer base for transaction links.
	ExplorerURL string

	// TxTimeout bounds a mint transaction; SettleDelay is the wait before
	// the post-mint refresh scan.
	TxTimeout   time.Duration
	SettleDelay time.Duration

	// LivenessCheckTolerance is the time interval in which the server must respond to liveness probes.
	LivenessCheckTolerance time.Duration
}

func sanitizeConfig(conf *Config) *Config {
	if conf.Port == 0 {
		conf.Port = defaultPort
	}

	if conf.HTTPHeaders == nil {
		conf.HTTPHeaders = defaultHTTPHeaders
	}

	if conf.GatewayURL == "" {
		conf.GatewayURL = ipfs.DefaultGateway
	}

	if conf.PinURL == "" {
		conf.PinURL = defaultPinURL
	}

	if conf.ExplorerURL == "" {
		conf.ExplorerURL = defaultExplorerURL
	}

	if conf.TxTimeout == 0 {
		conf.TxTimeout = mint.DefaultTxTimeout
	}

	if conf.SettleDelay == 0 {
		conf.SettleDelay = mint.DefaultSettleDelay
	}

	if conf.LivenessCheckTolerance == 0 {
		conf.LivenessCheckTolerance = defaultLivenessCheckTolerance
	}

	return conf
}
