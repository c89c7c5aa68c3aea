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

package start

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/psiemens/sconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nanonft/nanomint/server"
)

type Config struct {
	Port                   int           `default:"8080" flag:"port,p" info:"port to run the API server"`
	Host                   string        `default:"" flag:"host" info:"host to listen on for the API server (default: all interfaces)"`
	Verbose                bool          `default:"false" flag:"verbose,v" info:"enable verbose logging"`
	LogFormat              string        `default:"text" flag:"log-format" info:"logging output format. Valid values (text, JSON)"`
	RPCURL                 string        `default:"" flag:"rpc-url" info:"Ethereum JSON-RPC endpoint"`
	ContractAddress        string        `default:"" flag:"contract" info:"NanoNFT contract address"`
	OperatorKey            string        `default:"" flag:"operator-key" info:"hex private key that signs mint transactions"`
	ChainID                int64         `default:"11155111" flag:"chain-id" info:"chain id of the target network"`
	GatewayURL             string        `default:"https://ipfs.io" flag:"gateway-url" info:"IPFS gateway for resolving token metadata"`
	PinURL                 string        `default:"https://api.pinata.cloud" flag:"pin-url" info:"pinning service base URL"`
	PinToken               string        `default:"" flag:"pin-token" info:"pinning service bearer token"`
	GeminiAPIKey           string        `default:"" flag:"gemini-api-key" info:"Gemini API key for image generation"`
	ExplorerURL            string        `default:"https://sepolia.etherscan.io" flag:"explorer-url" info:"block explorer base for transaction links"`
	TxTimeout              time.Duration `default:"60s" flag:"tx-timeout" info:"how long a mint transaction may take before it is declared failed"`
	SettleDelay            time.Duration `default:"3s" flag:"settle-delay" info:"wait between a successful mint and the refresh scan"`
	LivenessCheckTolerance time.Duration `default:"1s" flag:"liveness-tolerance" info:"time within which the server must respond to liveness probes"`
}

const EnvPrefix = "NANOMINT"

var conf Config

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Starts the NanoMint server",
		Run: func(cmd *cobra.Command, args []string) {
			logger := initLogger(conf.Verbose)

			if conf.RPCURL == "" {
				Exit(1, "❗  --rpc-url must be provided")
			}

			if conf.ContractAddress == "" {
				Exit(1, "❗  --contract must be provided")
			}

			if conf.OperatorKey == "" {
				Exit(1, "❗  --operator-key must be provided")
			}

			serverConf := &server.Config{
				Host:                   conf.Host,
				Port:                   conf.Port,
				RPCURL:                 conf.RPCURL,
				ContractAddress:        conf.ContractAddress,
				OperatorKey:            conf.OperatorKey,
				ChainID:                conf.ChainID,
				GatewayURL:             conf.GatewayURL,
				PinURL:                 conf.PinURL,
				PinToken:               conf.PinToken,
				GeminiAPIKey:           conf.GeminiAPIKey,
				ExplorerURL:            conf.ExplorerURL,
				TxTimeout:              conf.TxTimeout,
				SettleDelay:            conf.SettleDelay,
				LivenessCheckTolerance: conf.LivenessCheckTolerance,
			}

			srv := server.NewNanoMintServer(*logger, serverConf)
			if srv != nil {
				srv.Start()
			} else {
				Exit(-1, "")
			}
		},
	}

	initConfig(cmd)

	return cmd
}

func initLogger(verbose bool) *zerolog.Logger {

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.MessageFieldName = "msg"

	switch strings.ToLower(conf.LogFormat) {
	case "json":
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
		return &logger
	default:
		writer := zerolog.ConsoleWriter{Out: os.Stdout}
		writer.FormatMessage = func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%-44s", i)
		}
		logger := zerolog.New(writer).With().Timestamp().Logger().Level(level)
		return &logger
	}

}

func initConfig(cmd *cobra.Command) {
	err := sconfig.New(&conf).
		FromEnvironment(EnvPrefix).
		BindFlags(cmd.PersistentFlags()).
		Parse()
	if err != nil {
		log.Fatal(err)
	}
}

func Exit(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}
