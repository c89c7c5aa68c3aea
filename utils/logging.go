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

package utils

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"

	"github.com/nanonft/nanomint/types"
)

func PrintMintResult(logger *zerolog.Logger, record *types.TransactionRecord, explorerBase string) {
	if record.Success {
		logger.Info().
			Str("txHash", record.Hash).
			Msg("⭐  Mint transaction submitted")
	} else {
		logger.Warn().
			Str("txHash", record.Hash).
			Msg("❗  Mint transaction failed")
	}

	if link := record.ExplorerURL(explorerBase); link != "" {
		logger.Info().Msgf(
			"%s %s",
			logPrefix("TX", record.Hash, aurora.GreenFg),
			link,
		)
	}
}

func PrintScanResult(logger *zerolog.Logger, owner string, count int) {
	logger.Info().
		Str("owner", owner).
		Int("count", count).
		Msg("⭐  Collection scan complete")
}

func PrintGenerationResult(logger *zerolog.Logger, result *types.GenerationResult) {
	logger.Info().
		Int("imageBytes", len(result.ImageURL)).
		Msg("⭐  Image generated")

	if result.Description != "" {
		logger.Debug().Msgf(
			"%s %s",
			logPrefix("DESC", result.Prompt, aurora.BlueFg),
			result.Description,
		)
	}
}

func logPrefix(prefix string, id string, color aurora.Color) string {
	prefix = aurora.Colorize(prefix, color|aurora.BoldFm).String()
	if len(id) > 8 {
		id = id[:8]
	}
	shortID := aurora.Colorize(fmt.Sprintf("[%s]", id), aurora.FaintFm).String()
	return fmt.Sprintf("%s %s", prefix, shortID)
}
