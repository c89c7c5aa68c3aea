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

package nanonft

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanonft/nanomint/contracts/nanonft/contract"
)

func TestABIParses(t *testing.T) {

	t.Parallel()

	parsed, err := abi.JSON(strings.NewReader(contract.NanoNFTABI))
	require.NoError(t, err)

	for _, method := range []string{
		"createNFT",
		"getGlobalStats",
		"getUserCreationStats",
		"canCreateFreeNFT",
		"balanceOf",
		"getNextTokenId",
		"ownerOf",
		"tokenURI",
	} {
		_, ok := parsed.Methods[method]
		assert.True(t, ok, "ABI is missing %s", method)
	}

	createNFT := parsed.Methods["createNFT"]
	require.Len(t, createNFT.Inputs, 2)
	assert.Equal(t, "string", createNFT.Inputs[0].Type.String())
	assert.Equal(t, "bool", createNFT.Inputs[1].Type.String())
	assert.Equal(t, "payable", createNFT.StateMutability)

	canCreate := parsed.Methods["canCreateFreeNFT"]
	require.Len(t, canCreate.Outputs, 3)
	assert.Equal(t, "bool", canCreate.Outputs[0].Type.String())
}
