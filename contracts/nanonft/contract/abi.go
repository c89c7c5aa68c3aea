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

// Package contract contains the ABI for the deployed NanoNFT contract.
package contract

// NanoNFTABI covers the subset of the deployed contract this service
// consumes: the ERC-721 reads used for ownership scans, the free-mint
// quota views, and the createNFT write.
const NanoNFTABI = `[
	{
		"inputs": [
			{"name": "_tokenURI", "type": "string"},
			{"name": "isFree",    "type": "bool"}
		],
		"name": "createNFT",
		"outputs": [{"name": "tokenId", "type": "uint256"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getGlobalStats",
		"outputs": [
			{"name": "_totalCreations", "type": "uint256"},
			{"name": "_freeCreations",  "type": "uint256"},
			{"name": "_paidCreations",  "type": "uint256"},
			{"name": "_maxSupply",      "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "user", "type": "address"}],
		"name": "getUserCreationStats",
		"outputs": [
			{"name": "_totalCreations",    "type": "uint256"},
			{"name": "_freeCreationsToday", "type": "uint256"},
			{"name": "_lastCreation",       "type": "uint256"},
			{"name": "_nextFreeCreation",   "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "user", "type": "address"}],
		"name": "canCreateFreeNFT",
		"outputs": [
			{"name": "canCreate",      "type": "bool"},
			{"name": "creationsToday", "type": "uint256"},
			{"name": "timeLeft",       "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getNextTokenId",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "ownerOf",
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "tokenURI",
		"outputs": [{"name": "", "type": "string"}],
		"stateMutability": "view",
		"type": "function"
	}
]`
