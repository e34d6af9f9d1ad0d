// Package v0 holds the ABI of the batch-mint contract the worker calls.
//
// Only batchMint is bound. recipients[i] receives a token whose metadata URI
// is tokenURIs[i]; both arrays must have the same length.
package v0

// MethodBatchMint is the contract method invoked per mint job.
const MethodBatchMint = "batchMint"

// BatchMintABI is the JSON ABI fragment for batchMint(address[],string[]).
const BatchMintABI = `[
  {
    "inputs": [
      {"internalType": "address[]", "name": "recipients", "type": "address[]"},
      {"internalType": "string[]", "name": "tokenURIs", "type": "string[]"}
    ],
    "name": "batchMint",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`
