package mynft

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// ContractName is the registry name of the gallery contract
const ContractName = "MyNFT"

// contract methods used by the gallery page
const (
	MethodSafeMint     = "safeMint"
	MethodGetAllTokens = "getAllTokens"
)

//go:embed MyNFT.abi.json
var abiJSON string

var (
	parsedOnce sync.Once
	parsedABI  abi.ABI
	parsedErr  error
)

// ABIJSON returns the embedded abi definition
func ABIJSON() string {
	return abiJSON
}

// ABI returns the parsed abi of the contract
func ABI() (abi.ABI, error) {
	parsedOnce.Do(func() {
		parsedABI, parsedErr = abi.JSON(strings.NewReader(abiJSON))
		if parsedErr != nil {
			parsedErr = errors.Wrap(parsedErr, "parse MyNFT abi")
		}
	})
	return parsedABI, parsedErr
}
