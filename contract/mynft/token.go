package mynft

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// TokenRecord is the display projection of one minted token
type TokenRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Owner       string `json:"owner"`
}

// errors
var (
	ErrEmptyOutput   = errors.New("empty contract output")
	ErrInvalidOutput = errors.New("invalid contract output")
)

// nft mirrors the MyNFT.NFT tuple, field names follow the abi camel casing
type nft struct {
	Name        string
	Description string
	ImageUrl    string
	Owner       ecommon.Address
}

// DecodeTokens converts the unpacked outputs of getAllTokens into records
func DecodeTokens(out []interface{}) (tokens []TokenRecord, err error) {
	if len(out) == 0 {
		return nil, errors.WithStack(ErrEmptyOutput)
	}
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = errors.Wrap(ErrInvalidOutput, fmt.Sprint(r))
		}
	}()

	list := *abi.ConvertType(out[0], new([]nft)).(*[]nft)
	tokens = make([]TokenRecord, 0, len(list))
	for _, v := range list {
		tokens = append(tokens, TokenRecord{
			Name:        v.Name,
			Description: v.Description,
			ImageURL:    v.ImageUrl,
			Owner:       v.Owner.Hex(),
		})
	}
	return tokens, nil
}
