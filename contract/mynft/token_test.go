package mynft

import (
	"testing"

	ecommon "github.com/ethereum/go-ethereum/common"
)

func TestABIMethods(t *testing.T) {
	parsed, err := ABI()
	if err != nil {
		t.Fatal(err)
	}
	mint, has := parsed.Methods[MethodSafeMint]
	if !has {
		t.Fatal("safeMint not in abi")
	}
	if len(mint.Inputs) != 4 {
		t.Errorf("safeMint inputs = %d, want 4", len(mint.Inputs))
	}
	if mint.Sig != "safeMint(address,string,string,string)" {
		t.Errorf("safeMint sig = %s", mint.Sig)
	}
	all, has := parsed.Methods[MethodGetAllTokens]
	if !has {
		t.Fatal("getAllTokens not in abi")
	}
	if !all.IsConstant() {
		t.Error("getAllTokens should be a view")
	}
}

func TestDecodeTokens(t *testing.T) {
	parsed, err := ABI()
	if err != nil {
		t.Fatal(err)
	}
	method := parsed.Methods[MethodGetAllTokens]

	owner := ecommon.HexToAddress("0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063")
	data, err := method.Outputs.Pack([]nft{
		{Name: "Card", Description: "desc", ImageUrl: "http://img/x.png", Owner: owner},
		{Name: "Second", Description: "", ImageUrl: "broken", Owner: owner},
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := method.Outputs.Unpack(data)
	if err != nil {
		t.Fatal(err)
	}

	tokens, err := DecodeTokens(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 {
		t.Fatalf("len(tokens) = %d, want 2", len(tokens))
	}
	want := TokenRecord{Name: "Card", Description: "desc", ImageURL: "http://img/x.png", Owner: owner.Hex()}
	if tokens[0] != want {
		t.Errorf("tokens[0] = %+v, want %+v", tokens[0], want)
	}
	if tokens[1].Name != "Second" || tokens[1].ImageURL != "broken" {
		t.Errorf("tokens[1] = %+v", tokens[1])
	}
}

func TestDecodeTokensEmptyList(t *testing.T) {
	parsed, err := ABI()
	if err != nil {
		t.Fatal(err)
	}
	method := parsed.Methods[MethodGetAllTokens]
	data, err := method.Outputs.Pack([]nft{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := method.Outputs.Unpack(data)
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := DecodeTokens(out)
	if err != nil {
		t.Fatal(err)
	}
	if tokens == nil || len(tokens) != 0 {
		t.Errorf("tokens = %#v, want empty non-nil list", tokens)
	}
}

func TestDecodeTokensInvalid(t *testing.T) {
	if _, err := DecodeTokens(nil); err == nil {
		t.Error("nil output should fail")
	}
	if _, err := DecodeTokens([]interface{}{"not a list"}); err == nil {
		t.Error("string output should fail")
	}
}
