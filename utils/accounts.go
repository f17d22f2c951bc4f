package utils

import (
	"github.com/cometbft/cometbft/crypto/secp256k1"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Address is a generated account address in raw and bech32 form.
type Address struct {
	Bytes  sdk.AccAddress
	Bech32 string
}

// TestAddress generates a fresh cosmos-prefixed account address.
func TestAddress() Address {
	key := secp256k1.GenPrivKey()
	bytes := sdk.AccAddress(key.PubKey().Address().Bytes())

	return Address{
		Bytes:  bytes,
		Bech32: generateAddress("cosmos", bytes),
	}
}

// TestAddresses generates n distinct account addresses.
func TestAddresses(n int) []Address {
	addrs := make([]Address, 0, n)
	seen := make(map[string]struct{}, n)
	for len(addrs) < n {
		addr := TestAddress()
		if _, dup := seen[addr.Bech32]; dup {
			continue
		}
		seen[addr.Bech32] = struct{}{}
		addrs = append(addrs, addr)
	}
	return addrs
}

func generateAddress(prefix string, bytes []byte) string {
	address, err := sdk.Bech32ifyAddressBytes(prefix, bytes)
	if err != nil {
		panic("error during test address creation")
	}
	return address
}
