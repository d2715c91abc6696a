package common

import (
	"encoding/hex"
	"math/big"
	"strings"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func DecodeHex(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}

	return hex.DecodeString(s)
}

func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// EncodeBase58 encodes b with the Bitcoin alphabet. Sui transaction digests
// travel in this encoding.
func EncodeBase58(b []byte) string {
	x := new(big.Int).SetBytes(b)
	radix := big.NewInt(58)
	mod := new(big.Int)

	var sb strings.Builder

	for x.Sign() > 0 {
		x.DivMod(x, radix, mod)
		sb.WriteByte(base58Alphabet[mod.Int64()])
	}

	// leading zero bytes map to the first alphabet character
	for _, c := range b {
		if c != 0 {
			break
		}

		sb.WriteByte(base58Alphabet[0])
	}

	encoded := []byte(sb.String())
	for i, j := 0, len(encoded)-1; i < j; i, j = i+1, j-1 {
		encoded[i], encoded[j] = encoded[j], encoded[i]
	}

	return string(encoded)
}
