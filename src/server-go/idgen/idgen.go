// Package idgen synthesises stable, unique identifiers for inbound tracks
// whose publisher omitted an id or label.
package idgen

import (
	"math/big"

	"github.com/google/uuid"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// New returns a unique base-62 encoded UUID.
func New() string {
	return encode(uuid.New())
}

func encode(id uuid.UUID) string {
	n := new(big.Int).SetBytes(id[:])
	if n.Sign() == 0 {
		return string(base62Alphabet[0])
	}

	base := big.NewInt(int64(len(base62Alphabet)))
	mod := new(big.Int)

	var out []byte

	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		out = append(out, base62Alphabet[mod.Int64()])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return string(out)
}
