package hashfn

import (
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Keccak256 is the default hash primitive: the same Keccak-f[1600] instance
// go-ethereum itself uses for crypto.Keccak256, built directly on
// golang.org/x/crypto/sha3 rather than going through the go-ethereum crypto
// package (which pulls in its secp256k1 cgo/asm backend for no benefit here).
func Keccak256(data []byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out common.Hash
	h.Sum(out[:0])
	return out
}
