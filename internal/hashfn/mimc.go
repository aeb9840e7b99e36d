package hashfn

import (
	"github.com/consensys/gnark-crypto/ecc/bw6-761/fr/mimc"
	"github.com/ethereum/go-ethereum/common"
)

// MiMC is a circuit-friendly alternative hash primitive, built on the same
// bw6-761 scalar field the attestation package's Groth16 circuit runs over.
// Wiring the engine against it (instead of only Keccak256) exercises the
// claim that the engine is parametric over its hash function: a real
// zero-knowledge host would pick whichever hash its circuit natively
// supports, and that is MiMC, not Keccak.
//
// The field element MiMC produces is wider than 32 bytes on bw6-761;
// common.BytesToHash takes the rightmost 32 bytes, matching the
// big-endian truncation every other fixed-width field in this package uses.
func MiMC(data []byte) common.Hash {
	h := mimc.NewMiMC()
	h.Write(data)
	return common.BytesToHash(h.Sum(nil))
}
