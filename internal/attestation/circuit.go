// Package attestation models the boundary between the deterministic
// auction engine and the ZK host that proves a given run produced the
// claimed digests: a small Groth16 circuit over the four RunAuction
// outputs, plus the proving/verifying key lifecycle around it.
package attestation

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// RunCircuit proves knowledge of a run's four settlement digests and binds
// them to a single public commitment via MiMC, the hash primitive gnark
// circuits can evaluate natively. A verifier holding only the commitment
// (not the constituent digests) can check a submitted run without
// re-deriving it.
//
// BidsChainDigest, OffersChainDigest, and ParamsDigest are private: a
// prover reveals only that some run produced them, not their values.
// ExitRoot and Commitment are public: ExitRoot is the value external
// settlement logic consumes, and Commitment is what this circuit attests
// to having been derived from the (private) chain digests and params
// digest together with the (public) exit root.
type RunCircuit struct {
	BidsChainDigest   frontend.Variable
	OffersChainDigest frontend.Variable
	ParamsDigest      frontend.Variable

	ExitRoot   frontend.Variable `gnark:",public"`
	Commitment frontend.Variable `gnark:",public"`
}

// Define implements frontend.Circuit.
func (c *RunCircuit) Define(api frontend.API) error {
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	hasher.Write(c.BidsChainDigest)
	hasher.Write(c.OffersChainDigest)
	hasher.Write(c.ParamsDigest)
	hasher.Write(c.ExitRoot)
	api.AssertIsEqual(c.Commitment, hasher.Sum())
	return nil
}
