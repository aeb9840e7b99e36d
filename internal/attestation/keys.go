package attestation

import (
	"fmt"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	bw6761fr "github.com/consensys/gnark-crypto/ecc/bw6-761/fr"
	mimcNative "github.com/consensys/gnark-crypto/ecc/bw6-761/fr/mimc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/ethereum/go-ethereum/common"
)

// Curve is the scalar field RunCircuit is compiled over.
const Curve = ecc.BW6_761

// Compile builds the constraint system for RunCircuit.
func Compile() (constraint.ConstraintSystem, error) {
	var circuit RunCircuit
	return frontend.Compile(Curve.ScalarField(), r1cs.NewBuilder, &circuit)
}

// SetupOrLoadKeys loads a proving/verifying key pair from disk if both
// files are present and readable, generating and persisting a fresh
// Groth16 pair otherwise.
func SetupOrLoadKeys(ccs constraint.ConstraintSystem, pkPath, vkPath string) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk, pkErr := LoadProvingKey(pkPath)
	vk, vkErr := LoadVerifyingKey(vkPath)
	if pkErr == nil && vkErr == nil {
		return pk, vk, nil
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("attestation: groth16 setup: %w", err)
	}
	if err := SaveProvingKey(pkPath, pk); err != nil {
		return nil, nil, err
	}
	if err := SaveVerifyingKey(vkPath, vk); err != nil {
		return nil, nil, err
	}
	return pk, vk, nil
}

// SaveProvingKey writes a Groth16 proving key to disk.
func SaveProvingKey(path string, pk groth16.ProvingKey) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("attestation: create proving key file: %w", err)
	}
	defer f.Close()
	_, err = pk.WriteTo(f)
	return err
}

// SaveVerifyingKey writes a Groth16 verifying key to disk.
func SaveVerifyingKey(path string, vk groth16.VerifyingKey) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("attestation: create verifying key file: %w", err)
	}
	defer f.Close()
	_, err = vk.WriteTo(f)
	return err
}

// LoadProvingKey reads a Groth16 proving key from disk.
func LoadProvingKey(path string) (groth16.ProvingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pk := groth16.NewProvingKey(Curve)
	_, err = pk.ReadFrom(f)
	return pk, err
}

// LoadVerifyingKey reads a Groth16 verifying key from disk.
func LoadVerifyingKey(path string) (groth16.VerifyingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	vk := groth16.NewVerifyingKey(Curve)
	_, err = vk.ReadFrom(f)
	return vk, err
}

// fieldElement reduces a 32-byte digest modulo the BW6-761 scalar field,
// mirroring the reduction the teacher's tx.go applies to hash outputs
// before they're used as circuit witness values.
func fieldElement(d common.Hash) *big.Int {
	v := new(big.Int).SetBytes(d[:])
	return v.Mod(v, bw6761fr.Modulus())
}

// Commitment binds a run's four settlement digests together with native
// MiMC, the same way RunCircuit's Define does in-circuit. A verifier can
// be handed only (exitRoot, commitment) and later check a submitted
// witness without learning the chain/params digests in between.
//
// gnark's in-circuit hasher.Write(variable) absorbs exactly one field
// element per call, each occupying a full permutation block. To match that
// natively each digest must be padded out to mimcNative's own block size
// (bw6761fr.Bytes), not to 32 bytes: four 32-byte writes would instead get
// concatenated and re-chunked into 48-byte blocks, absorbing a different
// byte grouping than the circuit does.
func Commitment(bidsChainDigest, offersChainDigest, paramsDigest, exitRoot common.Hash) *big.Int {
	h := mimcNative.NewMiMC()
	for _, d := range []common.Hash{bidsChainDigest, offersChainDigest, paramsDigest, exitRoot} {
		fe := fieldElement(d)
		b := fe.Bytes()
		padded := make([]byte, bw6761fr.Bytes)
		copy(padded[bw6761fr.Bytes-len(b):], b)
		h.Write(padded)
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}

// Witness builds the RunCircuit assignment for a completed auction run.
func Witness(bidsChainDigest, offersChainDigest, paramsDigest, exitRoot common.Hash) *RunCircuit {
	return &RunCircuit{
		BidsChainDigest:   fieldElement(bidsChainDigest),
		OffersChainDigest: fieldElement(offersChainDigest),
		ParamsDigest:      fieldElement(paramsDigest),
		ExitRoot:          fieldElement(exitRoot),
		Commitment:        Commitment(bidsChainDigest, offersChainDigest, paramsDigest, exitRoot),
	}
}

// Prove generates a Groth16 proof that some run produced the given public
// (exitRoot, commitment) pair.
func Prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, bidsChainDigest, offersChainDigest, paramsDigest, exitRoot common.Hash) (groth16.Proof, witness.Witness, error) {
	assignment := Witness(bidsChainDigest, offersChainDigest, paramsDigest, exitRoot)
	fullWitness, err := frontend.NewWitness(assignment, Curve.ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("attestation: build witness: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return nil, nil, fmt.Errorf("attestation: prove: %w", err)
	}
	publicWitness, err := fullWitness.Public()
	if err != nil {
		return nil, nil, fmt.Errorf("attestation: derive public witness: %w", err)
	}
	return proof, publicWitness, nil
}

// Verify checks a proof against its public witness.
func Verify(vk groth16.VerifyingKey, proof groth16.Proof, publicWitness witness.Witness) error {
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return fmt.Errorf("attestation: verify: %w", err)
	}
	return nil
}
