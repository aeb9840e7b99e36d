package attestation

import (
	"os"
	"testing"

	"github.com/consensys/gnark/frontend"
	"github.com/ethereum/go-ethereum/common"
)

func TestCommitmentDeterministic(t *testing.T) {
	bids := common.HexToHash("0x01")
	offers := common.HexToHash("0x02")
	params := common.HexToHash("0x03")
	exitRoot := common.HexToHash("0x04")

	c1 := Commitment(bids, offers, params, exitRoot)
	c2 := Commitment(bids, offers, params, exitRoot)
	if c1.Cmp(c2) != 0 {
		t.Fatalf("Commitment is not deterministic: %s != %s", c1, c2)
	}
}

func TestCommitmentSensitiveToEveryInput(t *testing.T) {
	base := Commitment(
		common.HexToHash("0x01"), common.HexToHash("0x02"),
		common.HexToHash("0x03"), common.HexToHash("0x04"),
	)
	variants := [][4]common.Hash{
		{common.HexToHash("0xff"), common.HexToHash("0x02"), common.HexToHash("0x03"), common.HexToHash("0x04")},
		{common.HexToHash("0x01"), common.HexToHash("0xff"), common.HexToHash("0x03"), common.HexToHash("0x04")},
		{common.HexToHash("0x01"), common.HexToHash("0x02"), common.HexToHash("0xff"), common.HexToHash("0x04")},
		{common.HexToHash("0x01"), common.HexToHash("0x02"), common.HexToHash("0x03"), common.HexToHash("0xff")},
	}
	for i, v := range variants {
		c := Commitment(v[0], v[1], v[2], v[3])
		if base.Cmp(c) == 0 {
			t.Fatalf("variant %d did not change the commitment", i)
		}
	}
}

func TestEndToEndProveVerify(t *testing.T) {
	ccs, err := Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	pkPath := "test_run_proving.key"
	vkPath := "test_run_verifying.key"
	pk, vk, err := SetupOrLoadKeys(ccs, pkPath, vkPath)
	if err != nil {
		t.Fatalf("SetupOrLoadKeys failed: %v", err)
	}
	defer os.Remove(pkPath)
	defer os.Remove(vkPath)

	bids := common.HexToHash("0xaaaa")
	offers := common.HexToHash("0xbbbb")
	params := common.HexToHash("0xcccc")
	exitRoot := common.HexToHash("0xdddd")

	proof, publicWitness, err := Prove(ccs, pk, bids, offers, params, exitRoot)
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}
	if err := Verify(vk, proof, publicWitness); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
}

func TestVerifyRejectsWrongExitRoot(t *testing.T) {
	ccs, err := Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	pkPath := "test_run_proving2.key"
	vkPath := "test_run_verifying2.key"
	pk, vk, err := SetupOrLoadKeys(ccs, pkPath, vkPath)
	if err != nil {
		t.Fatalf("SetupOrLoadKeys failed: %v", err)
	}
	defer os.Remove(pkPath)
	defer os.Remove(vkPath)

	bids := common.HexToHash("0x1")
	offers := common.HexToHash("0x2")
	params := common.HexToHash("0x3")
	exitRoot := common.HexToHash("0x4")

	proof, _, err := Prove(ccs, pk, bids, offers, params, exitRoot)
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}

	mismatched := Witness(bids, offers, params, common.HexToHash("0x5"))
	publicWitness, err := frontend.NewWitness(mismatched, Curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		t.Fatalf("building mismatched public witness failed: %v", err)
	}
	if err := Verify(vk, proof, publicWitness); err == nil {
		t.Fatalf("Verify should reject a proof checked against a mismatched exit root")
	}
}
