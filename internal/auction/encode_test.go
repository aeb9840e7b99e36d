package auction

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
)

func mustAddr(b byte) Address {
	var a Address
	for i := range a {
		a[i] = b
	}
	return a
}

func mustDigest(b byte) Digest {
	var d Digest
	for i := range d {
		d[i] = b
	}
	return d
}

func TestEncodeBidSubmission(t *testing.T) {
	s := &BidSubmission{
		Bidder:           mustAddr(0x11),
		ID:               *uint256.NewInt(7),
		PriceCommitment:  mustDigest(0x22),
		Amount:           *uint256.NewInt(100),
		CollateralAmount: *uint256.NewInt(150),
	}
	got := EncodeBidSubmission(s)
	if len(got) != 128 {
		t.Fatalf("len = %d, want 128", len(got))
	}

	var want []byte
	want = append(want, bytes.Repeat([]byte{0x11}, 20)...)
	id := make([]byte, 12)
	id[11] = 7
	want = append(want, id...)
	want = append(want, bytes.Repeat([]byte{0x22}, 32)...)
	amount := make([]byte, 32)
	amount[31] = 100
	want = append(want, amount...)
	collateral := make([]byte, 32)
	collateral[31] = 150
	want = append(want, collateral...)

	if !bytes.Equal(got, want) {
		t.Fatalf("encoding mismatch:\ngot  %x\nwant %x", got, want)
	}
}

func TestEncodeOfferSubmission(t *testing.T) {
	s := &OfferSubmission{
		Offeror:         mustAddr(0x33),
		ID:              *uint256.NewInt(9),
		PriceCommitment: mustDigest(0x44),
		Amount:          *uint256.NewInt(50),
	}
	got := EncodeOfferSubmission(s)
	if len(got) != 96 {
		t.Fatalf("len = %d, want 96", len(got))
	}
	if !bytes.Equal(got[:20], bytes.Repeat([]byte{0x33}, 20)) {
		t.Fatalf("offeror mismatch")
	}
	if !bytes.Equal(got[20:32], append(make([]byte, 11), 9)) {
		t.Fatalf("id mismatch: %x", got[20:32])
	}
	if !bytes.Equal(got[32:64], bytes.Repeat([]byte{0x44}, 32)) {
		t.Fatalf("commitment mismatch")
	}
	wantAmount := make([]byte, 32)
	wantAmount[31] = 50
	if !bytes.Equal(got[64:96], wantAmount) {
		t.Fatalf("amount mismatch")
	}
}

func TestEncodeReveal(t *testing.T) {
	var orderID OrderKey
	copy(orderID[:], bytes.Repeat([]byte{0x55}, 32))
	r := &BidReveal{OrderID: orderID, Price: *uint256.NewInt(1000), Nonce: *uint256.NewInt(42)}
	got := EncodeBidReveal(r)
	if len(got) != 96 {
		t.Fatalf("len = %d, want 96", len(got))
	}
	if !bytes.Equal(got[:32], orderID[:]) {
		t.Fatalf("order_id mismatch")
	}
}

func TestEncodeAuctionParameters(t *testing.T) {
	p := &AuctionParameters{
		PurchaseToken:   mustAddr(0x01),
		PurchasePrice:   *uint256.NewInt(1),
		CollateralToken: mustAddr(0x02),
		CollateralPrice: *uint256.NewInt(1),
		DayCount:        *uint256.NewInt(360),
	}
	got := EncodeAuctionParameters(p)
	if len(got) != 136 {
		t.Fatalf("len = %d, want 136", len(got))
	}
}

func TestEncodeExitLeaves(t *testing.T) {
	tw := &ExitLeaf{Kind: ExitLeafTokenWithdrawal, Recipient: mustAddr(0x01), Token: mustAddr(0x02), Amount: *uint256.NewInt(100)}
	if got := EncodeExitLeaf(tw); len(got) != 72 {
		t.Fatalf("TokenWithdrawal len = %d, want 72", len(got))
	}

	rtw := &ExitLeaf{Kind: ExitLeafRepoTokenWithdrawal, Recipient: mustAddr(0x01), Amount: *uint256.NewInt(110)}
	if got := EncodeExitLeaf(rtw); len(got) != 52 {
		t.Fatalf("RepoTokenWithdrawal len = %d, want 52", len(got))
	}

	ro := &ExitLeaf{Kind: ExitLeafRepurchaseObligation, Debtor: mustAddr(0x01), RepurchaseAmount: *uint256.NewInt(110), CollateralAmount: *uint256.NewInt(150)}
	if got := EncodeExitLeaf(ro); len(got) != 84 {
		t.Fatalf("RepurchaseObligation len = %d, want 84", len(got))
	}
}
