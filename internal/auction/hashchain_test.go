package auction

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/zkzoomer/repoauction/internal/hashfn"
)

func TestHashChainLocality(t *testing.T) {
	h := hashfn.Keccak256
	book := make(BidBook)

	s1 := BidSubmission{Bidder: mustAddr(0x01), ID: *uint256.NewInt(1), Amount: *uint256.NewInt(10), CollateralAmount: *uint256.NewInt(15)}
	d1 := FoldBidSubmissions(h, Digest{}, []BidSubmission{s1}, book)

	s2 := BidSubmission{Bidder: mustAddr(0x02), ID: *uint256.NewInt(2), Amount: *uint256.NewInt(20), CollateralAmount: *uint256.NewInt(30)}
	d2 := FoldBidSubmissions(h, d1, []BidSubmission{s2}, book)

	want := extend(h, d1, EncodeBidSubmission(&s2))
	if d2 != want {
		t.Fatalf("hash-chain locality violated: got %x want %x", d2, want)
	}

	// Folding both events from scratch must give the same final digest as
	// folding them one at a time through the rolling accumulator.
	book2 := make(BidBook)
	dAll := FoldBidSubmissions(h, Digest{}, []BidSubmission{s1, s2}, book2)
	if dAll != d2 {
		t.Fatalf("chained fold mismatch: got %x want %x", dAll, d2)
	}
}

func TestHashChainDeterminism(t *testing.T) {
	h := hashfn.Keccak256
	events := []BidSubmission{
		{Bidder: mustAddr(0x01), ID: *uint256.NewInt(1), Amount: *uint256.NewInt(10), CollateralAmount: *uint256.NewInt(15)},
		{Bidder: mustAddr(0x02), ID: *uint256.NewInt(2), Amount: *uint256.NewInt(20), CollateralAmount: *uint256.NewInt(30)},
	}
	book1 := make(BidBook)
	d1 := FoldBidSubmissions(h, Digest{}, events, book1)
	book2 := make(BidBook)
	d2 := FoldBidSubmissions(h, Digest{}, events, book2)
	if d1 != d2 {
		t.Fatal("invariant 1: identical inputs must yield identical digests")
	}
}
