package auction

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/zkzoomer/repoauction/internal/hashfn"
)

func commitmentFor(h hashfn.HashFunc, price, nonce uint64) Digest {
	p := uint256.NewInt(price)
	n := uint256.NewInt(nonce)
	pb := p.Bytes32()
	nb := n.Bytes32()
	buf := append(append([]byte{}, pb[:]...), nb[:]...)
	return h(buf)
}

func TestSaveOrUpdateBidInsertsThenUpdates(t *testing.T) {
	book := make(BidBook)
	s := &BidSubmission{Bidder: mustAddr(0x01), ID: *uint256.NewInt(1), Amount: *uint256.NewInt(100), CollateralAmount: *uint256.NewInt(150)}
	book.SaveOrUpdateBid(s)
	key := orderKey(s.Bidder, &s.ID)
	entry, ok := book[key]
	if !ok {
		t.Fatal("expected entry to be inserted")
	}
	if entry.IsRevealed {
		t.Fatal("fresh entry must not be revealed")
	}

	entry.RevealedPrice = *uint256.NewInt(5000)
	entry.IsRevealed = true

	s2 := &BidSubmission{Bidder: mustAddr(0x01), ID: *uint256.NewInt(1), Amount: *uint256.NewInt(200), CollateralAmount: *uint256.NewInt(300)}
	book.SaveOrUpdateBid(s2)
	updated := book[key]
	if updated.Amount.Uint64() != 200 || updated.CollateralAmount.Uint64() != 300 {
		t.Fatalf("update did not overwrite amount/collateral: %+v", updated)
	}
	if !updated.IsRevealed || updated.RevealedPrice.Uint64() != 5000 {
		t.Fatal("update must not touch revealed_price/is_revealed")
	}
}

func TestSaveOrUpdateBidZeroCollateralDeletes(t *testing.T) {
	book := make(BidBook)
	s := &BidSubmission{Bidder: mustAddr(0x01), ID: *uint256.NewInt(1), Amount: *uint256.NewInt(100), CollateralAmount: *uint256.NewInt(150)}
	book.SaveOrUpdateBid(s)

	del := &BidSubmission{Bidder: mustAddr(0x01), ID: *uint256.NewInt(1), CollateralAmount: *uint256.NewInt(0)}
	book.SaveOrUpdateBid(del)
	if _, ok := book[orderKey(s.Bidder, &s.ID)]; ok {
		t.Fatal("expected key to be deleted")
	}

	book.SaveOrUpdateBid(del) // no-op on missing key, must not panic
}

func TestApplyBidRevealValidOpening(t *testing.T) {
	h := hashfn.Keccak256
	book := make(BidBook)
	s := &BidSubmission{Bidder: mustAddr(0x01), ID: *uint256.NewInt(1), Amount: *uint256.NewInt(100), CollateralAmount: *uint256.NewInt(150)}
	s.PriceCommitment = commitmentFor(h, 5000, 42)
	book.SaveOrUpdateBid(s)

	var orderID OrderKey = orderKey(s.Bidder, &s.ID)
	r := &BidReveal{OrderID: orderID, Price: *uint256.NewInt(5000), Nonce: *uint256.NewInt(42)}
	book.ApplyBidReveal(h, r)

	entry := book[orderID]
	if !entry.IsRevealed || entry.RevealedPrice.Uint64() != 5000 {
		t.Fatalf("expected reveal to apply: %+v", entry)
	}

	// Invariant 3: idempotent re-application.
	before := *entry
	book.ApplyBidReveal(h, r)
	after := book[orderID]
	if before != *after {
		t.Fatal("re-applying a valid reveal must be idempotent")
	}
}

func TestApplyBidRevealBadCommitmentIsNoOp(t *testing.T) {
	h := hashfn.Keccak256
	book := make(BidBook)
	s := &BidSubmission{Bidder: mustAddr(0x01), ID: *uint256.NewInt(1), Amount: *uint256.NewInt(100), CollateralAmount: *uint256.NewInt(150)}
	s.PriceCommitment = commitmentFor(h, 5000, 42)
	book.SaveOrUpdateBid(s)
	orderID := orderKey(s.Bidder, &s.ID)

	before := *book[orderID]
	r := &BidReveal{OrderID: orderID, Price: *uint256.NewInt(9999), Nonce: *uint256.NewInt(1)}
	book.ApplyBidReveal(h, r)
	after := book[orderID]
	if before != *after {
		t.Fatal("invariant 4: bad-commitment reveal must leave the book unchanged")
	}
}

func TestApplyBidRevealUnknownKeyIsNoOp(t *testing.T) {
	h := hashfn.Keccak256
	book := make(BidBook)
	var unknown OrderKey
	r := &BidReveal{OrderID: unknown, Price: *uint256.NewInt(1), Nonce: *uint256.NewInt(1)}
	book.ApplyBidReveal(h, r) // must not panic
	if len(book) != 0 {
		t.Fatal("expected book to remain empty")
	}
}

func TestApplyBidRevealAboveMaxPriceIsNoOp(t *testing.T) {
	h := hashfn.Keccak256
	book := make(BidBook)
	s := &BidSubmission{Bidder: mustAddr(0x01), ID: *uint256.NewInt(1), Amount: *uint256.NewInt(100), CollateralAmount: *uint256.NewInt(150)}
	s.PriceCommitment = commitmentFor(h, MaxBidPrice+1, 1)
	book.SaveOrUpdateBid(s)
	orderID := orderKey(s.Bidder, &s.ID)

	r := &BidReveal{OrderID: orderID, Price: *uint256.NewInt(MaxBidPrice + 1), Nonce: *uint256.NewInt(1)}
	book.ApplyBidReveal(h, r)
	if book[orderID].IsRevealed {
		t.Fatal("reveal above MAX_BID_PRICE must not apply")
	}
}
