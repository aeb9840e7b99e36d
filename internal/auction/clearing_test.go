package auction

import (
	"testing"

	"github.com/holiman/uint256"
)

func mkBid(addr Address, price, amount uint64) *Bid {
	return &Bid{Bidder: addr, RevealedPrice: *uint256.NewInt(price), Amount: *uint256.NewInt(amount), CollateralAmount: *uint256.NewInt(amount), IsRevealed: true}
}

func mkOffer(addr Address, price, amount uint64) *Offer {
	return &Offer{Offeror: addr, RevealedPrice: *uint256.NewInt(price), Amount: *uint256.NewInt(amount), IsRevealed: true}
}

func TestClearingBracketInvariant(t *testing.T) {
	bids := []*Bid{
		mkBid(mustAddr(1), 900, 20),
		mkBid(mustAddr(2), 1100, 30),
		mkBid(mustAddr(3), 1300, 10),
	}
	offers := []*Offer{
		mkOffer(mustAddr(4), 800, 15),
		mkOffer(mustAddr(5), 1000, 25),
		mkOffer(mustAddr(6), 1200, 10),
	}
	SortBids(bids)
	SortOffers(offers)
	if !Intersects(bids, offers) {
		t.Fatal("expected market to intersect")
	}
	result := DiscoverClearingPrice(bids, offers)

	minOffer := offers[0].RevealedPrice
	maxBid := bids[len(bids)-1].RevealedPrice
	if result.ClearingPrice.Cmp(&minOffer) < 0 || result.ClearingPrice.Cmp(&maxBid) > 0 {
		t.Fatalf("clearing price %d outside bracket [%d, %d]", result.ClearingPrice.Uint64(), minOffer.Uint64(), maxBid.Uint64())
	}
}

func TestAssignmentBoundInvariant(t *testing.T) {
	bids := []*Bid{
		mkBid(mustAddr(1), 900, 20),
		mkBid(mustAddr(2), 1100, 30),
		mkBid(mustAddr(3), 1300, 10),
	}
	offers := []*Offer{
		mkOffer(mustAddr(4), 800, 15),
		mkOffer(mustAddr(5), 1000, 25),
		mkOffer(mustAddr(6), 1200, 10),
	}
	SortBids(bids)
	SortOffers(offers)
	result := DiscoverClearingPrice(bids, offers)

	results := NewAuctionResults()
	dayCount := uint256.NewInt(360)
	AssignBids(bids, &result.ClearingPrice, &result.MaxAssignable, dayCount, results, nil)
	AssignOffers(offers, &result.ClearingPrice, &result.MaxAssignable, dayCount, results, nil)

	var sumBids uint64
	for _, alloc := range results.Bidders {
		sumBids += alloc.PurchaseAmount.Uint64()
	}
	if sumBids > result.MaxAssignable.Uint64() {
		t.Fatalf("sum assigned bid amounts %d > max_assignable %d", sumBids, result.MaxAssignable.Uint64())
	}
}

func TestAssignBidsStatsCountPerGroup(t *testing.T) {
	bidder1 := mustAddr(1)
	bidder2 := mustAddr(2)
	bidder3 := mustAddr(3)
	bids := []*Bid{
		mkBid(bidder1, 1000, 60),
		mkBid(bidder2, 1000, 40),
		mkBid(bidder3, 900, 20),
	}
	SortBids(bids)

	clearing := uint256.NewInt(1000)
	maxAssignable := uint256.NewInt(70)
	dayCount := uint256.NewInt(360)
	results := NewAuctionResults()
	var stats Stats
	AssignBids(bids, clearing, maxAssignable, dayCount, results, &stats)

	if stats.AssignedPartialBids != 2 {
		t.Fatalf("AssignedPartialBids = %d, want 2 (the marginal 1000 group splits across both its orders)", stats.AssignedPartialBids)
	}
	if stats.UnlockedBids != 1 {
		t.Fatalf("UnlockedBids = %d, want 1 (the losing 900 bid)", stats.UnlockedBids)
	}
	if stats.AssignedFullBids != 0 {
		t.Fatalf("AssignedFullBids = %d, want 0", stats.AssignedFullBids)
	}
}

func TestConservationAtUnlock(t *testing.T) {
	bids := []*Bid{mkBid(mustAddr(1), 900, 20), mkBid(mustAddr(2), 800, 30)}
	offers := []*Offer{mkOffer(mustAddr(3), 2000, 15)}
	SortBids(bids)
	SortOffers(offers)
	if Intersects(bids, offers) {
		t.Fatal("expected non-intersecting market")
	}

	results := NewAuctionResults()
	unlockAll(bids, offers, results)

	var sumCollateral uint64
	for _, alloc := range results.Bidders {
		sumCollateral += alloc.CollateralAmount.Uint64()
	}
	if sumCollateral != 50 {
		t.Fatalf("sum collateral_amount = %d, want 50 (20+30)", sumCollateral)
	}

	var sumPurchase uint64
	for _, alloc := range results.Offerors {
		sumPurchase += alloc.PurchaseAmount.Uint64()
	}
	if sumPurchase != 15 {
		t.Fatalf("sum purchase_amount (offerors) = %d, want 15", sumPurchase)
	}
}

func TestOrderingInvarianceOfSort(t *testing.T) {
	a := []*Bid{mkBid(mustAddr(1), 900, 20), mkBid(mustAddr(2), 1100, 30), mkBid(mustAddr(3), 1300, 10)}
	b := []*Bid{mkBid(mustAddr(3), 1300, 10), mkBid(mustAddr(1), 900, 20), mkBid(mustAddr(2), 1100, 30)}
	SortBids(a)
	SortBids(b)
	for i := range a {
		if a[i].Bidder != b[i].Bidder || a[i].RevealedPrice.Cmp(&b[i].RevealedPrice) != 0 {
			t.Fatalf("sorting is not a canonicalizer at index %d", i)
		}
	}
}
