package auction

import "github.com/zkzoomer/repoauction/internal/hashfn"

// Stats summarizes one run's order outcomes: how many validated orders were
// unlocked versus fully or partially assigned, and the clearing volume. It
// is not part of the engine's deterministic output (the four digests are);
// RunAuction computes it purely as a by-product for ambient logging and
// metrics, and CORE semantics never branch on it.
type Stats struct {
	ValidatedBids   int
	ValidatedOffers int

	UnlockedBids   int
	UnlockedOffers int

	AssignedFullBids    int
	AssignedPartialBids int

	AssignedFullOffers    int
	AssignedPartialOffers int

	ClearingVolume U256
}

// RunAuction wires the encoding, book, hash-chain, validation, clearing,
// assignment, and exit-tree stages into the single deterministic pipeline
// described in §4.9. It folds bid submissions then bid reveals (seeded at
// the zero digest), then offer submissions then offer reveals (also seeded
// at zero), hashes the parameters, validates and sorts the books, clears and
// assigns if the market intersects (otherwise unlocks every validated
// order), materializes the exit leaves, and computes their Merkle root.
//
// proverAddress receives servicingFeeBps (in bps, of each bidder's total
// assigned purchase_amount, taken after assignment) if nonzero; at zero this
// produces byte-identical results to the fee-free pipeline.
func RunAuction(
	hash hashfn.HashFunc,
	proverAddress Address,
	bidSubmissions []BidSubmission,
	offerSubmissions []OfferSubmission,
	bidReveals []BidReveal,
	offerReveals []OfferReveal,
	params AuctionParameters,
	servicingFeeBps uint64,
) (bidsChainDigest, offersChainDigest, paramsDigest, exitRoot Digest, stats Stats) {
	bidBook := make(BidBook)
	offerBook := make(OfferBook)

	bidSubsDigest := FoldBidSubmissions(hash, Digest{}, bidSubmissions, bidBook)
	bidsChainDigest = FoldBidReveals(hash, bidSubsDigest, bidReveals, bidBook)

	offerSubsDigest := FoldOfferSubmissions(hash, Digest{}, offerSubmissions, offerBook)
	offersChainDigest = FoldOfferReveals(hash, offerSubsDigest, offerReveals, offerBook)

	paramsDigest = hash(EncodeAuctionParameters(&params))

	results := NewAuctionResults()
	results.Prover.ProverAddress = proverAddress

	validatedBids := ValidateBids(bidBook, &params, results)
	validatedOffers := ValidateOffers(offerBook, results)
	stats.ValidatedBids = len(validatedBids)
	stats.ValidatedOffers = len(validatedOffers)

	SortBids(validatedBids)
	SortOffers(validatedOffers)

	if Intersects(validatedBids, validatedOffers) {
		clearing := DiscoverClearingPrice(validatedBids, validatedOffers)
		stats.ClearingVolume = clearing.MaxAssignable
		AssignBids(validatedBids, &clearing.ClearingPrice, &clearing.MaxAssignable, &params.DayCount, results, &stats)
		AssignOffers(validatedOffers, &clearing.ClearingPrice, &clearing.MaxAssignable, &params.DayCount, results, &stats)
		if servicingFeeBps != 0 {
			applyServicingFee(results, servicingFeeBps)
		}
	} else {
		unlockAll(validatedBids, validatedOffers, results)
		stats.UnlockedBids = len(validatedBids)
		stats.UnlockedOffers = len(validatedOffers)
	}

	leaves := MaterializeExitLeaves(results, &params)
	leafHashes := make([]Digest, len(leaves))
	for i := range leaves {
		leafHashes[i] = hash(EncodeExitLeaf(&leaves[i]))
	}
	tree := NewLeanIMT(hash, leafHashes)
	exitRoot = tree.Root()

	return bidsChainDigest, offersChainDigest, paramsDigest, exitRoot, stats
}

func unlockAll(bids []*Bid, offers []*Offer, results *AuctionResults) {
	for _, b := range bids {
		alloc := results.bidder(b.Bidder)
		alloc.CollateralAmount = addU256(alloc.CollateralAmount, &b.CollateralAmount)
	}
	for _, o := range offers {
		alloc := results.offeror(o.Offeror)
		alloc.PurchaseAmount = addU256(alloc.PurchaseAmount, &o.Amount)
	}
}

// applyServicingFee skims servicingFeeBps/BPS of each bidder's assigned
// purchase_amount into the prover's allocation. This is a supplement beyond
// spec.md's CORE (see SPEC_FULL.md §D): it is a no-op whenever
// servicingFeeBps is zero, so it never alters the pinned scenarios in §8.
func applyServicingFee(results *AuctionResults, servicingFeeBps uint64) {
	feeBps := new(U256).SetUint64(servicingFeeBps)
	for _, alloc := range results.Bidders {
		if alloc.PurchaseAmount.IsZero() {
			continue
		}
		fee := new(U256).Mul(&alloc.PurchaseAmount, feeBps)
		fee.Div(fee, bpsU256)
		if fee.IsZero() {
			continue
		}
		alloc.PurchaseAmount.Sub(&alloc.PurchaseAmount, fee)
		results.Prover.PurchaseAmount = addU256(results.Prover.PurchaseAmount, fee)
	}
}
