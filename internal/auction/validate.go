package auction

// ValidateBids partitions book into validated bids (revealed and
// sufficiently collateralized) and refunds every invalid or unrevealed bid's
// locked collateral to its bidder via results. The returned slice is in book
// iteration order (ascending key); sorting happens in sort.go.
func ValidateBids(book BidBook, params *AuctionParameters, results *AuctionResults) []*Bid {
	keys := book.SortedKeys()
	validated := make([]*Bid, 0, len(keys))
	for _, k := range keys {
		bid := book[k]
		if bid.IsRevealed && bidIsCollateralized(bid, params) {
			validated = append(validated, bid)
			continue
		}
		results.bidder(bid.Bidder).CollateralAmount = addU256(results.bidder(bid.Bidder).CollateralAmount, &bid.CollateralAmount)
	}
	return validated
}

// ValidateOffers partitions book into validated offers (revealed) and
// refunds every unrevealed offer's locked purchase amount to its offeror via
// results.
func ValidateOffers(book OfferBook, results *AuctionResults) []*Offer {
	keys := book.SortedKeys()
	validated := make([]*Offer, 0, len(keys))
	for _, k := range keys {
		offer := book[k]
		if offer.IsRevealed {
			validated = append(validated, offer)
			continue
		}
		results.offeror(offer.Offeror).PurchaseAmount = addU256(results.offeror(offer.Offeror).PurchaseAmount, &offer.Amount)
	}
	return validated
}

// bidIsCollateralized implements the §4.4 check in strict unsigned
// arithmetic: collateral_amount*collateral_price*BPS must be at least
// amount*purchase_price*INITIAL_COLLATERAL_RATIO, with every multiplication
// checked for 256-bit overflow. Any overflow makes the bid invalid.
func bidIsCollateralized(bid *Bid, params *AuctionParameters) bool {
	collateralValue, overflow := mulChecked(&bid.CollateralAmount, &params.CollateralPrice)
	if overflow {
		return false
	}
	purchaseValue, overflow := mulChecked(&bid.Amount, &params.PurchasePrice)
	if overflow {
		return false
	}
	minCollateralSide, overflow := mulChecked(purchaseValue, initialCollRatioU)
	if overflow {
		return false
	}
	collateralSide, overflow := mulChecked(collateralValue, bpsU256)
	if overflow {
		return false
	}
	return collateralSide.Cmp(minCollateralSide) >= 0
}

func mulChecked(x, y *U256) (*U256, bool) {
	z := new(U256)
	_, overflow := z.MulOverflow(x, y)
	return z, overflow
}

func addU256(acc U256, v *U256) U256 {
	var out U256
	out.Add(&acc, v)
	return out
}
