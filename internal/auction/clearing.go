package auction

// priceGroup is a maximal run of equal-priced validated orders within a
// sorted slice, plus its own total amount.
type priceGroup struct {
	price U256
	start int
	end   int // exclusive
	total U256
}

func groupBids(bids []*Bid) []priceGroup {
	var groups []priceGroup
	i := 0
	for i < len(bids) {
		j := i
		total := new(U256)
		for j < len(bids) && bids[j].RevealedPrice.Cmp(&bids[i].RevealedPrice) == 0 {
			total.Add(total, &bids[j].Amount)
			j++
		}
		groups = append(groups, priceGroup{price: bids[i].RevealedPrice, start: i, end: j, total: *total})
		i = j
	}
	return groups
}

func groupOffers(offers []*Offer) []priceGroup {
	var groups []priceGroup
	i := 0
	for i < len(offers) {
		j := i
		total := new(U256)
		for j < len(offers) && offers[j].RevealedPrice.Cmp(&offers[i].RevealedPrice) == 0 {
			total.Add(total, &offers[j].Amount)
			j++
		}
		groups = append(groups, priceGroup{price: offers[i].RevealedPrice, start: i, end: j, total: *total})
		i = j
	}
	return groups
}

// Intersects reports whether the sorted validated books can clear at all:
// nb>0, no>0, and the most competitive bid meets or beats the most
// competitive offer.
func Intersects(bids []*Bid, offers []*Offer) bool {
	if len(bids) == 0 || len(offers) == 0 {
		return false
	}
	return bids[len(bids)-1].RevealedPrice.Cmp(&offers[0].RevealedPrice) >= 0
}

// ClearingResult is the outcome of clearing-price discovery.
type ClearingResult struct {
	ClearingPrice  U256
	MaxAssignable  U256
}

// DiscoverClearingPrice implements §4.6's double sweep: Phase A walks offer
// price groups upward while the matched volume strictly improves, Phase B
// then walks bid price groups downward from that point while doing so keeps
// CSB at least CSO and narrows the price gap, Phase C averages the two
// surviving boundary prices, and Phase D re-sweeps both sides at that final
// price to get the maximum assignable volume. Callers must have already
// confirmed Intersects(bids, offers).
func DiscoverClearingPrice(bids []*Bid, offers []*Offer) ClearingResult {
	bidGroups := groupBids(bids)
	offerGroups := groupOffers(offers)

	totalBid := new(U256)
	for _, g := range bidGroups {
		totalBid.Add(totalBid, &g.total)
	}

	// Phase A: advance offer groups upward, shrinking the bid side as lower
	// bid groups fall below the candidate offer price, keeping the
	// candidate only while min(CSB, CSO) strictly increases.
	bidSum := new(U256).Set(totalBid)
	bgIdx := 0
	offerCum := new(U256)

	var (
		bestOfferIdx int
		bestBidIdx   int
		bestMin      *U256
	)
	for goIdx := range offerGroups {
		p := offerGroups[goIdx].price
		for bgIdx < len(bidGroups) && bidGroups[bgIdx].price.Cmp(&p) < 0 {
			bidSum.Sub(bidSum, &bidGroups[bgIdx].total)
			bgIdx++
		}
		offerCum.Add(offerCum, &offerGroups[goIdx].total)

		csb := new(U256).Set(bidSum)
		cso := new(U256).Set(offerCum)
		minVal := minU256(csb, cso)

		if bestMin == nil || minVal.Cmp(bestMin) > 0 {
			bestOfferIdx = goIdx
			bestBidIdx = bgIdx
			bestMin = minVal
			continue
		}
		break
	}

	offerPriceFixed := offerGroups[bestOfferIdx].price
	csoFixed := new(U256)
	for g := 0; g <= bestOfferIdx; g++ {
		csoFixed.Add(csoFixed, &offerGroups[g].total)
	}

	// Phase B: from the fixed offer price, keep dropping the lowest
	// remaining bid group while doing so still leaves CSB >= CSO and the
	// dropped group's price was strictly below the fixed offer price.
	bgIdx = bestBidIdx
	csbCur := new(U256).Set(totalBid)
	for g := 0; g < bgIdx; g++ {
		csbCur.Sub(csbCur, &bidGroups[g].total)
	}
	for bgIdx < len(bidGroups) {
		if bidGroups[bgIdx].price.Cmp(&offerPriceFixed) >= 0 {
			break
		}
		next := new(U256).Sub(csbCur, &bidGroups[bgIdx].total)
		if next.Cmp(csoFixed) < 0 {
			break
		}
		csbCur.Set(next)
		bgIdx++
	}

	var bidPriceFinal U256
	if bgIdx >= len(bidGroups) {
		bidPriceFinal = bidGroups[len(bidGroups)-1].price
	} else {
		bidPriceFinal = bidGroups[bgIdx].price
	}

	// Phase C: clearing price is the integer-truncated average of the two
	// surviving boundary prices.
	clearing := new(U256).Add(&offerPriceFixed, &bidPriceFinal)
	clearing.Div(clearing, uint256NewInt2())

	// Phase D: final re-sweep at the clearing price.
	csbFinal := cumulativeBidsAtOrAbove(bids, clearing)
	csoFinal := cumulativeOffersAtOrBelow(offers, clearing)

	return ClearingResult{
		ClearingPrice: *clearing,
		MaxAssignable: *minU256(csbFinal, csoFinal),
	}
}

func cumulativeBidsAtOrAbove(bids []*Bid, price *U256) *U256 {
	total := new(U256)
	for _, b := range bids {
		if b.RevealedPrice.Cmp(price) >= 0 {
			total.Add(total, &b.Amount)
		}
	}
	return total
}

func cumulativeOffersAtOrBelow(offers []*Offer, price *U256) *U256 {
	total := new(U256)
	for _, o := range offers {
		if o.RevealedPrice.Cmp(price) <= 0 {
			total.Add(total, &o.Amount)
		}
	}
	return total
}

func minU256(a, b *U256) *U256 {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func uint256NewInt2() *U256 {
	return new(U256).SetUint64(2)
}
