package auction

// AssignBids walks validated bids from most competitive (highest price)
// downward in price groups, crediting full, partial, or unlock allocations
// per §4.7, against a shared remaining-volume budget. stats may be nil; when
// non-nil its per-group order counts are accumulated for ambient metrics.
func AssignBids(bids []*Bid, clearing *U256, maxAssignable *U256, dayCount *U256, results *AuctionResults, stats *Stats) {
	groups := groupBids(bids)
	remaining := new(U256).Set(maxAssignable)
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		onWinningSide := g.price.Cmp(clearing) >= 0
		if remaining.IsZero() || !onWinningSide {
			unlockBidGroup(bids, g, results)
			if stats != nil {
				stats.UnlockedBids += g.end - g.start
			}
			continue
		}
		if g.total.Cmp(remaining) <= 0 {
			fullAssignBidGroup(bids, g, clearing, dayCount, results)
			remaining.Sub(remaining, &g.total)
			if stats != nil {
				stats.AssignedFullBids += g.end - g.start
			}
			continue
		}
		partialAssignBidGroup(bids, g, remaining, clearing, dayCount, results)
		remaining.Clear()
		if stats != nil {
			stats.AssignedPartialBids += g.end - g.start
		}
	}
}

// AssignOffers walks validated offers from most competitive (lowest price)
// upward in price groups, crediting full, partial, or unlock allocations per
// §4.7, against a shared remaining-volume budget. stats may be nil; when
// non-nil its per-group order counts are accumulated for ambient metrics.
func AssignOffers(offers []*Offer, clearing *U256, maxAssignable *U256, dayCount *U256, results *AuctionResults, stats *Stats) {
	groups := groupOffers(offers)
	remaining := new(U256).Set(maxAssignable)
	for i := 0; i < len(groups); i++ {
		g := groups[i]
		onWinningSide := g.price.Cmp(clearing) <= 0
		if remaining.IsZero() || !onWinningSide {
			unlockOfferGroup(offers, g, results)
			if stats != nil {
				stats.UnlockedOffers += g.end - g.start
			}
			continue
		}
		if g.total.Cmp(remaining) <= 0 {
			fullAssignOfferGroup(offers, g, clearing, dayCount, results)
			remaining.Sub(remaining, &g.total)
			if stats != nil {
				stats.AssignedFullOffers += g.end - g.start
			}
			continue
		}
		partialAssignOfferGroup(offers, g, remaining, clearing, dayCount, results)
		remaining.Clear()
		if stats != nil {
			stats.AssignedPartialOffers += g.end - g.start
		}
	}
}

func fullAssignBidGroup(bids []*Bid, g priceGroup, clearing, dayCount *U256, results *AuctionResults) {
	for i := g.start; i < g.end; i++ {
		creditBidFill(bids[i], &bids[i].Amount, clearing, dayCount, results)
	}
}

func fullAssignOfferGroup(offers []*Offer, g priceGroup, clearing, dayCount *U256, results *AuctionResults) {
	for i := g.start; i < g.end; i++ {
		creditOfferFill(offers[i], &offers[i].Amount, clearing, dayCount, results, false)
	}
}

// partialAssignBidGroup implements the marginal-group split: every order
// except the last gets floor(amount*remaining/groupRemaining); the last gets
// exactly whatever is left of remaining, so the group's total assignment is
// pinned to remaining regardless of rounding.
func partialAssignBidGroup(bids []*Bid, g priceGroup, remaining *U256, clearing, dayCount *U256, results *AuctionResults) {
	groupRemaining := new(U256).Set(&g.total)
	assignedThisGroup := new(U256)
	for i := g.start; i < g.end; i++ {
		var a *U256
		if i == g.end-1 {
			a = new(U256).Sub(remaining, assignedThisGroup)
		} else {
			num := new(U256).Mul(&bids[i].Amount, remaining)
			a = new(U256).Div(num, groupRemaining)
		}
		creditBidFill(bids[i], a, clearing, dayCount, results)
		assignedThisGroup.Add(assignedThisGroup, a)
		groupRemaining.Sub(groupRemaining, &bids[i].Amount)
	}
}

func partialAssignOfferGroup(offers []*Offer, g priceGroup, remaining *U256, clearing, dayCount *U256, results *AuctionResults) {
	groupRemaining := new(U256).Set(&g.total)
	assignedThisGroup := new(U256)
	for i := g.start; i < g.end; i++ {
		var a *U256
		if i == g.end-1 {
			a = new(U256).Sub(remaining, assignedThisGroup)
		} else {
			num := new(U256).Mul(&offers[i].Amount, remaining)
			a = new(U256).Div(num, groupRemaining)
		}
		creditOfferFill(offers[i], a, clearing, dayCount, results, true)
		assignedThisGroup.Add(assignedThisGroup, a)
		groupRemaining.Sub(groupRemaining, &offers[i].Amount)
	}
}

func unlockBidGroup(bids []*Bid, g priceGroup, results *AuctionResults) {
	for i := g.start; i < g.end; i++ {
		b := bids[i]
		alloc := results.bidder(b.Bidder)
		alloc.CollateralAmount = addU256(alloc.CollateralAmount, &b.CollateralAmount)
	}
}

func unlockOfferGroup(offers []*Offer, g priceGroup, results *AuctionResults) {
	for i := g.start; i < g.end; i++ {
		o := offers[i]
		alloc := results.offeror(o.Offeror)
		alloc.PurchaseAmount = addU256(alloc.PurchaseAmount, &o.Amount)
	}
}

// creditBidFill books a full or partial bid assignment: purchase_amount
// increases by a, and the repurchase obligation is charged the repurchase
// price of a while its collateral is charged bid.collateral_amount in full
// (not prorated), even on a partial fill.
func creditBidFill(bid *Bid, a, clearing, dayCount *U256, results *AuctionResults) {
	alloc := results.bidder(bid.Bidder)
	alloc.PurchaseAmount = addU256(alloc.PurchaseAmount, a)
	rp := repurchasePrice(a, clearing, dayCount)
	alloc.Repurchase.RepurchaseAmount = addU256(alloc.Repurchase.RepurchaseAmount, rp)
	alloc.Repurchase.CollateralAmount = addU256(alloc.Repurchase.CollateralAmount, &bid.CollateralAmount)
}

// creditOfferFill books a full or partial offer assignment: repo_amount
// increases by the repurchase price of a; on a partial fill only, the
// unassigned remainder (offer.amount - a) is refunded as purchase_amount.
func creditOfferFill(offer *Offer, a, clearing, dayCount *U256, results *AuctionResults, partial bool) {
	alloc := results.offeror(offer.Offeror)
	rp := repurchasePrice(a, clearing, dayCount)
	alloc.RepoAmount = addU256(alloc.RepoAmount, rp)
	if partial {
		remainder := new(U256).Sub(&offer.Amount, a)
		alloc.PurchaseAmount = addU256(alloc.PurchaseAmount, remainder)
	}
}

// repurchasePrice computes ⌊p * (1 + (d*c)/(DAYS_IN_YEAR*BPS))⌋ using exact
// integer arithmetic: ⌊(p*DAYS_IN_YEAR*BPS + p*d*c) / (DAYS_IN_YEAR*BPS)⌋.
func repurchasePrice(p, c, d *U256) *U256 {
	denom := new(U256).Mul(daysInYearU256, bpsU256)
	term1 := new(U256).Mul(p, denom)
	pd := new(U256).Mul(p, d)
	term2 := new(U256).Mul(pd, c)
	numerator := new(U256).Add(term1, term2)
	return numerator.Div(numerator, denom)
}
