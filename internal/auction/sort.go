package auction

import "sort"

// SortBids sorts validated bids ascending by revealed price; ties keep the
// book-iteration order they arrived in (Go's sort.SliceStable preserves it).
// The most competitive bid ends up last.
func SortBids(bids []*Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].RevealedPrice.Cmp(&bids[j].RevealedPrice) < 0
	})
}

// SortOffers sorts validated offers ascending by revealed price; ties keep
// the book-iteration order they arrived in. The most competitive offer ends
// up first.
func SortOffers(offers []*Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].RevealedPrice.Cmp(&offers[j].RevealedPrice) < 0
	})
}
