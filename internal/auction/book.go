package auction

import (
	"sort"

	"github.com/zkzoomer/repoauction/internal/hashfn"
)

// BidBook is a mapping OrderKey -> *Bid with insertion-order-independent
// semantics; iteration must always go through SortedKeys for determinism.
type BidBook map[OrderKey]*Bid

// OfferBook is a mapping OrderKey -> *Offer with insertion-order-independent
// semantics; iteration must always go through SortedKeys for determinism.
type OfferBook map[OrderKey]*Offer

// SortedKeys returns a book's keys in ascending byte order (address then id,
// big-endian), the deterministic iteration order required by the exit root
// and by tie-breaking in sorting.
func (b BidBook) SortedKeys() []OrderKey {
	keys := make([]OrderKey, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func (b OfferBook) SortedKeys() []OrderKey {
	keys := make([]OrderKey, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func sortKeys(keys []OrderKey) {
	sort.Slice(keys, func(i, j int) bool {
		for b := 0; b < 32; b++ {
			if keys[i][b] != keys[j][b] {
				return keys[i][b] < keys[j][b]
			}
		}
		return false
	})
}

// SaveOrUpdateBid applies a BidSubmission to the book per the submission
// protocol: delete on zero effective size, overwrite mutable fields on an
// existing key (never touching revealed_price/is_revealed), or insert fresh.
func (b BidBook) SaveOrUpdateBid(s *BidSubmission) {
	key := orderKey(s.Bidder, &s.ID)
	if s.CollateralAmount.IsZero() {
		delete(b, key)
		return
	}
	if existing, ok := b[key]; ok {
		existing.Amount = s.Amount
		existing.CollateralAmount = s.CollateralAmount
		existing.PriceCommitment = s.PriceCommitment
		return
	}
	b[key] = &Bid{
		ID:               s.ID,
		Bidder:           s.Bidder,
		PriceCommitment:  s.PriceCommitment,
		Amount:           s.Amount,
		CollateralAmount: s.CollateralAmount,
	}
}

// SaveOrUpdateOffer applies an OfferSubmission to the book per the same
// protocol, keyed by amount instead of collateral_amount.
func (b OfferBook) SaveOrUpdateOffer(s *OfferSubmission) {
	key := orderKey(s.Offeror, &s.ID)
	if s.Amount.IsZero() {
		delete(b, key)
		return
	}
	if existing, ok := b[key]; ok {
		existing.Amount = s.Amount
		existing.PriceCommitment = s.PriceCommitment
		return
	}
	b[key] = &Offer{
		ID:              s.ID,
		Offeror:         s.Offeror,
		PriceCommitment: s.PriceCommitment,
		Amount:          s.Amount,
	}
}

// ApplyBidReveal / ApplyOfferReveal apply a reveal event to the book: if the
// key exists and the nonce opens the commitment and the price is within
// bounds, the entry is updated in place. Every other case — unknown key,
// bad commitment, out-of-bounds price — is a silent no-op.
func (b BidBook) ApplyBidReveal(h hashfn.HashFunc, r *BidReveal) {
	entry, ok := b[r.OrderID]
	if !ok {
		return
	}
	if !openingMatches(h, entry.PriceCommitment, &r.Price, &r.Nonce) {
		return
	}
	if r.Price.Cmp(maxBidPriceU256) > 0 {
		return
	}
	entry.RevealedPrice = r.Price
	entry.IsRevealed = true
}

func (b OfferBook) ApplyOfferReveal(h hashfn.HashFunc, r *OfferReveal) {
	entry, ok := b[r.OrderID]
	if !ok {
		return
	}
	if !openingMatches(h, entry.PriceCommitment, &r.Price, &r.Nonce) {
		return
	}
	if r.Price.Cmp(maxOfferPriceU256) > 0 {
		return
	}
	entry.RevealedPrice = r.Price
	entry.IsRevealed = true
}

func openingMatches(h hashfn.HashFunc, commitment Digest, price, nonce *U256) bool {
	priceBE := price.Bytes32()
	nonceBE := nonce.Bytes32()
	buf := make([]byte, 0, 64)
	buf = append(buf, priceBE[:]...)
	buf = append(buf, nonceBE[:]...)
	return h(buf) == commitment
}
