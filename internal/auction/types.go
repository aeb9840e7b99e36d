// Package auction implements the deterministic core of a sealed-bid,
// single-clearing-price repo auction: book reconstruction from submission and
// reveal event streams, validation against reference prices, clearing-price
// discovery, assignment, and the exit commitment consumed by a settlement
// verifier.
//
// The package is purely functional over its inputs: RunAuction takes a hash
// primitive and a set of event streams and returns four digests, plus a Stats
// summary of order outcomes that no digest depends on. It performs
// no I/O and holds no state beyond the lifetime of a single call.
package auction

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Address is a 20-byte actor identity (bidder, offeror, prover, or token).
type Address = common.Address

// Digest is a 32-byte hash value.
type Digest = common.Hash

// U256 is a 256-bit unsigned integer used for every monetary quantity.
type U256 = uint256.Int

// OrderKey uniquely identifies a live order: address ‖ id (big-endian), 32 bytes.
type OrderKey [32]byte

// AuctionParameters is the immutable input governing a single auction run.
type AuctionParameters struct {
	PurchaseToken    Address
	PurchasePrice    U256
	CollateralToken  Address
	CollateralPrice  U256
	DayCount         U256
}

// Bid is a book entry tracking one bidder's sealed order.
//
// Invariant: RevealedPrice is zero and IsRevealed is false iff no valid
// reveal has been applied yet. An entry with CollateralAmount == 0 must never
// be present in the book (it is deleted by save_or_update instead).
type Bid struct {
	ID                U256
	Bidder            Address
	PriceCommitment   Digest
	RevealedPrice     U256
	Amount            U256
	CollateralAmount  U256
	IsRevealed        bool
}

// Offer is a book entry tracking one offeror's sealed order.
//
// Invariant: an entry with Amount == 0 must never be present in the book.
type Offer struct {
	ID              U256
	Offeror         Address
	PriceCommitment Digest
	RevealedPrice   U256
	Amount          U256
	IsRevealed      bool
}

// Repurchase is a bidder's obligation at maturity: repay principal plus
// accrued interest, collateralized by CollateralAmount.
type Repurchase struct {
	RepurchaseAmount U256
	CollateralAmount U256
}

// BidderAllocation accumulates the effects of the auction on one bidder.
// Every field is non-decreasing over the auction's lifetime, except that a
// nonzero servicing fee (applyServicingFee) lowers PurchaseAmount once,
// after assignment.
type BidderAllocation struct {
	PurchaseAmount   U256
	CollateralAmount U256
	Repurchase       Repurchase
}

// OfferorAllocation accumulates the effects of the auction on one offeror.
// Every field is non-decreasing over the auction's lifetime.
type OfferorAllocation struct {
	RepoAmount     U256
	PurchaseAmount U256
}

// ProverAllocation is the fee sink; it may remain zero for the lifetime of
// the auction.
type ProverAllocation struct {
	ProverAddress  Address
	PurchaseAmount U256
}

// AuctionResults holds the three allocation maps. Bidder and offeror entries
// are created lazily on first credit.
type AuctionResults struct {
	Prover   ProverAllocation
	Bidders  map[Address]*BidderAllocation
	Offerors map[Address]*OfferorAllocation
}

// NewAuctionResults returns an empty result set with initialized maps.
func NewAuctionResults() *AuctionResults {
	return &AuctionResults{
		Bidders:  make(map[Address]*BidderAllocation),
		Offerors: make(map[Address]*OfferorAllocation),
	}
}

func (r *AuctionResults) bidder(addr Address) *BidderAllocation {
	b, ok := r.Bidders[addr]
	if !ok {
		b = &BidderAllocation{}
		r.Bidders[addr] = b
	}
	return b
}

func (r *AuctionResults) offeror(addr Address) *OfferorAllocation {
	o, ok := r.Offerors[addr]
	if !ok {
		o = &OfferorAllocation{}
		r.Offerors[addr] = o
	}
	return o
}

// ExitLeafKind tags the variant of an ExitLeaf.
type ExitLeafKind int

const (
	ExitLeafTokenWithdrawal ExitLeafKind = iota
	ExitLeafRepoTokenWithdrawal
	ExitLeafRepurchaseObligation
)

// ExitLeaf is a single post-auction settlement action. Exactly the fields
// relevant to Kind are meaningful; see encode.go for the packed layout of
// each variant.
type ExitLeaf struct {
	Kind      ExitLeafKind
	Recipient Address // TokenWithdrawal, RepoTokenWithdrawal
	Token     Address // TokenWithdrawal only
	Amount    U256    // TokenWithdrawal, RepoTokenWithdrawal

	Debtor           Address // RepurchaseObligation
	RepurchaseAmount U256    // RepurchaseObligation
	CollateralAmount U256    // RepurchaseObligation
}

// BidSubmission is the canonical onchain event placing or updating a bid.
type BidSubmission struct {
	Bidder           Address
	ID               U256
	PriceCommitment  Digest
	Amount           U256
	CollateralAmount U256
}

// OfferSubmission is the canonical onchain event placing or updating an offer.
type OfferSubmission struct {
	Offeror         Address
	ID              U256
	PriceCommitment Digest
	Amount          U256
}

// BidReveal / OfferReveal are the canonical onchain events unblinding a
// previously-committed price.
type BidReveal struct {
	OrderID OrderKey
	Price   U256
	Nonce   U256
}

type OfferReveal struct {
	OrderID OrderKey
	Price   U256
	Nonce   U256
}

// orderKey returns the OrderKey this submission/reveal targets.
func orderKey(addr Address, id *U256) OrderKey {
	var k OrderKey
	copy(k[:20], addr[:])
	b := id.Bytes32()
	copy(k[20:32], b[20:32])
	return k
}
