package auction

import "github.com/zkzoomer/repoauction/internal/hashfn"

// Rolling hash-chain fold: d0 = seed, d[i+1] = H(d[i] ‖ encode(e[i])). Each
// event is also applied to the book, in order, before the chain advances to
// the next event — the two operations share a single pass over the stream.

// FoldBidSubmissions folds a stream of bid submissions into book, starting
// the chain at seed, and returns the resulting digest.
func FoldBidSubmissions(h hashfn.HashFunc, seed Digest, events []BidSubmission, book BidBook) Digest {
	d := seed
	for i := range events {
		book.SaveOrUpdateBid(&events[i])
		d = extend(h, d, EncodeBidSubmission(&events[i]))
	}
	return d
}

// FoldBidReveals folds a stream of bid reveals into book, starting the chain
// at seed, and returns the resulting digest.
func FoldBidReveals(h hashfn.HashFunc, seed Digest, events []BidReveal, book BidBook) Digest {
	d := seed
	for i := range events {
		book.ApplyBidReveal(h, &events[i])
		d = extend(h, d, EncodeBidReveal(&events[i]))
	}
	return d
}

// FoldOfferSubmissions folds a stream of offer submissions into book,
// starting the chain at seed, and returns the resulting digest.
func FoldOfferSubmissions(h hashfn.HashFunc, seed Digest, events []OfferSubmission, book OfferBook) Digest {
	d := seed
	for i := range events {
		book.SaveOrUpdateOffer(&events[i])
		d = extend(h, d, EncodeOfferSubmission(&events[i]))
	}
	return d
}

// FoldOfferReveals folds a stream of offer reveals into book, starting the
// chain at seed, and returns the resulting digest.
func FoldOfferReveals(h hashfn.HashFunc, seed Digest, events []OfferReveal, book OfferBook) Digest {
	d := seed
	for i := range events {
		book.ApplyOfferReveal(h, &events[i])
		d = extend(h, d, EncodeOfferReveal(&events[i]))
	}
	return d
}

func extend(h hashfn.HashFunc, prev Digest, encoded []byte) Digest {
	buf := make([]byte, 0, len(prev)+len(encoded))
	buf = append(buf, prev[:]...)
	buf = append(buf, encoded...)
	return h(buf)
}
