package auction

// Canonical packed encodings for every record type the hash chain and the
// exit Merkle tree consume. Every integer is big-endian, every address is 20
// bytes, every U256 is 32 bytes, every id is 12 bytes (U96); there is no
// framing or length prefix. Byte layouts are pinned in encode_test.go.

func putAddress(buf []byte, a Address) []byte {
	return append(buf, a[:]...)
}

func putU256(buf []byte, v *U256) []byte {
	b := v.Bytes32()
	return append(buf, b[:]...)
}

// putU96 appends the low 12 bytes of v's big-endian representation.
func putU96(buf []byte, v *U256) []byte {
	b := v.Bytes32()
	return append(buf, b[20:32]...)
}

func putDigest(buf []byte, d Digest) []byte {
	return append(buf, d[:]...)
}

func putBool(buf []byte, b bool) []byte {
	if b {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// EncodeBidSubmission returns the 128-byte packed encoding:
// bidder(20) ‖ id(12) ‖ price_commitment(32) ‖ amount(32) ‖ collateral_amount(32).
func EncodeBidSubmission(s *BidSubmission) []byte {
	buf := make([]byte, 0, 128)
	buf = putAddress(buf, s.Bidder)
	buf = putU96(buf, &s.ID)
	buf = putDigest(buf, s.PriceCommitment)
	buf = putU256(buf, &s.Amount)
	buf = putU256(buf, &s.CollateralAmount)
	return buf
}

// EncodeOfferSubmission returns the 96-byte packed encoding:
// offeror(20) ‖ id(12) ‖ price_commitment(32) ‖ amount(32).
func EncodeOfferSubmission(s *OfferSubmission) []byte {
	buf := make([]byte, 0, 96)
	buf = putAddress(buf, s.Offeror)
	buf = putU96(buf, &s.ID)
	buf = putDigest(buf, s.PriceCommitment)
	buf = putU256(buf, &s.Amount)
	return buf
}

// EncodeBidReveal / EncodeOfferReveal return the 96-byte packed encoding:
// order_id(32) ‖ price(32) ‖ nonce(32).
func EncodeBidReveal(r *BidReveal) []byte {
	return encodeReveal(r.OrderID, &r.Price, &r.Nonce)
}

func EncodeOfferReveal(r *OfferReveal) []byte {
	return encodeReveal(r.OrderID, &r.Price, &r.Nonce)
}

func encodeReveal(orderID OrderKey, price, nonce *U256) []byte {
	buf := make([]byte, 0, 96)
	buf = append(buf, orderID[:]...)
	buf = putU256(buf, price)
	buf = putU256(buf, nonce)
	return buf
}

// EncodeAuctionParameters returns the 136-byte packed encoding:
// purchase_token(20) ‖ purchase_price(32) ‖ collateral_token(20) ‖
// collateral_price(32) ‖ day_count(32).
func EncodeAuctionParameters(p *AuctionParameters) []byte {
	buf := make([]byte, 0, 136)
	buf = putAddress(buf, p.PurchaseToken)
	buf = putU256(buf, &p.PurchasePrice)
	buf = putAddress(buf, p.CollateralToken)
	buf = putU256(buf, &p.CollateralPrice)
	buf = putU256(buf, &p.DayCount)
	return buf
}

// EncodeExitLeaf returns the packed encoding of a single exit leaf, whose
// layout and length depend on its Kind:
//   - TokenWithdrawal: recipient(20) ‖ token(20) ‖ amount(32) = 72 bytes.
//   - RepoTokenWithdrawal: recipient(20) ‖ amount(32) = 52 bytes.
//   - RepurchaseObligation: debtor(20) ‖ repurchase_amount(32) ‖ collateral_amount(32) = 84 bytes.
func EncodeExitLeaf(l *ExitLeaf) []byte {
	switch l.Kind {
	case ExitLeafTokenWithdrawal:
		buf := make([]byte, 0, 72)
		buf = putAddress(buf, l.Recipient)
		buf = putAddress(buf, l.Token)
		buf = putU256(buf, &l.Amount)
		return buf
	case ExitLeafRepoTokenWithdrawal:
		buf := make([]byte, 0, 52)
		buf = putAddress(buf, l.Recipient)
		buf = putU256(buf, &l.Amount)
		return buf
	case ExitLeafRepurchaseObligation:
		buf := make([]byte, 0, 84)
		buf = putAddress(buf, l.Debtor)
		buf = putU256(buf, &l.RepurchaseAmount)
		buf = putU256(buf, &l.CollateralAmount)
		return buf
	default:
		panic("auction: unknown exit leaf kind")
	}
}
