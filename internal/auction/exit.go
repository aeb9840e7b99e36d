package auction

import (
	"bytes"
	"sort"
)

// MaterializeExitLeaves flattens the auction results into the canonical,
// deterministic exit-leaf sequence described in §4.8: the prover's
// withdrawal (if any), then each bidder in ascending address order, then
// each offeror in ascending address order.
func MaterializeExitLeaves(results *AuctionResults, params *AuctionParameters) []ExitLeaf {
	var leaves []ExitLeaf

	if !results.Prover.PurchaseAmount.IsZero() {
		leaves = append(leaves, ExitLeaf{
			Kind:      ExitLeafTokenWithdrawal,
			Recipient: results.Prover.ProverAddress,
			Token:     params.PurchaseToken,
			Amount:    results.Prover.PurchaseAmount,
		})
	}

	for _, addr := range sortedAddresses(results.Bidders) {
		alloc := results.Bidders[addr]
		if !alloc.PurchaseAmount.IsZero() {
			leaves = append(leaves, ExitLeaf{
				Kind:      ExitLeafTokenWithdrawal,
				Recipient: addr,
				Token:     params.PurchaseToken,
				Amount:    alloc.PurchaseAmount,
			})
		}
		if !alloc.CollateralAmount.IsZero() {
			leaves = append(leaves, ExitLeaf{
				Kind:      ExitLeafTokenWithdrawal,
				Recipient: addr,
				Token:     params.CollateralToken,
				Amount:    alloc.CollateralAmount,
			})
		}
		if !alloc.Repurchase.RepurchaseAmount.IsZero() || !alloc.Repurchase.CollateralAmount.IsZero() {
			leaves = append(leaves, ExitLeaf{
				Kind:             ExitLeafRepurchaseObligation,
				Debtor:           addr,
				RepurchaseAmount: alloc.Repurchase.RepurchaseAmount,
				CollateralAmount: alloc.Repurchase.CollateralAmount,
			})
		}
	}

	for _, addr := range sortedOfferorAddresses(results.Offerors) {
		alloc := results.Offerors[addr]
		if !alloc.RepoAmount.IsZero() {
			leaves = append(leaves, ExitLeaf{
				Kind:      ExitLeafRepoTokenWithdrawal,
				Recipient: addr,
				Amount:    alloc.RepoAmount,
			})
		}
		if !alloc.PurchaseAmount.IsZero() {
			leaves = append(leaves, ExitLeaf{
				Kind:      ExitLeafTokenWithdrawal,
				Recipient: addr,
				Token:     params.PurchaseToken,
				Amount:    alloc.PurchaseAmount,
			})
		}
	}

	return leaves
}

func sortedAddresses(m map[Address]*BidderAllocation) []Address {
	addrs := make([]Address, 0, len(m))
	for a := range m {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return bytes.Compare(addrs[i][:], addrs[j][:]) < 0 })
	return addrs
}

func sortedOfferorAddresses(m map[Address]*OfferorAllocation) []Address {
	addrs := make([]Address, 0, len(m))
	for a := range m {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return bytes.Compare(addrs[i][:], addrs[j][:]) < 0 })
	return addrs
}
