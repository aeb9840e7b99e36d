package auction

import "github.com/holiman/uint256"

// BPS is the basis-point denominator used throughout the collateralization and
// repurchase-price math (1 bps = 1/10000).
const BPS = 10_000

// InitialCollateralRatio is the minimum collateral-to-purchase ratio a bid must
// post at submission time, expressed in bps (150%).
const InitialCollateralRatio = 15_000

// MaxBidPrice and MaxOfferPrice bound revealed prices, expressed in bps
// (10,000%). A reveal above this bound is treated as if it never happened.
const (
	MaxBidPrice   = 1_000_000
	MaxOfferPrice = 1_000_000
)

// DaysInYear is the fixed denominator of the day-count term fraction used by
// the repurchase-price computation.
const DaysInYear = 360

var (
	bpsU256            = uint256.NewInt(BPS)
	initialCollRatioU  = uint256.NewInt(InitialCollateralRatio)
	maxBidPriceU256    = uint256.NewInt(MaxBidPrice)
	maxOfferPriceU256  = uint256.NewInt(MaxOfferPrice)
	daysInYearU256     = uint256.NewInt(DaysInYear)
)
