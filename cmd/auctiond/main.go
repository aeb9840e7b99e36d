// main.go - replays a recorded bid/offer submission-and-reveal stream
// through the auction engine and reports the four settlement digests.
//
// Usage:
//
//	auctiond -config config.json
//
// The daemon never accepts live orders: submissions and reveals are read
// once from the JSON files named in Config, fed through auction.RunAuction,
// and the resulting digests are logged. The ops HTTP surface then stays up
// so a monitor can poll /healthz and /metrics until the process is signaled
// to stop.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/zkzoomer/repoauction/internal/auction"
	"github.com/zkzoomer/repoauction/internal/hashfn"
)

// bidSubmissionRecord / offerSubmissionRecord / revealRecord / paramsRecord
// are the JSON-file wire shapes: hex strings for addresses and digests,
// decimal strings for every U256 quantity.
type bidSubmissionRecord struct {
	Bidder           string `json:"bidder"`
	ID               string `json:"id"`
	PriceCommitment  string `json:"price_commitment"`
	Amount           string `json:"amount"`
	CollateralAmount string `json:"collateral_amount"`
}

type offerSubmissionRecord struct {
	Offeror         string `json:"offeror"`
	ID              string `json:"id"`
	PriceCommitment string `json:"price_commitment"`
	Amount          string `json:"amount"`
}

type revealRecord struct {
	Owner string `json:"owner"`
	ID    string `json:"id"`
	Price string `json:"price"`
	Nonce string `json:"nonce"`
}

type paramsRecord struct {
	PurchaseToken   string `json:"purchase_token"`
	PurchasePrice   string `json:"purchase_price"`
	CollateralToken string `json:"collateral_token"`
	CollateralPrice string `json:"collateral_price"`
	DayCount        string `json:"day_count"`
}

func mustU256(s string) (auction.U256, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return auction.U256{}, fmt.Errorf("invalid uint256 %q: %w", s, err)
	}
	return *v, nil
}

func orderKeyOf(owner common.Address, id *auction.U256) auction.OrderKey {
	var k auction.OrderKey
	copy(k[:20], owner[:])
	b := id.Bytes32()
	copy(k[20:32], b[20:32])
	return k
}

func loadJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func loadBidSubmissions(path string) ([]auction.BidSubmission, error) {
	var records []bidSubmissionRecord
	if err := loadJSON(path, &records); err != nil {
		return nil, err
	}
	out := make([]auction.BidSubmission, len(records))
	for i, r := range records {
		id, err := mustU256(r.ID)
		if err != nil {
			return nil, err
		}
		amount, err := mustU256(r.Amount)
		if err != nil {
			return nil, err
		}
		collateral, err := mustU256(r.CollateralAmount)
		if err != nil {
			return nil, err
		}
		out[i] = auction.BidSubmission{
			Bidder:           common.HexToAddress(r.Bidder),
			ID:               id,
			PriceCommitment:  common.HexToHash(r.PriceCommitment),
			Amount:           amount,
			CollateralAmount: collateral,
		}
	}
	return out, nil
}

func loadOfferSubmissions(path string) ([]auction.OfferSubmission, error) {
	var records []offerSubmissionRecord
	if err := loadJSON(path, &records); err != nil {
		return nil, err
	}
	out := make([]auction.OfferSubmission, len(records))
	for i, r := range records {
		id, err := mustU256(r.ID)
		if err != nil {
			return nil, err
		}
		amount, err := mustU256(r.Amount)
		if err != nil {
			return nil, err
		}
		out[i] = auction.OfferSubmission{
			Offeror:         common.HexToAddress(r.Offeror),
			ID:              id,
			PriceCommitment: common.HexToHash(r.PriceCommitment),
			Amount:          amount,
		}
	}
	return out, nil
}

func loadBidReveals(path string) ([]auction.BidReveal, error) {
	var records []revealRecord
	if err := loadJSON(path, &records); err != nil {
		return nil, err
	}
	out := make([]auction.BidReveal, len(records))
	for i, r := range records {
		id, err := mustU256(r.ID)
		if err != nil {
			return nil, err
		}
		price, err := mustU256(r.Price)
		if err != nil {
			return nil, err
		}
		nonce, err := mustU256(r.Nonce)
		if err != nil {
			return nil, err
		}
		out[i] = auction.BidReveal{
			OrderID: orderKeyOf(common.HexToAddress(r.Owner), &id),
			Price:   price,
			Nonce:   nonce,
		}
	}
	return out, nil
}

func loadOfferReveals(path string) ([]auction.OfferReveal, error) {
	var records []revealRecord
	if err := loadJSON(path, &records); err != nil {
		return nil, err
	}
	out := make([]auction.OfferReveal, len(records))
	for i, r := range records {
		id, err := mustU256(r.ID)
		if err != nil {
			return nil, err
		}
		price, err := mustU256(r.Price)
		if err != nil {
			return nil, err
		}
		nonce, err := mustU256(r.Nonce)
		if err != nil {
			return nil, err
		}
		out[i] = auction.OfferReveal{
			OrderID: orderKeyOf(common.HexToAddress(r.Owner), &id),
			Price:   price,
			Nonce:   nonce,
		}
	}
	return out, nil
}

func loadParams(path string) (auction.AuctionParameters, error) {
	var r paramsRecord
	if err := loadJSON(path, &r); err != nil {
		return auction.AuctionParameters{}, err
	}
	purchasePrice, err := mustU256(r.PurchasePrice)
	if err != nil {
		return auction.AuctionParameters{}, err
	}
	collateralPrice, err := mustU256(r.CollateralPrice)
	if err != nil {
		return auction.AuctionParameters{}, err
	}
	dayCount, err := mustU256(r.DayCount)
	if err != nil {
		return auction.AuctionParameters{}, err
	}
	return auction.AuctionParameters{
		PurchaseToken:   common.HexToAddress(r.PurchaseToken),
		PurchasePrice:   purchasePrice,
		CollateralToken: common.HexToAddress(r.CollateralToken),
		CollateralPrice: collateralPrice,
		DayCount:        dayCount,
	}, nil
}

func selectHash(name string) (hashfn.HashFunc, error) {
	switch name {
	case "keccak256":
		return hashfn.Keccak256, nil
	case "mimc":
		return hashfn.MiMC, nil
	default:
		return nil, fmt.Errorf("unknown hash_primitive %q", name)
	}
}

func main() {
	configPath := flag.String("config", "config.json", "path to the daemon configuration file")
	serve := flag.Bool("serve", true, "keep the /healthz and /metrics ops surface up after the run")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := NewLogger(cfg.LogLevel, cfg.LogFile, auditPathOrEmpty(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	metrics := NewMetricsCollector()
	health := NewHealthChecker("0.1.0")
	health.RegisterComponent("engine", func() error { return nil })
	health.RegisterComponent("inputs", func() error {
		for _, p := range []string{cfg.BidSubmissionsPath, cfg.OfferSubmissionsPath, cfg.BidRevealsPath, cfg.OfferRevealsPath, cfg.ParamsPath} {
			f, err := os.Open(p)
			if err != nil {
				return err
			}
			f.Close()
		}
		return nil
	})
	health.RegisterComponent("hash_primitive", func() error {
		_, err := selectHash(cfg.HashPrimitive)
		return err
	})

	hash, err := selectHash(cfg.HashPrimitive)
	if err != nil {
		logger.Fatal("%v", err)
	}

	bidSubs, err := loadBidSubmissions(cfg.BidSubmissionsPath)
	if err != nil {
		logger.Fatal("loading bid submissions: %v", err)
	}
	offerSubs, err := loadOfferSubmissions(cfg.OfferSubmissionsPath)
	if err != nil {
		logger.Fatal("loading offer submissions: %v", err)
	}
	bidReveals, err := loadBidReveals(cfg.BidRevealsPath)
	if err != nil {
		logger.Fatal("loading bid reveals: %v", err)
	}
	offerReveals, err := loadOfferReveals(cfg.OfferRevealsPath)
	if err != nil {
		logger.Fatal("loading offer reveals: %v", err)
	}
	params, err := loadParams(cfg.ParamsPath)
	if err != nil {
		logger.Fatal("loading params: %v", err)
	}

	logger.Info("replaying %d bid submissions, %d offer submissions, %d bid reveals, %d offer reveals",
		len(bidSubs), len(offerSubs), len(bidReveals), len(offerReveals))

	var prover common.Address
	bidsDigest, offersDigest, paramsDigest, exitRoot, stats := auction.RunAuction(
		hash, prover, bidSubs, offerSubs, bidReveals, offerReveals, params, cfg.ServicingFeeBps,
	)

	metrics.RecordOrdersValidated("bid", stats.ValidatedBids)
	metrics.RecordOrdersValidated("offer", stats.ValidatedOffers)
	metrics.RecordOrdersUnlocked("bid", stats.UnlockedBids)
	metrics.RecordOrdersUnlocked("offer", stats.UnlockedOffers)
	metrics.RecordOrdersAssignedFull("bid", stats.AssignedFullBids)
	metrics.RecordOrdersAssignedFull("offer", stats.AssignedFullOffers)
	metrics.RecordOrdersAssignedPartial("bid", stats.AssignedPartialBids)
	metrics.RecordOrdersAssignedPartial("offer", stats.AssignedPartialOffers)
	metrics.RecordClearingVolume(float64(stats.ClearingVolume.Uint64()))

	logger.Info("bids_chain_digest=%s", bidsDigest.Hex())
	logger.Info("offers_chain_digest=%s", offersDigest.Hex())
	logger.Info("params_digest=%s", paramsDigest.Hex())
	logger.Info("exit_root=%s", exitRoot.Hex())
	logger.Audit("auction_run", map[string]interface{}{
		"bids_chain_digest":   bidsDigest.Hex(),
		"offers_chain_digest": offersDigest.Hex(),
		"params_digest":       paramsDigest.Hex(),
		"exit_root":           exitRoot.Hex(),
	})

	fmt.Printf("bids_chain_digest=%s\n", bidsDigest.Hex())
	fmt.Printf("offers_chain_digest=%s\n", offersDigest.Hex())
	fmt.Printf("params_digest=%s\n", paramsDigest.Hex())
	fmt.Printf("exit_root=%s\n", exitRoot.Hex())

	if !*serve {
		return
	}

	ops := NewOpsServer(fmt.Sprintf(":%d", cfg.HealthPort), health, metrics, logger)
	ops.Start()
	select {}
}

func auditPathOrEmpty(cfg *Config) string {
	if !cfg.EnableAudit {
		return ""
	}
	return cfg.AuditLogPath
}
