// Package market orchestrates order book analysis against live exchange
// data: multi-ticker market summaries and fill cost simulation.
package market

import (
	"context"
	"fmt"
	"strings"
	"sync"

	appeconomy "github.com/hyposcaler-bot/prun-mcp/internal/application/economy"
	domeconomy "github.com/hyposcaler-bot/prun-mcp/internal/domain/economy"
	"github.com/hyposcaler-bot/prun-mcp/internal/domain/market"
)

// ExchangeInfoLookup fetches the full market state for one ticker on one
// exchange. A ticker with no market there returns (nil, nil).
type ExchangeInfoLookup interface {
	ExchangeInfo(ctx context.Context, ticker, exchange string) (*market.ExchangeInfo, error)
}

// Service runs market analysis against an exchange info source.
type Service struct {
	exchange ExchangeInfoLookup
}

func NewService(exchange ExchangeInfoLookup) *Service {
	return &Service{exchange: exchange}
}

// SummaryResult is a market snapshot for a set of tickers on one exchange.
type SummaryResult struct {
	Exchange string           `json:"exchange"`
	Markets  []MarketSnapshot `json:"markets"`
	Warnings []string         `json:"warnings,omitempty"`
	NotFound []string         `json:"not_found,omitempty"`
}

// MarketSnapshot condenses one ticker's market state.
type MarketSnapshot struct {
	Ticker    string   `json:"ticker"`
	Bid       *float64 `json:"bid"`
	BidDepth  int      `json:"bid_depth"`
	Ask       *float64 `json:"ask"`
	AskDepth  int      `json:"ask_depth"`
	Spread    *float64 `json:"spread,omitempty"`
	SpreadPct *float64 `json:"spread_pct,omitempty"`
	Mid       *float64 `json:"mid,omitempty"`
	Supply    int      `json:"supply"`
	Demand    int      `json:"demand"`
	MMBuy     *float64 `json:"mm_buy,omitempty"`
	MMSell    *float64 `json:"mm_sell,omitempty"`
}

// Summary fetches market state for every ticker concurrently and attaches
// condition warnings. Tickers without a market land in NotFound; the call
// only fails when nothing could be fetched at all.
func (s *Service) Summary(ctx context.Context, tickers []string, exchange string) (*SummaryResult, error) {
	code, err := domeconomy.ValidateExchange(exchange)
	if err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		return nil, appeconomy.NewValidationError("at least one ticker is required")
	}

	normalized := make([]string, 0, len(tickers))
	for _, ticker := range tickers {
		if t := strings.ToUpper(strings.TrimSpace(ticker)); t != "" {
			normalized = append(normalized, t)
		}
	}

	type fetch struct {
		ticker string
		info   *market.ExchangeInfo
		err    error
	}

	fetches := make([]fetch, len(normalized))
	var wg sync.WaitGroup
	for i, ticker := range normalized {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			info, err := s.exchange.ExchangeInfo(ctx, ticker, code)
			fetches[i] = fetch{ticker: ticker, info: info, err: err}
		}(i, ticker)
	}
	wg.Wait()

	multi := len(normalized) > 1
	result := &SummaryResult{Exchange: code}
	for _, f := range fetches {
		if f.err != nil {
			return nil, fmt.Errorf("fetching %s.%s: %w", f.ticker, code, f.err)
		}
		if f.info == nil {
			result.NotFound = append(result.NotFound, f.ticker)
			continue
		}

		snapshot := MarketSnapshot{
			Ticker:   f.ticker,
			Bid:      f.info.Bid,
			BidDepth: market.DepthAt(f.info.BuyingOrders, f.info.Bid),
			Ask:      f.info.Ask,
			AskDepth: market.DepthAt(f.info.SellingOrders, f.info.Ask),
			Supply:   f.info.Supply,
			Demand:   f.info.Demand,
			MMBuy:    f.info.MMBuy,
			MMSell:   f.info.MMSell,
		}
		if f.info.Bid != nil && f.info.Ask != nil {
			spread := *f.info.Ask - *f.info.Bid
			mid := (*f.info.Ask + *f.info.Bid) / 2
			snapshot.Spread = &spread
			snapshot.Mid = &mid
			if *f.info.Bid > 0 {
				pct := spread / *f.info.Bid * 100
				snapshot.SpreadPct = &pct
			}
		}
		result.Markets = append(result.Markets, snapshot)

		prefix := ""
		if multi {
			prefix = f.ticker + ": "
		}
		result.Warnings = append(result.Warnings, market.ConditionWarnings(f.info, prefix)...)
	}

	if len(result.Markets) == 0 && len(result.NotFound) > 0 {
		return nil, appeconomy.NewValidationError("no exchange data for: %s", strings.Join(result.NotFound, ", "))
	}
	return result, nil
}

// FillCostRequest asks what filling a quantity would cost or earn.
type FillCostRequest struct {
	Ticker    string `json:"ticker"`
	Exchange  string `json:"exchange"`
	Quantity  int    `json:"quantity"`
	Direction string `json:"direction"`
}

// FillCostResult is the order book walk outcome plus limit price
// recommendations and partial fill warnings.
type FillCostResult struct {
	Ticker          string `json:"ticker"`
	Exchange        string `json:"exchange"`
	Direction       string `json:"direction"`
	Quantity        int    `json:"quantity"`
	market.FillResult
	RemainingAtWorst int      `json:"remaining_at_worst"`
	Recommendations  []string `json:"recommendations,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

// FillCost walks the relevant side of the order book: buys consume sell
// orders cheapest first, sells consume buy orders highest first.
func (s *Service) FillCost(ctx context.Context, req FillCostRequest) (*FillCostResult, error) {
	code, err := domeconomy.ValidateExchange(req.Exchange)
	if err != nil {
		return nil, err
	}
	direction := strings.ToLower(strings.TrimSpace(req.Direction))
	if direction != "buy" && direction != "sell" {
		return nil, appeconomy.NewValidationError("direction must be 'buy' or 'sell', got %q", req.Direction)
	}
	if req.Quantity <= 0 {
		return nil, appeconomy.NewValidationError("quantity must be positive, got %d", req.Quantity)
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))

	info, err := s.exchange.ExchangeInfo(ctx, ticker, code)
	if err != nil {
		return nil, fmt.Errorf("fetching %s.%s: %w", ticker, code, err)
	}
	if info == nil {
		return nil, appeconomy.NewValidationError("no exchange data for %s.%s", ticker, code)
	}

	var levels []market.PriceLevel
	if direction == "buy" {
		levels = market.AggregateOrders(info.SellingOrders, false)
	} else {
		levels = market.AggregateOrders(info.BuyingOrders, true)
	}
	if len(levels) == 0 {
		side := "buy"
		if direction == "buy" {
			side = "sell"
		}
		return nil, appeconomy.NewValidationError("no %s orders available for %s.%s", side, ticker, code)
	}

	walk := market.WalkOrderBook(levels, req.Quantity)

	remainingAtWorst := 0
	if walk.WorstPrice != nil {
		for _, level := range levels {
			if level.Price == *walk.WorstPrice {
				for _, fill := range walk.Fills {
					if fill.Price == *walk.WorstPrice {
						remainingAtWorst = level.Units - fill.Units
						break
					}
				}
				break
			}
		}
	}

	result := &FillCostResult{
		Ticker:           ticker,
		Exchange:         code,
		Direction:        direction,
		Quantity:         req.Quantity,
		FillResult:       walk,
		RemainingAtWorst: remainingAtWorst,
		Recommendations:  fillRecommendations(walk.Fills, req.Quantity),
	}

	if !walk.CanFill {
		side := "demand"
		clearSide := "buy"
		if direction == "buy" {
			side = "supply"
			clearSide = "sell"
		}
		pct := float64(walk.FillQuantity) / float64(req.Quantity) * 100
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Insufficient %s, can only fill %d of %d units (%.0f%%)",
			side, walk.FillQuantity, req.Quantity, pct))

		totalAvailable := 0
		for _, level := range levels {
			totalAvailable += level.Units
		}
		if walk.FillQuantity >= totalAvailable {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Full order would clear the entire %s side", clearSide))
		}
	}

	return result, nil
}

// fillRecommendations suggests limit prices at inflection points: the best
// level, the 50% and 80% fill tiers, and the full market order average.
func fillRecommendations(fills []market.Fill, quantity int) []string {
	if len(fills) == 0 {
		return nil
	}

	var recommendations []string
	best := fills[0]

	bestPct := 0.0
	if quantity > 0 {
		bestPct = float64(best.Cumulative) / float64(quantity) * 100
	}
	recommendations = append(recommendations, fmt.Sprintf(
		"Limit at %g would fill %d units (%.0f%%) at best available price",
		best.Price, best.Cumulative, bestPct))

	last := fills[len(fills)-1]
	finalVWAP := last.CumulativeCost / float64(last.Cumulative)

	for _, targetPct := range []float64{50, 80} {
		targetUnits := float64(quantity) * targetPct / 100
		for _, fill := range fills {
			if float64(fill.Cumulative) >= targetUnits {
				if fill.Price != best.Price {
					fillPct := float64(fill.Cumulative) / float64(quantity) * 100
					vwapHere := fill.CumulativeCost / float64(fill.Cumulative)
					improvement := finalVWAP - vwapHere
					if improvement < 0 {
						improvement = -improvement
					}
					improvementPct := 0.0
					if vwapHere > 0 {
						improvementPct = improvement / vwapHere * 100
					}
					recommendations = append(recommendations, fmt.Sprintf(
						"Limit at %g would fill %d units (%.0f%%) with %.2f%% better avg price",
						fill.Price, fill.Cumulative, fillPct, improvementPct))
				}
				break
			}
		}
	}

	if last.Cumulative >= quantity {
		slippage := finalVWAP - best.Price
		if slippage < 0 {
			slippage = -slippage
		}
		slippagePct := 0.0
		if best.Price > 0 {
			slippagePct = slippage / best.Price * 100
		}
		recommendations = append(recommendations, fmt.Sprintf(
			"Market order fills all %d at %.2f avg (%.2f%% slippage)",
			quantity, finalVWAP, slippagePct))
	}

	return recommendations
}
