// Package market contains order book analysis: price level aggregation,
// fill simulation against book depth, and market condition warnings.
package market

import (
	"sort"

	"github.com/hyposcaler-bot/prun-mcp/pkg/utils"
)

// Order is one raw exchange order: a unit count at a price.
type Order struct {
	Count int
	Cost  float64
}

// ExchangeInfo is the full market state for one ticker on one exchange.
// Nil prices mean that side of the book is empty; MMBuy/MMSell are the
// market maker floor and ceiling when present.
type ExchangeInfo struct {
	Ticker        string
	Exchange      string
	Ask           *float64
	Bid           *float64
	Supply        int
	Demand        int
	MMBuy         *float64
	MMSell        *float64
	BuyingOrders  []Order
	SellingOrders []Order
}

// PriceLevel is the aggregated unit count at one price.
type PriceLevel struct {
	Price float64 `json:"price"`
	Units int     `json:"units"`
}

// AggregateOrders merges orders at the same price into levels, dropping
// empty or unpriced orders. Sells sort ascending (cheapest first); bids
// pass descending=true for best-bid-first.
func AggregateOrders(orders []Order, descending bool) []PriceLevel {
	byPrice := make(map[float64]int)
	for _, order := range orders {
		if order.Cost > 0 && order.Count > 0 {
			byPrice[order.Cost] += order.Count
		}
	}

	levels := make([]PriceLevel, 0, len(byPrice))
	for price, units := range byPrice {
		levels = append(levels, PriceLevel{Price: price, Units: units})
	}
	sort.Slice(levels, func(i, j int) bool {
		if descending {
			return levels[i].Price > levels[j].Price
		}
		return levels[i].Price < levels[j].Price
	})
	return levels
}

// Fill is one price level consumed while filling an order.
type Fill struct {
	Price          float64 `json:"price"`
	Units          int     `json:"units"`
	Cumulative     int     `json:"cumulative"`
	CumulativeCost float64 `json:"cumulative_cost"`
}

// FillResult describes filling a quantity against aggregated book levels.
type FillResult struct {
	CanFill          bool     `json:"can_fill"`
	FillQuantity     int      `json:"fill_quantity"`
	Unfilled         int      `json:"unfilled"`
	BestPrice        *float64 `json:"best_price"`
	WorstPrice       *float64 `json:"worst_price"`
	VWAP             float64  `json:"vwap"`
	TotalCost        float64  `json:"total_cost"`
	SlippageFromBest float64  `json:"slippage_from_best"`
	SlippagePct      float64  `json:"slippage_pct"`
	DepthConsumed    int      `json:"depth_consumed"`
	Fills            []Fill   `json:"fills"`
}

// WalkOrderBook fills quantity against price levels in order, tracking the
// volume-weighted average price and slippage from the best level.
func WalkOrderBook(levels []PriceLevel, quantity int) FillResult {
	var fills []Fill
	cumulativeUnits := 0
	cumulativeCost := 0.0
	var bestPrice, worstPrice *float64

	if len(levels) > 0 {
		best := levels[0].Price
		bestPrice = &best
	}

	for _, level := range levels {
		if cumulativeUnits >= quantity {
			break
		}

		take := quantity - cumulativeUnits
		if level.Units < take {
			take = level.Units
		}

		cumulativeUnits += take
		cumulativeCost += float64(take) * level.Price
		price := level.Price
		worstPrice = &price

		fills = append(fills, Fill{
			Price:          level.Price,
			Units:          take,
			Cumulative:     cumulativeUnits,
			CumulativeCost: utils.Round2(cumulativeCost),
		})
	}

	unfilled := quantity - cumulativeUnits
	if unfilled < 0 {
		unfilled = 0
	}
	vwap := 0.0
	if cumulativeUnits > 0 {
		vwap = cumulativeCost / float64(cumulativeUnits)
	}
	slippage := 0.0
	slippagePct := 0.0
	if bestPrice != nil {
		slippage = vwap - *bestPrice
		if slippage < 0 {
			slippage = -slippage
		}
		if *bestPrice > 0 {
			slippagePct = slippage / *bestPrice * 100
		}
	}

	return FillResult{
		CanFill:          cumulativeUnits >= quantity,
		FillQuantity:     cumulativeUnits,
		Unfilled:         unfilled,
		BestPrice:        bestPrice,
		WorstPrice:       worstPrice,
		VWAP:             utils.Round2(vwap),
		TotalCost:        utils.Round2(cumulativeCost),
		SlippageFromBest: utils.Round2(slippage),
		SlippagePct:      utils.Round2(slippagePct),
		DepthConsumed:    len(fills),
		Fills:            fills,
	}
}

// DepthAt sums the units on offer at exactly one price.
func DepthAt(orders []Order, price *float64) int {
	if price == nil {
		return 0
	}
	depth := 0
	for _, order := range orders {
		if order.Cost == *price {
			depth += order.Count
		}
	}
	return depth
}
