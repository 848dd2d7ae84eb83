package market

import "fmt"

// Warning thresholds for market condition checks.
const (
	SpreadWarningThreshold = 5.0  // percent
	ThinDepthThreshold     = 50   // units
	SupplyDemandImbalance  = 3.0  // ratio
	MMProximityThreshold   = 0.05 // within 5% of a market maker price
)

// ConditionWarnings inspects a market snapshot and returns trading
// warnings: empty book sides, wide spreads, thin depth at the touch,
// supply/demand imbalance, and proximity to market maker bounds. The
// prefix (usually "TICKER: ") namespaces warnings in multi-ticker output.
func ConditionWarnings(info *ExchangeInfo, prefix string) []string {
	var warnings []string

	if info.Bid == nil {
		warnings = append(warnings, prefix+"No buy orders, cannot sell at market")
	}
	if info.Ask == nil {
		warnings = append(warnings, prefix+"No sell orders, cannot buy at market")
	}

	if info.Bid != nil && info.Ask != nil && *info.Bid > 0 {
		spreadPct := (*info.Ask - *info.Bid) / *info.Bid * 100
		if spreadPct > SpreadWarningThreshold {
			warnings = append(warnings, fmt.Sprintf(
				"%sWide spread (%.1f%% > %.0f%%), consider limit orders over market orders",
				prefix, spreadPct, SpreadWarningThreshold))
		}
	}

	if bidDepth := DepthAt(info.BuyingOrders, info.Bid); bidDepth > 0 && bidDepth < ThinDepthThreshold {
		warnings = append(warnings, fmt.Sprintf(
			"%sThin bid depth (%d units), selling more will experience significant slippage",
			prefix, bidDepth))
	}
	if askDepth := DepthAt(info.SellingOrders, info.Ask); askDepth > 0 && askDepth < ThinDepthThreshold {
		warnings = append(warnings, fmt.Sprintf(
			"%sThin ask depth (%d units), buying more will experience significant slippage",
			prefix, askDepth))
	}

	if info.Demand > 0 {
		ratio := float64(info.Supply) / float64(info.Demand)
		if ratio > SupplyDemandImbalance {
			warnings = append(warnings, fmt.Sprintf(
				"%sHeavy supply pressure (%.1fx), expect downward price pressure", prefix, ratio))
		} else if ratio < 1/SupplyDemandImbalance {
			warnings = append(warnings, fmt.Sprintf(
				"%sHeavy demand pressure (%.2fx), expect upward price pressure", prefix, ratio))
		}
	}

	if info.MMSell != nil && info.Ask != nil && *info.Ask >= *info.MMSell*(1-MMProximityThreshold) {
		warnings = append(warnings, fmt.Sprintf(
			"%sPrice near MM ceiling (%.2f vs %.2f), limited upside", prefix, *info.Ask, *info.MMSell))
	}
	if info.MMBuy != nil && info.Bid != nil && *info.Bid <= *info.MMBuy*(1+MMProximityThreshold) {
		warnings = append(warnings, fmt.Sprintf(
			"%sPrice near MM floor (%.2f vs %.2f), limited downside", prefix, *info.Bid, *info.MMBuy))
	}

	return warnings
}
