package economy

import (
	"encoding/json"
	"strings"

	"github.com/hyposcaler-bot/prun-mcp/pkg/utils"
)

// COGMInputLine is the daily cost of one recipe input. Price and DailyCost
// are nil when the input has no ask price on the exchange.
type COGMInputLine struct {
	Ticker      string   `json:"ticker"`
	DailyAmount float64  `json:"daily_amount"`
	Price       *float64 `json:"price"`
	DailyCost   *float64 `json:"daily_cost"`
}

// COGMConsumableLine is the daily cost of one workforce consumable for one
// tier. A self-consumed line carries no market price; it serializes with
// the "self" price sentinel and a zero cost.
type COGMConsumableLine struct {
	Ticker        string
	WorkforceType string
	DailyAmount   float64
	Price         *float64
	DailyCost     *float64
	SelfConsumed  bool
}

func (l COGMConsumableLine) MarshalJSON() ([]byte, error) {
	type line struct {
		Ticker        string   `json:"ticker"`
		WorkforceType string   `json:"workforce_type"`
		DailyAmount   float64  `json:"daily_amount"`
		Price         any      `json:"price"`
		DailyCost     *float64 `json:"daily_cost"`
		SelfConsumed  bool     `json:"self_consumed,omitempty"`
	}
	out := line{
		Ticker:        l.Ticker,
		WorkforceType: l.WorkforceType,
		DailyAmount:   l.DailyAmount,
		DailyCost:     l.DailyCost,
		SelfConsumed:  l.SelfConsumed,
	}
	if l.SelfConsumed {
		out.Price = "self"
	} else if l.Price != nil {
		out.Price = *l.Price
	}
	return json.Marshal(out)
}

// COGMOutput identifies the primary output and its gross daily quantity.
type COGMOutput struct {
	Ticker      string  `json:"ticker"`
	DailyOutput float64 `json:"daily_output"`
}

// COGMBreakdown holds the per-line cost detail.
type COGMBreakdown struct {
	Inputs      []COGMInputLine      `json:"inputs"`
	Consumables []COGMConsumableLine `json:"consumables"`
}

// COGMTotals are the daily cost aggregates, rounded for display. The
// unrounded values drive the per-unit figure.
type COGMTotals struct {
	DailyInputCost      float64 `json:"daily_input_cost"`
	DailyConsumableCost float64 `json:"daily_consumable_cost"`
	DailyTotalCost      float64 `json:"daily_total_cost"`
}

// COGMSelfConsumption reports what production was diverted to the
// workforce, present only when self-consumption is enabled and something
// was actually consumed.
type COGMSelfConsumption struct {
	Consumed  map[string]float64 `json:"consumed"`
	NetOutput float64            `json:"net_output"`
}

// COGMResult is the full cost-of-goods-manufactured breakdown for one
// recipe running in its building.
type COGMResult struct {
	Recipe          string               `json:"recipe"`
	Building        string               `json:"building"`
	Efficiency      float64              `json:"efficiency"`
	Exchange        string               `json:"exchange"`
	SelfConsume     bool                 `json:"self_consume"`
	Output          COGMOutput           `json:"output"`
	COGMPerUnit     float64              `json:"cogm_per_unit"`
	Breakdown       COGMBreakdown        `json:"breakdown"`
	Totals          COGMTotals           `json:"totals"`
	SelfConsumption *COGMSelfConsumption `json:"self_consumption,omitempty"`
	MissingPrices   []string             `json:"missing_prices,omitempty"`
}

// cogmRunsPerDay is the single-line rate used by COGM. Unlike RunsPerDay it
// treats a non-positive duration as invalid input, not a zero rate.
func cogmRunsPerDay(durationMS int64, efficiency float64) (float64, error) {
	if durationMS <= 0 {
		return 0, NewInvalidRecipeError("invalid recipe duration: %d", durationMS)
	}
	return float64(MSPerDay) / float64(durationMS) * efficiency, nil
}

func calculateInputCosts(inputs []RecipeItem, runsPerDay float64, prices map[string]PriceQuote) ([]COGMInputLine, float64, []string) {
	lines := make([]COGMInputLine, 0, len(inputs))
	dailyCost := 0.0
	var missing []string

	for _, in := range inputs {
		dailyAmount := runsPerDay * in.Amount
		line := COGMInputLine{Ticker: in.Ticker, DailyAmount: utils.Round2(dailyAmount)}

		quote := prices[in.Ticker]
		if quote.Ask == nil {
			missing = append(missing, in.Ticker)
		} else {
			itemCost := dailyAmount * *quote.Ask
			dailyCost += itemCost
			price := utils.Round2(*quote.Ask)
			cost := utils.Round2(itemCost)
			line.Price = &price
			line.DailyCost = &cost
		}
		lines = append(lines, line)
	}

	return lines, dailyCost, missing
}

func calculateConsumableCosts(
	building *Building,
	needs WorkforceNeedsLookup,
	prices map[string]PriceQuote,
	outputTickers map[string]bool,
	selfConsume bool,
) ([]COGMConsumableLine, float64, map[string]float64, []string) {
	var lines []COGMConsumableLine
	dailyCost := 0.0
	selfConsumed := make(map[string]float64)
	var missing []string

	workforce := WorkforceFromBuilding(building, 1)

	for _, tier := range WorkforceTypes {
		workers := workforce[tier]
		if workers <= 0 {
			continue
		}

		for _, need := range needs.Needs(NormalizeWorkforceType(tier)) {
			dailyAmount := float64(workers) / 100 * need.AmountPer100

			if selfConsume && outputTickers[strings.ToUpper(need.Ticker)] {
				// Diverted from production; accumulates across tiers.
				selfConsumed[need.Ticker] += dailyAmount
				zero := 0.0
				lines = append(lines, COGMConsumableLine{
					Ticker:        need.Ticker,
					WorkforceType: tier,
					DailyAmount:   utils.Round4(dailyAmount),
					DailyCost:     &zero,
					SelfConsumed:  true,
				})
				continue
			}

			quote := prices[need.Ticker]
			if quote.Ask == nil {
				if !contains(missing, need.Ticker) {
					missing = append(missing, need.Ticker)
				}
				lines = append(lines, COGMConsumableLine{
					Ticker:        need.Ticker,
					WorkforceType: tier,
					DailyAmount:   utils.Round4(dailyAmount),
				})
				continue
			}

			itemCost := dailyAmount * *quote.Ask
			dailyCost += itemCost
			price := utils.Round2(*quote.Ask)
			cost := utils.Round2(itemCost)
			lines = append(lines, COGMConsumableLine{
				Ticker:        need.Ticker,
				WorkforceType: tier,
				DailyAmount:   utils.Round4(dailyAmount),
				Price:         &price,
				DailyCost:     &cost,
			})
		}
	}

	return lines, dailyCost, selfConsumed, missing
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// CalculateCOGM computes the fully loaded daily cost and per-unit cost of
// running one recipe in its building, given market prices and workforce
// consumable needs.
//
// With self-consumption enabled, consumables matching the recipe's own
// outputs are diverted from production instead of priced: they reduce net
// output and carry zero cost. The per-unit divisor is then net output;
// otherwise it is gross output. A non-positive effective output yields a
// per-unit cost of 0, a degenerate but valid result.
func CalculateCOGM(
	recipeName string,
	recipe *Recipe,
	building *Building,
	needs WorkforceNeedsLookup,
	prices map[string]PriceQuote,
	exchange string,
	efficiency float64,
	selfConsume bool,
) (*COGMResult, error) {
	runsPerDay, err := cogmRunsPerDay(recipe.DurationMS, efficiency)
	if err != nil {
		return nil, err
	}

	if len(recipe.Outputs) == 0 {
		return nil, NewInvalidRecipeError("recipe has no outputs")
	}

	primary := recipe.Outputs[0]
	dailyOutput := runsPerDay * primary.Amount

	outputTickers := make(map[string]bool, len(recipe.Outputs))
	for _, out := range recipe.Outputs {
		outputTickers[strings.ToUpper(out.Ticker)] = true
	}

	inputLines, dailyInputCost, inputMissing := calculateInputCosts(recipe.Inputs, runsPerDay, prices)

	consumableLines, dailyConsumableCost, selfConsumed, consMissing := calculateConsumableCosts(
		building, needs, prices, outputTickers, selfConsume)

	missingPrices := inputMissing
	for _, ticker := range consMissing {
		if !contains(missingPrices, ticker) {
			missingPrices = append(missingPrices, ticker)
		}
	}

	totalSelfConsumed := 0.0
	for _, amount := range selfConsumed {
		totalSelfConsumed += amount
	}
	netOutput := dailyOutput - totalSelfConsumed

	dailyTotalCost := dailyInputCost + dailyConsumableCost
	effectiveOutput := dailyOutput
	if selfConsume {
		effectiveOutput = netOutput
	}
	cogmPerUnit := 0.0
	if effectiveOutput > 0 {
		cogmPerUnit = dailyTotalCost / effectiveOutput
	}

	result := &COGMResult{
		Recipe:      recipeName,
		Building:    building.Ticker,
		Efficiency:  efficiency,
		Exchange:    exchange,
		SelfConsume: selfConsume,
		Output: COGMOutput{
			Ticker:      primary.Ticker,
			DailyOutput: utils.Round2(dailyOutput),
		},
		COGMPerUnit: utils.Round2(cogmPerUnit),
		Breakdown: COGMBreakdown{
			Inputs:      inputLines,
			Consumables: consumableLines,
		},
		Totals: COGMTotals{
			DailyInputCost:      utils.Round2(dailyInputCost),
			DailyConsumableCost: utils.Round2(dailyConsumableCost),
			DailyTotalCost:      utils.Round2(dailyTotalCost),
		},
		MissingPrices: missingPrices,
	}

	if selfConsume && len(selfConsumed) > 0 {
		consumed := make(map[string]float64, len(selfConsumed))
		for ticker, amount := range selfConsumed {
			consumed[ticker] = utils.Round4(amount)
		}
		result.SelfConsumption = &COGMSelfConsumption{
			Consumed:  consumed,
			NetOutput: utils.Round2(netOutput),
		}
	}

	return result, nil
}
