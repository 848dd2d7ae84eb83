package economy

import (
	"sort"

	"github.com/hyposcaler-bot/prun-mcp/pkg/utils"
)

// MSPerDay is the number of milliseconds in one day, the base for all
// runs-per-day calculations.
const MSPerDay = 24 * 60 * 60 * 1000

// Flow is the accumulated daily input and output for one material.
type Flow struct {
	Input  float64
	Output float64
}

// Delta is the net daily flow: output minus input.
func (f Flow) Delta() float64 {
	return f.Output - f.Input
}

// MaterialFlowTracker accumulates daily material quantities from
// heterogeneous sources (production, extraction, workforce consumption)
// into one net ledger. It is scoped to a single calculation and is not
// safe for concurrent use.
type MaterialFlowTracker struct {
	flows map[string]*Flow
}

func NewMaterialFlowTracker() *MaterialFlowTracker {
	return &MaterialFlowTracker{flows: make(map[string]*Flow)}
}

func (t *MaterialFlowTracker) flow(ticker string) *Flow {
	f, ok := t.flows[ticker]
	if !ok {
		f = &Flow{}
		t.flows[ticker] = f
	}
	return f
}

// AddInput adds a daily consumed quantity to the ticker's running input total.
func (t *MaterialFlowTracker) AddInput(ticker string, amount float64) {
	t.flow(ticker).Input += amount
}

// AddOutput adds a daily produced quantity to the ticker's running output total.
func (t *MaterialFlowTracker) AddOutput(ticker string, amount float64) {
	t.flow(ticker).Output += amount
}

// AddConsumption bulk-adds inputs from a ticker->amount map. Used for
// workforce consumables.
func (t *MaterialFlowTracker) AddConsumption(consumption map[string]float64) {
	for ticker, amount := range consumption {
		t.AddInput(ticker, amount)
	}
}

// Flows returns a snapshot copy of the ledger.
func (t *MaterialFlowTracker) Flows() map[string]Flow {
	out := make(map[string]Flow, len(t.flows))
	for ticker, f := range t.flows {
		out[ticker] = *f
	}
	return out
}

// Tickers returns all tracked tickers sorted alphabetically, giving stable
// ordering for price fetching and output.
func (t *MaterialFlowTracker) Tickers() []string {
	tickers := make([]string, 0, len(t.flows))
	for ticker := range t.flows {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}

// RunsPerDay computes production cycles per day for a recipe duration,
// line count, and efficiency. Returns 0 for a non-positive duration;
// callers that must distinguish invalid input use the COGM path, which
// raises InvalidRecipeError instead.
func RunsPerDay(durationMS int64, count int, efficiency float64) float64 {
	if durationMS <= 0 {
		return 0
	}
	return float64(MSPerDay) / float64(durationMS) * float64(count) * efficiency
}

// ProcessRecipeFlow adds one recipe's daily inputs and outputs to the
// tracker. Returns false when the recipe duration is invalid, in which case
// nothing is added.
func ProcessRecipeFlow(recipe *Recipe, count int, efficiency float64, tracker *MaterialFlowTracker) bool {
	if recipe.DurationMS <= 0 {
		return false
	}

	runsPerDay := RunsPerDay(recipe.DurationMS, count, efficiency)

	for _, in := range recipe.Inputs {
		if in.Ticker != "" && in.Amount > 0 {
			tracker.AddInput(in.Ticker, runsPerDay*in.Amount)
		}
	}
	for _, out := range recipe.Outputs {
		if out.Ticker != "" && out.Amount > 0 {
			tracker.AddOutput(out.Ticker, runsPerDay*out.Amount)
		}
	}
	return true
}

// MaterialValue is the priced daily flow for one material. CISPerDay is nil
// when the price needed for the flow direction is missing.
type MaterialValue struct {
	Ticker    string   `json:"ticker"`
	In        float64  `json:"in"`
	Out       float64  `json:"out"`
	Delta     float64  `json:"delta"`
	CISPerDay *float64 `json:"cis_per_day"`
}

// MaterialValues prices a flow ledger: net producers (delta > 0) value at
// bid (selling), net consumers (delta < 0) at ask (a negative value, a
// cost), and balanced tickers at exactly 0. Tickers whose relevant price is
// missing go into the returned missing list with a nil value. The returned
// total sums only priced entries and is not rounded; callers round once at
// the end.
func MaterialValues(flows map[string]Flow, prices map[string]PriceQuote) ([]MaterialValue, float64, []string) {
	tickers := make([]string, 0, len(flows))
	for ticker := range flows {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	materials := make([]MaterialValue, 0, len(tickers))
	totalCIS := 0.0
	var missing []string

	for _, ticker := range tickers {
		flow := flows[ticker]
		delta := flow.Delta()
		quote := prices[ticker]

		var cisPerDay *float64
		switch {
		case delta > 0 && quote.Bid != nil:
			v := delta * *quote.Bid
			totalCIS += v
			cisPerDay = &v
		case delta < 0 && quote.Ask != nil:
			v := delta * *quote.Ask
			totalCIS += v
			cisPerDay = &v
		case delta == 0:
			zero := 0.0
			cisPerDay = &zero
		default:
			missing = append(missing, ticker)
		}

		mv := MaterialValue{
			Ticker: ticker,
			In:     utils.Round2(flow.Input),
			Out:    utils.Round2(flow.Output),
			Delta:  utils.Round2(delta),
		}
		if cisPerDay != nil {
			rounded := utils.Round2(*cisPerDay)
			mv.CISPerDay = &rounded
		}
		materials = append(materials, mv)
	}

	return materials, totalCIS, missing
}
