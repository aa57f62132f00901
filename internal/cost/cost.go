// Package cost turns token counts and per-million prices into a cost
// breakdown.
package cost

import (
	"errors"
	"fmt"
	"math"

	"github.com/everstacklabs/tokencalc/internal/catalog"
)

// ErrInvalidArgument is returned for negative token counts and negative or
// non-finite prices.
var ErrInvalidArgument = errors.New("invalid argument")

// tokensPerUnit is the pricing unit: prices are quoted per one million tokens.
const tokensPerUnit = 1_000_000

// Breakdown is the result of a cost computation. Values are exact; rounding
// for display is left to the caller.
type Breakdown struct {
	Tokens              int     `json:"tokens"`
	EstimatedInputCost  float64 `json:"estimated_input_cost"`
	EstimatedOutputCost float64 `json:"estimated_output_cost"`
	TotalEstimatedCost  float64 `json:"total_estimated_cost"`
}

// Compute prices inputTokens and outputTokens at inputPrice and outputPrice
// per million tokens.
func Compute(inputTokens, outputTokens int, inputPrice, outputPrice float64) (Breakdown, error) {
	if inputTokens < 0 {
		return Breakdown{}, fmt.Errorf("input tokens %d is negative: %w", inputTokens, ErrInvalidArgument)
	}
	if outputTokens < 0 {
		return Breakdown{}, fmt.Errorf("output tokens %d is negative: %w", outputTokens, ErrInvalidArgument)
	}
	if err := checkPrice("input", inputPrice); err != nil {
		return Breakdown{}, err
	}
	if err := checkPrice("output", outputPrice); err != nil {
		return Breakdown{}, err
	}

	in := float64(inputTokens) / tokensPerUnit * inputPrice
	out := float64(outputTokens) / tokensPerUnit * outputPrice
	return Breakdown{
		Tokens:              inputTokens + outputTokens,
		EstimatedInputCost:  in,
		EstimatedOutputCost: out,
		TotalEstimatedCost:  in + out,
	}, nil
}

// ForModel prices token counts at a catalog model's rates.
func ForModel(m catalog.Model, inputTokens, outputTokens int) (Breakdown, error) {
	b, err := Compute(inputTokens, outputTokens, m.InputPrice, m.OutputPrice)
	if err != nil {
		return Breakdown{}, fmt.Errorf("pricing %s/%s: %w", m.Provider, m.ID, err)
	}
	return b, nil
}

func checkPrice(which string, price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%s price %v is not finite: %w", which, price, ErrInvalidArgument)
	}
	if price < 0 {
		return fmt.Errorf("%s price %v is negative: %w", which, price, ErrInvalidArgument)
	}
	return nil
}
