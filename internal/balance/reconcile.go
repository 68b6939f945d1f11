// Package balance merges the legacy coin balance with the indexer's fungible asset
// balance for the same asset.
package balance

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultLagThreshold is the percent difference under which two non-zero readings are
// taken to be one balance seen at different times. It was tuned against observed
// indexer lag, not derived: a genuine transfer of less than 1% of the balance between
// the two stores is misread as lag.
const DefaultLagThreshold = 1.0

type Policy string

const (
	PolicyEmpty       Policy = "empty"
	PolicyLegacyOnly  Policy = "legacy-only"
	PolicyIndexerOnly Policy = "indexer-only"
	PolicyAgree       Policy = "agree"
	PolicyLag         Policy = "lag"
	PolicySum         Policy = "sum"
)

type Reconciled struct {
	Amount uint64
	Policy Policy
}

type Reconciler struct {
	// Threshold in percent; DefaultLagThreshold when zero.
	Threshold float64
}

// Reconcile applies the default threshold.
func Reconcile(legacy, indexer uint64) uint64 {
	return Reconciler{}.Reconcile(legacy, indexer).Amount
}

func (r Reconciler) Reconcile(legacy, indexer uint64) Reconciled {
	switch {
	case legacy == 0 && indexer == 0:
		return Reconciled{Amount: 0, Policy: PolicyEmpty}
	case indexer == 0:
		return Reconciled{Amount: legacy, Policy: PolicyLegacyOnly}
	case legacy == 0:
		return Reconciled{Amount: indexer, Policy: PolicyIndexerOnly}
	case legacy == indexer:
		return Reconciled{Amount: legacy, Policy: PolicyAgree}
	}

	larger, smaller := max(legacy, indexer), min(legacy, indexer)
	if PercentDiff(larger, smaller).LessThan(decimal.NewFromFloat(r.threshold())) {
		return Reconciled{Amount: larger, Policy: PolicyLag}
	}

	sum := larger + smaller
	if sum < larger {
		sum = math.MaxUint64
	}
	return Reconciled{Amount: sum, Policy: PolicySum}
}

func (r Reconciler) threshold() float64 {
	if r.Threshold <= 0 {
		return DefaultLagThreshold
	}
	return r.Threshold
}

// PercentDiff is |larger - smaller| / larger * 100, computed exactly.
func PercentDiff(larger, smaller uint64) decimal.Decimal {
	if larger < smaller {
		larger, smaller = smaller, larger
	}
	if larger == 0 {
		return decimal.Zero
	}

	return decimal.NewFromUint64(larger - smaller).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromUint64(larger), 18)
}
