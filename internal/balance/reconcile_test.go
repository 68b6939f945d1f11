package balance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		legacy     uint64
		indexer    uint64
		want       uint64
		wantPolicy Policy
	}{
		{name: "both zero", legacy: 0, indexer: 0, want: 0, wantPolicy: PolicyEmpty},
		{name: "equal", legacy: 100, indexer: 100, want: 100, wantPolicy: PolicyAgree},
		{name: "legacy zero", legacy: 0, indexer: 250, want: 250, wantPolicy: PolicyIndexerOnly},
		{name: "indexer zero", legacy: 250, indexer: 0, want: 250, wantPolicy: PolicyLegacyOnly},
		{name: "half a percent is lag", legacy: 1000, indexer: 1005, want: 1005, wantPolicy: PolicyLag},
		{name: "lag the other way round", legacy: 1005, indexer: 1000, want: 1005, wantPolicy: PolicyLag},
		{name: "1000 vs 1200 is two pools", legacy: 1000, indexer: 1200, want: 2200, wantPolicy: PolicySum},
		{name: "exactly one percent is two pools", legacy: 99, indexer: 100, want: 199, wantPolicy: PolicySum},
		{name: "sum saturates", legacy: math.MaxUint64, indexer: math.MaxUint64 / 2, want: math.MaxUint64, wantPolicy: PolicySum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconciler{}.Reconcile(tt.legacy, tt.indexer)
			assert.Equal(t, tt.want, got.Amount)
			assert.Equal(t, tt.wantPolicy, got.Policy)
			assert.Equal(t, tt.want, Reconcile(tt.legacy, tt.indexer))
		})
	}
}

func TestReconcileThresholdIsOverridable(t *testing.T) {
	// 1000 vs 1200 differ by 16.7%: summed by default, lag under a 25% threshold
	assert.Equal(t, uint64(2200), Reconciler{}.Reconcile(1000, 1200).Amount)
	assert.Equal(t, uint64(1200), Reconciler{Threshold: 25}.Reconcile(1000, 1200).Amount)

	// 0.5% apart: lag by default, summed with a 0.1% threshold
	assert.Equal(t, uint64(2005), Reconciler{Threshold: 0.1}.Reconcile(1000, 1005).Amount)
}

func TestPercentDiff(t *testing.T) {
	assert.Equal(t, "16.67", PercentDiff(1200, 1000).StringFixed(2))
	assert.True(t, PercentDiff(1000, 1200).Equal(PercentDiff(1200, 1000)))
	assert.Equal(t, "0.4975", PercentDiff(1005, 1000).StringFixed(4))
	assert.True(t, PercentDiff(0, 0).IsZero())
	assert.Equal(t, "1", PercentDiff(100, 99).String())
}
