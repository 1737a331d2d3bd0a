package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/ecosort/internal/catalog"
	"github.com/rshade/ecosort/internal/engine"
)

func TestClassify(t *testing.T) {
	avg := engine.AverageResult{MeanKg: 1.0, Count: 4}

	tests := []struct {
		name  string
		total float64
		avg   engine.AverageResult
		want  Band
	}{
		{"well below", 0.5, avg, BandBelow},
		{"just inside lower margin", 0.95, avg, BandNear},
		{"equal", 1.0, avg, BandNear},
		{"just inside upper margin", 1.05, avg, BandNear},
		{"well above", 1.5, avg, BandAbove},
		{"empty average", 3.0, engine.AverageResult{IsEmpty: true}, BandNear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.total, tt.avg))
		})
	}
}

func TestBand_ColorAndString(t *testing.T) {
	assert.Equal(t, ColorOK, BandBelow.Color())
	assert.Equal(t, ColorWarning, BandNear.Color())
	assert.Equal(t, ColorCritical, BandAbove.Color())
	assert.Equal(t, "below average", BandBelow.String())
	assert.Equal(t, "Band(7)", Band(7).String())
}

func sampleResult() engine.Result {
	return engine.Result{
		Top: []engine.ScoredProduct{
			{
				Product: catalog.Product{
					Industry: "Automotive", MaterialType: "Plastic", WeightKg: 1.4,
					EmissionFactorPerKg: 0.05, TransportMode: "land",
				},
				Mode:                catalog.ModeLand,
				DistanceKm:          100,
				ProductionEmissions: 0.07,
				LogisticsEmissions:  0.021,
				TotalEmissions:      0.091,
			},
		},
		Average: engine.AverageResult{MeanKg: 0.1547, Count: 3},
		TopN:    engine.DefaultTopN,
	}
}

func TestRenderCard(t *testing.T) {
	res := sampleResult()
	out := RenderCard(1, res.Top[0], res.Average, "kg")

	assert.Contains(t, out, "#1 Automotive - Plastic")
	assert.Contains(t, out, "1.4 kg by land, 100 km")
	assert.Contains(t, out, "0.07 kg CO2e")
	assert.Contains(t, out, "0.02 kg CO2e")
	assert.Contains(t, out, "0.09 kg CO2e (below average)")
}

func TestRenderCards(t *testing.T) {
	out := RenderCards(sampleResult(), "g")
	assert.Contains(t, out, "91.00 g CO2e")
	assert.Contains(t, out, "Average total emissions over 3 products")
	assert.Contains(t, out, "smartphones")
}

func TestRenderCards_Empty(t *testing.T) {
	out := RenderCards(engine.Result{Average: engine.AverageResult{IsEmpty: true}}, "kg")
	assert.Contains(t, out, engine.NoResultsMessage)
}

func TestRenderAverage_Empty(t *testing.T) {
	assert.Contains(t, RenderAverage(engine.AverageResult{IsEmpty: true}, "kg"), "n/a")
}
