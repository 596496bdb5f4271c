package roster

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/nvandessel/heatwatch/internal/models"
	"github.com/nvandessel/heatwatch/internal/vitals"
)

// Risk tiers select the baseline profile a generated worker starts from.
const (
	TierLow      = "low"
	TierModerate = "moderate"
	TierHigh     = "high"
)

// tierProfile is the center of the baseline distribution for one tier.
// Generated values jitter around these centers and are then clamped.
type tierProfile struct {
	temp, humidity, heartRate   float64
	rmssd, sdnn, meanNNI, pnn50 float64
	totalPower, lf, hf          float64
}

var tierProfiles = map[string]tierProfile{
	TierLow: {
		temp: 19.0, humidity: 40.0, heartRate: 64.0,
		rmssd: 72.0, sdnn: 85.0, meanNNI: 940, pnn50: 28.0,
		totalPower: 3400, lf: 620, hf: 760,
	},
	TierModerate: {
		temp: 23.0, humidity: 52.0, heartRate: 74.0,
		rmssd: 52.0, sdnn: 60.0, meanNNI: 820, pnn50: 16.0,
		totalPower: 2500, lf: 840, hf: 510,
	},
	TierHigh: {
		temp: 28.0, humidity: 68.0, heartRate: 88.0,
		rmssd: 30.0, sdnn: 38.0, meanNNI: 690, pnn50: 6.0,
		totalPower: 1500, lf: 1150, hf: 260,
	},
}

// Generator produces fresh baseline worker profiles per risk tier.
// Not safe for concurrent use; each caller should hold its own Generator.
type Generator struct {
	bounds vitals.Bounds
	rng    *rand.Rand
}

// NewGenerator creates a generator clamping against bounds, seeded from
// the clock.
func NewGenerator(bounds vitals.Bounds) *Generator {
	return NewGeneratorWithSeed(bounds, time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a deterministic generator for tests.
func NewGeneratorWithSeed(bounds vitals.Bounds, seed int64) *Generator {
	return &Generator{
		bounds: bounds,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Baseline generates fresh environmental and cardiac fields for the given
// risk tier. Unknown tiers fall back to moderate. The result is clamped
// and rounded, so it is a valid starting state for the simulation loop.
func (g *Generator) Baseline(riskTier string) models.Vitals {
	p, ok := tierProfiles[riskTier]
	if !ok {
		p = tierProfiles[TierModerate]
	}

	v := models.Vitals{
		Temperature: g.jitter(p.temp, 1.5),
		Humidity:    g.jitter(p.humidity, 5.0),
		HeartRate:   g.jitter(p.heartRate, 4.0),
		RMSSD:       g.jitter(p.rmssd, 6.0),
		SDNN:        g.jitter(p.sdnn, 7.0),
		MeanNNI:     g.jitter(p.meanNNI, 40.0),
		PNN50:       g.jitter(p.pnn50, 3.0),
		TotalPower:  g.jitter(p.totalPower, 250.0),
		LF:          g.jitter(p.lf, 80.0),
		HF:          g.jitter(p.hf, 60.0),
	}
	return g.bounds.Clamp(v)
}

// NewWorker generates a complete worker with a fresh UUID, demographics,
// and a tier-appropriate baseline. A blank name gets a sequential label
// derived from the ID.
func (g *Generator) NewWorker(name, riskTier string) models.Worker {
	if _, ok := tierProfiles[riskTier]; !ok {
		riskTier = TierModerate
	}

	id := uuid.New().String()
	if name == "" {
		name = fmt.Sprintf("worker-%s", id[:8])
	}

	genders := []string{"female", "male"}
	now := time.Now().UTC()
	return models.Worker{
		ID:        id,
		Name:      name,
		Age:       20 + g.rng.Intn(40),
		Gender:    genders[g.rng.Intn(len(genders))],
		WeightKG:  models.Round1(55 + g.rng.Float64()*40),
		HeightCM:  models.Round1(155 + g.rng.Float64()*35),
		RiskTier:  riskTier,
		Vitals:    g.Baseline(riskTier),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// jitter returns center ± spread, uniformly distributed.
func (g *Generator) jitter(center, spread float64) float64 {
	return center + (g.rng.Float64()*2-1)*spread
}
