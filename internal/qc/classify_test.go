package qc

import "testing"

func TestClassify(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name  string
		mbv   float64
		se    int
		fines float64
		want  Tier
	}{
		{"clean sand", 2.0, 80, 8, TierSafe},
		{"dirty sand", 5.0, 60, 20, TierUnsuitable},
		{"middling sand", 3.0, 72, 12, TierRestricted},

		// Safe gate is conjunctive: one miss drops out of Safe.
		{"safe boundary all at limits", 2.5, 75, 10, TierSafe},
		{"mbv just over safe limit", 2.6, 80, 8, TierRestricted},
		{"se just under safe limit", 2.0, 74, 8, TierRestricted},
		{"fines just over safe limit", 2.0, 80, 10.1, TierRestricted},

		// Unsuitable gate is disjunctive: one breach is enough.
		{"unsuitable boundary not breached", 4.0, 70, 15, TierRestricted},
		{"mbv breach alone", 4.1, 80, 8, TierUnsuitable},
		{"se breach alone", 2.0, 69, 8, TierUnsuitable},
		{"fines breach alone", 2.0, 80, 15.1, TierUnsuitable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.mbv, tt.se, tt.fines, th); got != tt.want {
				t.Errorf("Classify(%v, %v, %v) = %v, want %v",
					tt.mbv, tt.se, tt.fines, got, tt.want)
			}
		})
	}
}

// With crossed custom thresholds a sample can satisfy both gates; the
// fixed evaluation order must let Safe win.
func TestClassifySafeGateWinsOverlap(t *testing.T) {
	th := Thresholds{
		SafeMaxMBV:      3.0,
		SafeMinSE:       70,
		SafeMaxFinesPct: 12,

		UnsuitableMinMBV:      2.0,
		UnsuitableMaxSE:       75,
		UnsuitableMinFinesPct: 10,
	}
	// Passes the Safe conjunction and breaches the Unsuitable disjunction.
	if got := Classify(2.5, 72, 11, th); got != TierSafe {
		t.Errorf("Classify in overlap zone = %v, want TierSafe", got)
	}
}

func TestTierOrderingAndLabels(t *testing.T) {
	if !(TierUnsuitable < TierRestricted && TierRestricted < TierSafe) {
		t.Error("tiers must be ordered worst to best")
	}

	labels := map[Tier]string{
		TierSafe:       "Safe for all mortar types",
		TierRestricted: "Use only in plaster or screed",
		TierUnsuitable: "Not suitable for tile/self-leveling",
	}
	for tier, want := range labels {
		if got := tier.Label(); got != want {
			t.Errorf("%v.Label() = %q, want %q", tier, got, want)
		}
	}
	if got := Tier(99).String(); got != "unknown" {
		t.Errorf("Tier(99).String() = %q, want unknown", got)
	}
}

func TestSiloGuidance(t *testing.T) {
	tests := []struct {
		fines float64
		want  string
	}{
		{25, "High fines"},
		{20.01, "High fines"},
		{20, "Moderate fines"},
		{10, "Moderate fines"},
		{9.99, "Low fines"},
		{0, "Low fines"},
	}
	for _, tt := range tests {
		got := SiloGuidance(tt.fines)
		if len(got) < len(tt.want) || got[:len(tt.want)] != tt.want {
			t.Errorf("SiloGuidance(%v) = %q, want prefix %q", tt.fines, got, tt.want)
		}
	}
}
