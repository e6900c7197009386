// Package qc implements the sand quality-control engine: the three-tier
// mortar compatibility classifier and the single-pass classifier
// mass-balance projection.
package qc

// Tier is the mortar compatibility classification, ordered worst to best.
type Tier int

const (
	TierUnsuitable Tier = iota
	TierRestricted
	TierSafe
)

// String returns the short machine-facing name of the tier.
func (t Tier) String() string {
	switch t {
	case TierSafe:
		return "safe"
	case TierRestricted:
		return "restricted"
	case TierUnsuitable:
		return "unsuitable"
	default:
		return "unknown"
	}
}

// Label returns the operator-facing description shown on the dashboard
// and in exported reports.
func (t Tier) Label() string {
	switch t {
	case TierSafe:
		return "Safe for all mortar types"
	case TierRestricted:
		return "Use only in plaster or screed"
	case TierUnsuitable:
		return "Not suitable for tile/self-leveling"
	default:
		return "Unknown"
	}
}

// Thresholds holds the two classification gates. SafeMax*/SafeMin* form
// the conjunctive premium gate; UnsuitableMin*/UnsuitableMax* form the
// disjunctive hard-fail gate.
type Thresholds struct {
	SafeMaxMBV      float64
	SafeMinSE       int
	SafeMaxFinesPct float64

	UnsuitableMinMBV      float64
	UnsuitableMaxSE       int
	UnsuitableMinFinesPct float64
}

// DefaultThresholds returns the NF EN 933-8 derived production limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SafeMaxMBV:      2.5,
		SafeMinSE:       75,
		SafeMaxFinesPct: 10,

		UnsuitableMinMBV:      4.0,
		UnsuitableMaxSE:       70,
		UnsuitableMinFinesPct: 15,
	}
}

// Classify maps methylene-blue value, sand equivalent, and fines percent
// to a compatibility tier.
//
// The decision sequence is fixed and order-dependent: the Safe gate is
// tested first (all three limits must hold), then the Unsuitable gate
// (any one breach fails the sample), and everything else is Restricted.
// Testing Safe first resolves the overlap zone where custom thresholds
// could satisfy both gates at once.
func Classify(mbv float64, se int, finesPct float64, th Thresholds) Tier {
	if mbv <= th.SafeMaxMBV && se >= th.SafeMinSE && finesPct <= th.SafeMaxFinesPct {
		return TierSafe
	}
	if mbv > th.UnsuitableMinMBV || se < th.UnsuitableMaxSE || finesPct > th.UnsuitableMinFinesPct {
		return TierUnsuitable
	}
	return TierRestricted
}

// SiloGuidance returns the dosing recommendation for the measured fines
// level: above 20% fines the filler should be siloed separately, between
// 10% and 20% dosing needs monitoring, and below 10% direct feed is
// normally fine.
func SiloGuidance(finesPct float64) string {
	switch {
	case finesPct > 20:
		return "High fines: use separate filler silo and dose by QC rules."
	case finesPct >= 10:
		return "Moderate fines: monitor MBV & SE; controlled dosing recommended."
	default:
		return "Low fines: likely safe for direct feed; validate for sensitive mortars."
	}
}
