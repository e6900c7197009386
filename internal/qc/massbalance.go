package qc

// MassBalanceInput describes one reject split on a screening or air
// classifier: the fines content of the feed, the mass fraction diverted
// to reject, and the fines grade of that reject stream. All three are
// percentages and each is clamped independently before use.
type MassBalanceInput struct {
	FeedFinesPct        float64 `json:"feed_fines_pct"`
	RejectRatePct       float64 `json:"reject_rate_pct"`
	RejectFinesGradePct float64 `json:"reject_fines_grade_pct"`
}

// productMassEps keeps the division finite as the reject rate approaches
// 100%: the projection degrades to a large-but-finite figure instead of
// faulting.
const productMassEps = 1e-9

// ProjectMassBalance computes the fines percent of the product stream
// after a single reject split, treating total feed mass as one unit.
// Pure function; out-of-range rates are clamped, never rejected.
func ProjectMassBalance(in MassBalanceInput) float64 {
	feedFines := in.FeedFinesPct / 100
	rejectMass := clamp01(in.RejectRatePct / 100)
	rejectFinesMass := rejectMass * clamp01(in.RejectFinesGradePct/100)

	productMass := 1 - rejectMass
	productFinesMass := feedFines - rejectFinesMass
	if productFinesMass < 0 {
		productFinesMass = 0
	}

	return 100 * productFinesMass / max(productMass, productMassEps)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
