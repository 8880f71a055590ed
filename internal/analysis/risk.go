package analysis

const (
	highDebtPct = 200.0
	// some listings report a plain ratio instead of a percentage
	highDebtRatioMin = 2.0
	highDebtRatioMax = 10.0
)

type RiskSnapshot struct {
	Beta                   *float64
	DistanceFrom52WHighPct *float64
	DistanceFrom52WLowPct  *float64
	HighDebtFlag           bool
	DebtToEquityRaw        *float64
}

func Risk(fund FundamentalSnapshot, currentPrice *float64) RiskSnapshot {
	snap := RiskSnapshot{Beta: fund.Beta, DebtToEquityRaw: fund.DebtToEquity}

	if currentPrice != nil && *currentPrice != 0 {
		price := *currentPrice
		if h := fund.FiftyTwoWeekHigh; h != nil && *h != 0 {
			snap.DistanceFrom52WHighPct = ptr(round2((*h - price) / *h * 100))
		}
		if l := fund.FiftyTwoWeekLow; l != nil && *l != 0 {
			snap.DistanceFrom52WLowPct = ptr(round2((price - *l) / *l * 100))
		}
	}
	if de := fund.DebtToEquity; de != nil {
		snap.HighDebtFlag = *de > highDebtPct || (*de > highDebtRatioMin && *de < highDebtRatioMax)
	}
	return snap
}
