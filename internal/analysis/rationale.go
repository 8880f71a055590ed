package analysis

import (
	"fmt"
	"strings"
)

// Rationale writes the advisor-style summary paragraph.
func Rationale(ticker string, tech TechnicalSnapshot, fund FundamentalSnapshot, scores Scores) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on our analysis, %s currently shows a %s technical trend with an RSI of %s. ",
		strings.ToUpper(ticker), scores.Trend, fmtOptional(tech.RSI))

	fmt.Fprintf(&sb, "Fundamentally, the company carries a Debt-to-Equity ratio of %s, ", fmtOptional(fund.DebtToEquity))
	if fund.DebtToEquity != nil && *fund.DebtToEquity < 1 {
		sb.WriteString("indicating a healthy balance sheet. ")
	} else {
		sb.WriteString("which warrants caution regarding leverage. ")
	}

	if fund.PE != nil && *fund.PE != 0 {
		fmt.Fprintf(&sb, "The P/E ratio stands at %.2f, reflecting current market valuation. ", *fund.PE)
	}

	fmt.Fprintf(&sb, "Combining these factors with a sentiment score of %d, our professional verdict is that this stock is a %s.",
		scores.Sentiment, scores.Verdict)
	return sb.String()
}

func fmtOptional(v *float64) string {
	if v == nil || *v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
