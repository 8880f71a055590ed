package tui

import (
	"errors"
	"fmt"
	"strings"

	"stock-alpha-engine/internal/analysis"
	"stock-alpha-engine/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(14)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 2)

	buyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	holdStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	sellStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Stock Alpha Analyst"))
	if m.username != "" {
		b.WriteString(helpStyle.Render("  signed in as " + m.username))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateInput:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter: analyse • esc: quit"))
	case stateLoading:
		fmt.Fprintf(&b, "%s Analysing %s...", m.spinner.View(), m.ticker)
	case stateResult:
		b.WriteString(m.renderCard(m.result))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: new ticker • q: quit"))
	case stateError:
		b.WriteString(errorStyle.Render(errorText(m.ticker, m.err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter: try again • q: quit"))
	}
	return b.String() + "\n"
}

func errorText(ticker string, err error) string {
	switch {
	case errors.Is(err, analysis.ErrTickerNotFound):
		return analysis.NotFoundMessage(ticker)
	case errors.Is(err, analysis.ErrInvalidTicker):
		return "Invalid ticker: " + ticker
	default:
		return fmt.Sprintf("Analysis failed: %v", err)
	}
}

func (m *Model) renderCard(r *domain.AnalysisResponse) string {
	if r == nil {
		return ""
	}
	header := fmt.Sprintf("%s  %s  %s", accentStyle.Render(r.Ticker), signalStyle(r.Signal).Render(string(r.Signal)), r.Verdict)
	if m.cached {
		header += helpStyle.Render("  (cached)")
	}

	rows := []string{
		header,
		"",
		row("Price", optional(r.Price)),
		row("Overall", fmt.Sprintf("%d/100", r.OverallScore)),
		row("Technical", fmt.Sprintf("%d  RSI %s  %s", r.Technical.Score, optional(r.Technical.RSI), r.Technical.Trend)),
		row("Trend", deref(r.Technical.SMATrend)),
		row("MACD", deref(r.Technical.MACD)),
		row("Bollinger", deref(r.Technical.BBPosition)),
		row("Support", optional(r.Technical.Support)+" / "+optional(r.Technical.Resistance)),
		row("Fundamental", fmt.Sprintf("%d  P/E %s  D/E %s  ROE %s", r.Fundamental.Score, optional(r.Fundamental.PE), optional(r.Fundamental.DebtEquity), optional(r.Fundamental.ROE))),
		row("Market cap", r.Fundamental.MarketCap),
		row("Sentiment", fmt.Sprintf("%d  %s (%.2f)", r.Sentiment.Score, r.Sentiment.Label, r.Sentiment.AveragePolarity)),
		row("Beta", optional(r.Risk.Beta)),
	}
	if f := r.Forecast; f != nil {
		rows = append(rows, row("Forecast", fmt.Sprintf("%s over %dd (p_up %.2f)", f.Direction, f.HorizonDays, f.ProbUp)))
	}
	rows = append(rows, row("Market", r.MarketStatus))

	width := 72
	if m.width > 8 && m.width-8 < width {
		width = m.width - 8
	}
	rows = append(rows, "", lipgloss.NewStyle().Width(width).Render(r.Rationale))

	return cardStyle.Render(strings.Join(rows, "\n"))
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func signalStyle(s domain.Signal) lipgloss.Style {
	switch s {
	case domain.SignalStrongBuy, domain.SignalBuy:
		return buyStyle
	case domain.SignalHold:
		return holdStyle
	default:
		return sellStyle
	}
}

func optional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func deref(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}
