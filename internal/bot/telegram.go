package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"stock-alpha-engine/internal/analysis"
	"stock-alpha-engine/internal/domain"

	tele "gopkg.in/telebot.v3"
)

const analyzeTimeout = 45 * time.Second

type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*domain.AnalysisResponse, bool, error)
}

func StartTelegramBot(token string, analyzer Analyzer) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/analyze", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()
		return c.Send(analyzeReply(ctx, analyzer, c.Args()))
	})

	b.Handle("/market", func(c tele.Context) error {
		return c.Send(marketReply(time.Now()))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func analyzeReply(ctx context.Context, analyzer Analyzer, args []string) string {
	if len(args) == 0 {
		return "Usage: /analyze RELIANCE.NS"
	}
	ticker := strings.ToUpper(strings.TrimSpace(args[0]))
	resp, _, err := analyzer.Analyze(ctx, ticker)
	switch {
	case errors.Is(err, analysis.ErrInvalidTicker):
		return fmt.Sprintf("Invalid ticker: %s", ticker)
	case errors.Is(err, analysis.ErrTickerNotFound):
		return analysis.NotFoundMessage(ticker)
	case err != nil:
		return fmt.Sprintf("Error analysing %s: %v", ticker, err)
	}
	return FormatAnalysis(resp)
}

func marketReply(now time.Time) string {
	return fmt.Sprintf("%s market: %s", analysis.MarketName, analysis.MarketStatus(now))
}

// FormatAnalysis renders a plain-text summary suitable for chat clients.
func FormatAnalysis(resp *domain.AnalysisResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", resp.Ticker, resp.Verdict)
	fmt.Fprintf(&b, "Price: %s\n", optional(resp.Price))
	fmt.Fprintf(&b, "Signal: %s (score %d/100)\n", resp.Signal, resp.OverallScore)
	fmt.Fprintf(&b, "Technical: %d  RSI %s  %s\n", resp.Technical.Score, optional(resp.Technical.RSI), resp.Technical.Trend)
	fmt.Fprintf(&b, "Fundamental: %d  P/E %s  D/E %s\n", resp.Fundamental.Score, optional(resp.Fundamental.PE), optional(resp.Fundamental.DebtEquity))
	fmt.Fprintf(&b, "Sentiment: %d  %s (%.2f)\n", resp.Sentiment.Score, resp.Sentiment.Label, resp.Sentiment.AveragePolarity)
	if f := resp.Forecast; f != nil {
		fmt.Fprintf(&b, "Forecast %dd: %s (p_up %.2f)\n", f.HorizonDays, f.Direction, f.ProbUp)
	}
	fmt.Fprintf(&b, "Market: %s\n\n", resp.MarketStatus)
	b.WriteString(resp.Rationale)
	return b.String()
}

func optional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
