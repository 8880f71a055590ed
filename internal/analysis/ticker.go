package analysis

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidTicker  = errors.New("invalid ticker")
	ErrTickerNotFound = errors.New("ticker not found")
	ErrNoHistory      = errors.New("no price history")
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^&]{0,19}$`)

// NormalizeTicker upper-cases and validates a user-supplied symbol such as "reliance.ns".
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return "", fmt.Errorf("%w: ticker is required", ErrInvalidTicker)
	}
	if !tickerPattern.MatchString(t) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, t)
	}
	return t, nil
}

// NotFoundMessage is the user-facing text for an unknown symbol.
func NotFoundMessage(ticker string) string {
	return fmt.Sprintf("Stock ticker '%s' not found. Please check the symbol (e.g., RELIANCE.NS for NSE stocks).", strings.ToUpper(ticker))
}
