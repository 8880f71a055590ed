package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"stock-alpha-engine/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	yahooChartBaseURL   = "https://query1.finance.yahoo.com"
	yahooSummaryBaseURL = "https://query2.finance.yahoo.com"
	yahooCookieURL      = "https://fc.yahoo.com"
	yahooUserAgent      = "Mozilla/5.0 (compatible; stock-alpha-engine/1.0)"
)

// ErrTickerNotFound is returned when Yahoo has no data at all for a symbol.
var ErrTickerNotFound = errors.New("ticker not found")

var errYahooUnauthorized = errors.New("yahoo rejected session")

type YahooOptions struct {
	ChartBaseURL   string
	SummaryBaseURL string
	// CookieURL is hit once to obtain the session cookie that the crumb is bound to.
	CookieURL     string
	Timeout       time.Duration
	RatePerMinute int
}

// YahooProvider fetches daily history, key statistics, and news from Yahoo Finance.
type YahooProvider struct {
	client         *http.Client
	chartBaseURL   string
	summaryBaseURL string
	cookieURL      string
	tracer         trace.Tracer
	limiter        *RateLimiter

	crumbMu sync.Mutex
	crumb   string
}

func NewYahooProvider(tracer trace.Tracer, opts YahooOptions) *YahooProvider {
	if opts.ChartBaseURL == "" {
		opts.ChartBaseURL = yahooChartBaseURL
	}
	if opts.SummaryBaseURL == "" {
		opts.SummaryBaseURL = yahooSummaryBaseURL
	}
	if opts.CookieURL == "" {
		opts.CookieURL = yahooCookieURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RatePerMinute <= 0 {
		opts.RatePerMinute = 60
	}
	// cookiejar.New only fails on a bad public suffix list, and none is passed
	jar, _ := cookiejar.New(nil)
	return &YahooProvider{
		client:         &http.Client{Timeout: opts.Timeout, Jar: jar},
		chartBaseURL:   strings.TrimRight(opts.ChartBaseURL, "/"),
		summaryBaseURL: strings.TrimRight(opts.SummaryBaseURL, "/"),
		cookieURL:      opts.CookieURL,
		tracer:         tracer,
		limiter:        NewRateLimiterPerMinute(opts.RatePerMinute),
	}
}

type yahooNumber struct {
	Raw *float64 `json:"raw"`
}

// FetchHistory returns daily candles oldest first, plus the quote carried in the chart metadata.
func (p *YahooProvider) FetchHistory(ctx context.Context, ticker, rangeStr string) ([]*domain.Candle, *domain.Quote, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-history")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	if rangeStr == "" {
		rangeStr = domain.HistoryRange
	}
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s&includePrePost=false",
		p.chartBaseURL, url.PathEscape(ticker), url.QueryEscape(rangeStr), domain.IntervalDaily)

	body, err := p.doRequest(ctx, endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, fmt.Errorf("fetch history for %s: %w", ticker, err)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Meta struct {
					Currency           string   `json:"currency"`
					ExchangeName       string   `json:"exchangeName"`
					RegularMarketPrice *float64 `json:"regularMarketPrice"`
					FiftyTwoWeekHigh   *float64 `json:"fiftyTwoWeekHigh"`
					FiftyTwoWeekLow    *float64 `json:"fiftyTwoWeekLow"`
				} `json:"meta"`
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Open   []*float64 `json:"open"`
						High   []*float64 `json:"high"`
						Low    []*float64 `json:"low"`
						Close  []*float64 `json:"close"`
						Volume []*float64 `json:"volume"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse history for %s: %w", ticker, err)
	}
	if raw.Chart.Error != nil {
		return nil, nil, fmt.Errorf("%w: %s (%s)", ErrTickerNotFound, ticker, raw.Chart.Error.Description)
	}
	if len(raw.Chart.Result) == 0 || len(raw.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	result := raw.Chart.Result[0]
	q := result.Indicators.Quote[0]
	candles := make([]*domain.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open, okO := at(q.Open, i)
		high, okH := at(q.High, i)
		low, okL := at(q.Low, i)
		closePx, okC := at(q.Close, i)
		if !okO || !okH || !okL || !okC {
			continue
		}
		volume, _ := at(q.Volume, i)
		candles = append(candles, &domain.Candle{
			Ticker:   ticker,
			Interval: domain.IntervalDaily,
			OpenTime: time.Unix(ts, 0).UTC(),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePx,
			Volume:   volume,
		})
	}
	if len(candles) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no price history", ErrTickerNotFound, ticker)
	}

	quote := &domain.Quote{
		Ticker:           ticker,
		Currency:         result.Meta.Currency,
		Exchange:         result.Meta.ExchangeName,
		Price:            result.Meta.RegularMarketPrice,
		FiftyTwoWeekHigh: result.Meta.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  result.Meta.FiftyTwoWeekLow,
	}
	span.SetAttributes(attribute.Int("candles", len(candles)))
	return candles, quote, nil
}

// FetchFundamentals returns the key statistics from the quoteSummary modules.
func (p *YahooProvider) FetchFundamentals(ctx context.Context, ticker string) (*domain.Fundamentals, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-fundamentals")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	body, err := p.fetchSummary(ctx, ticker)
	if errors.Is(err, errYahooUnauthorized) {
		// the crumb expired with its cookie; take a fresh pair once
		p.resetCrumb()
		body, err = p.fetchSummary(ctx, ticker)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch fundamentals for %s: %w", ticker, err)
	}

	var raw struct {
		QuoteSummary struct {
			Result []struct {
				SummaryDetail struct {
					TrailingPE       yahooNumber `json:"trailingPE"`
					DividendYield    yahooNumber `json:"dividendYield"`
					MarketCap        yahooNumber `json:"marketCap"`
					Beta             yahooNumber `json:"beta"`
					FiftyTwoWeekHigh yahooNumber `json:"fiftyTwoWeekHigh"`
					FiftyTwoWeekLow  yahooNumber `json:"fiftyTwoWeekLow"`
				} `json:"summaryDetail"`
				FinancialData struct {
					CurrentPrice   yahooNumber `json:"currentPrice"`
					DebtToEquity   yahooNumber `json:"debtToEquity"`
					ReturnOnEquity yahooNumber `json:"returnOnEquity"`
				} `json:"financialData"`
				DefaultKeyStatistics struct {
					PEGRatio    yahooNumber `json:"pegRatio"`
					PriceToBook yahooNumber `json:"priceToBook"`
				} `json:"defaultKeyStatistics"`
				Price struct {
					RegularMarketPrice yahooNumber `json:"regularMarketPrice"`
				} `json:"price"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"quoteSummary"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse fundamentals for %s: %w", ticker, err)
	}
	if raw.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrTickerNotFound, ticker, raw.QuoteSummary.Error.Description)
	}
	if len(raw.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	r := raw.QuoteSummary.Result[0]
	price := r.FinancialData.CurrentPrice.Raw
	if price == nil {
		price = r.Price.RegularMarketPrice.Raw
	}
	return &domain.Fundamentals{
		Ticker:           ticker,
		Price:            price,
		TrailingPE:       r.SummaryDetail.TrailingPE.Raw,
		PEGRatio:         r.DefaultKeyStatistics.PEGRatio.Raw,
		DebtToEquityPct:  r.FinancialData.DebtToEquity.Raw,
		PriceToBook:      r.DefaultKeyStatistics.PriceToBook.Raw,
		ReturnOnEquity:   r.FinancialData.ReturnOnEquity.Raw,
		DividendYield:    r.SummaryDetail.DividendYield.Raw,
		MarketCap:        r.SummaryDetail.MarketCap.Raw,
		Beta:             r.SummaryDetail.Beta.Raw,
		FiftyTwoWeekHigh: r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		FiftyTwoWeekLow:  r.SummaryDetail.FiftyTwoWeekLow.Raw,
	}, nil
}

func (p *YahooProvider) fetchSummary(ctx context.Context, ticker string) ([]byte, error) {
	crumb, err := p.sessionCrumb(ctx)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s&crumb=%s",
		p.summaryBaseURL, url.PathEscape(ticker),
		url.QueryEscape("summaryDetail,financialData,defaultKeyStatistics,price"),
		url.QueryEscape(crumb))
	return p.doRequest(ctx, endpoint)
}

// sessionCrumb returns the cached crumb, running the cookie and getcrumb handshake on first use.
func (p *YahooProvider) sessionCrumb(ctx context.Context) (string, error) {
	p.crumbMu.Lock()
	defer p.crumbMu.Unlock()

	if p.crumb != "" {
		return p.crumb, nil
	}

	// the cookie endpoint answers 404 but still sets the session cookie
	if err := p.primeCookie(ctx); err != nil {
		return "", fmt.Errorf("yahoo session cookie: %w", err)
	}
	body, err := p.doRequest(ctx, p.chartBaseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		return "", fmt.Errorf("yahoo crumb: unexpected body %q", sanitizeText(crumb, 64))
	}
	p.crumb = crumb
	return crumb, nil
}

func (p *YahooProvider) resetCrumb() {
	p.crumbMu.Lock()
	p.crumb = ""
	p.crumbMu.Unlock()
}

func (p *YahooProvider) primeCookie(ctx context.Context) error {
	resp, err := p.send(ctx, p.cookieURL, "text/html")
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.Body.Close()
}

// FetchNews returns the latest headlines mentioning the ticker, newest first.
func (p *YahooProvider) FetchNews(ctx context.Context, ticker string, maxItems int) ([]domain.Headline, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-news")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	if maxItems <= 0 {
		maxItems = 10
	}
	endpoint := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=0&newsCount=%d",
		p.chartBaseURL, url.QueryEscape(ticker), maxItems)

	body, err := p.doRequest(ctx, endpoint)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch news for %s: %w", ticker, err)
	}

	var raw struct {
		News []struct {
			Title               string `json:"title"`
			Publisher           string `json:"publisher"`
			Link                string `json:"link"`
			ProviderPublishTime int64  `json:"providerPublishTime"`
		} `json:"news"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse news for %s: %w", ticker, err)
	}

	out := make([]domain.Headline, 0, min(maxItems, len(raw.News)))
	for _, n := range raw.News {
		if len(out) >= maxItems {
			break
		}
		title := sanitizeText(n.Title, 300)
		if title == "" {
			continue
		}
		var published time.Time
		if n.ProviderPublishTime > 0 {
			published = time.Unix(n.ProviderPublishTime, 0).UTC()
		}
		out = append(out, domain.Headline{
			Title:       title,
			Publisher:   sanitizeText(n.Publisher, 120),
			URL:         sanitizeText(n.Link, 500),
			PublishedAt: published,
		})
	}
	return out, nil
}

// HeadlineFeedURL is the per-ticker RSS headline feed used when the search API has no news.
func HeadlineFeedURL(ticker string) string {
	return "https://feeds.finance.yahoo.com/rss/2.0/headline?s=" + url.QueryEscape(ticker) + "&region=US&lang=en-US"
}

func (p *YahooProvider) send(ctx context.Context, endpoint, accept string) (*http.Response, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", yahooUserAgent)
	return p.client.Do(req)
}

func (p *YahooProvider) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	resp, err := p.send(ctx, endpoint, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrTickerNotFound
	}
	if resp.StatusCode == http.StatusUnauthorized {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: yahoo API error %d: %s", errYahooUnauthorized, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("yahoo API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return io.ReadAll(resp.Body)
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	v := *values[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func sanitizeText(in string, maxLen int) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	in = strings.Join(strings.Fields(in), " ")
	if maxLen > 0 && len(in) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(in[cut]) {
			cut--
		}
		in = in[:cut]
	}
	return in
}
