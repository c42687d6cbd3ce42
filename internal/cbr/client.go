package cbr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/text/encoding/charmap"
)

// DefaultBaseURL is the daily feed of the Central Bank of Russia.
const DefaultBaseURL = "https://www.cbr.ru/scripts/XML_daily.asp"

// The provider expects dd/mm/yyyy in the date_req query parameter.
const dateFormat = "02/01/2006"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

var (
	// ErrFetch reports that the upstream feed could not be retrieved after
	// the configured number of attempts.
	ErrFetch = errors.New("cbr: feed fetch failed")

	errStatusCode = errors.New("http status != 200")
)

// Client retrieves raw feed documents from the upstream provider.
type Client struct {
	u        *url.URL
	client   *http.Client
	attempts uint64
	delay    time.Duration
	log      *slog.Logger
}

// NewClient returns a Client for the feed at baseURL. timeout bounds a
// single attempt, delay is the fixed pause between attempts, attempts is
// the total attempt count (at least 1).
func NewClient(baseURL string, timeout, delay time.Duration, attempts uint64, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if attempts == 0 {
		attempts = 1
	}

	return &Client{
		u:        u,
		client:   &http.Client{Timeout: timeout},
		attempts: attempts,
		delay:    delay,
		log:      log,
	}, nil
}

// Fetch retrieves the feed for the given date, or the latest published feed
// when date is the zero time. The body is read as raw bytes and decoded
// from windows-1251 once obtained; a decode or downstream parse failure is
// never retried.
func (c *Client) Fetch(ctx context.Context, date time.Time) (string, error) {
	u := *c.u
	if !date.IsZero() {
		q := u.Query()
		q.Set("date_req", date.Format(dateFormat))
		u.RawQuery = q.Encode()
	}

	var body []byte
	var attempt uint64

	b, _ := retry.NewConstant(c.delay)
	b = retry.WithMaxRetries(c.attempts-1, b)

	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++

		raw, err := c.get(ctx, u)
		if err != nil {
			c.log.Warn("feed request failed", "url", u.String(), "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}

		body = raw

		return nil
	}); err != nil {
		return "", fmt.Errorf("%w: %d attempts: %v", ErrFetch, attempt, err)
	}

	decoded, err := charmap.Windows1251.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decode windows-1251: %w", err)
	}

	return string(decoded), nil
}

// Quotes fetches and parses one day's feed; the zero time means the latest
// published feed.
func (c *Client) Quotes(ctx context.Context, date time.Time) ([]Quote, error) {
	xmlText, err := c.Fetch(ctx, date)
	if err != nil {
		return nil, err
	}

	return Parse(xmlText)
}

func (c *Client) get(ctx context.Context, u url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build HTTP request: %w", err)
	}

	req.Header.Set("Accept", "text/xml, application/xml, */*")
	req.Header.Set("Accept-Language", "ru,en;q=0.9")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status: %d, %s: %w", resp.StatusCode, resp.Status, errStatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return b, nil
}
