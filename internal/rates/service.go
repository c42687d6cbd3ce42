package rates

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"cbr-rate-service/internal/cbr"

	"github.com/hashicorp/go-multierror"
)

const (
	// The backward walk examines at most daysBack*dayBudgetMultiplier
	// calendar days, so a currency code that never appears in the feed
	// cannot keep the walk going forever.
	dayBudgetMultiplier = 3

	rateScale = 10000

	isoDate = "2006-01-02"
)

// Source delivers one day's worth of parsed feed quotes.
//
//go:generate mockgen -source service.go -destination mock_source.go -package rates
type Source interface {
	// Quotes returns the quotes for the given date, or for the latest
	// published feed when date is the zero time.
	Quotes(ctx context.Context, date time.Time) ([]cbr.Quote, error)
}

// HistoricalPoint is one business day's per-unit rate for a single
// currency, with the rate rounded to 4 decimal places.
type HistoricalPoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// Service answers rate queries on top of a feed Source. It keeps no state
// across calls; every query builds its data fresh from the feed.
type Service struct {
	source Source
	log    *slog.Logger
	now    func() time.Time
}

func NewService(source Source, log *slog.Logger) *Service {
	return &Service{
		source: source,
		log:    log,
		now:    time.Now,
	}
}

// GetCurrentRates returns the latest feed's quotes in feed order with the
// per-unit Rate populated.
func (s *Service) GetCurrentRates(ctx context.Context) ([]cbr.Quote, error) {
	quotes, err := s.source.Quotes(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("latest quotes: %w", err)
	}

	for i := range quotes {
		quotes[i].Rate = quotes[i].Value / float64(quotes[i].Nominal)
	}

	return quotes, nil
}

// GetHistoricalRates walks backward from today one calendar day at a time,
// skipping Saturdays and Sundays, until daysBack points are collected or
// the day budget runs out. The result is ordered oldest-first and holds at
// most daysBack points; a code that never matches yields an empty series,
// not an error.
func (s *Service) GetHistoricalRates(ctx context.Context, charCode string, daysBack int) ([]HistoricalPoint, error) {
	today := s.now()
	points := make([]HistoricalPoint, 0, max(daysBack, 0))

	var dayErrs *multierror.Error

	for added, checked := 0, 0; added < daysBack && checked < daysBack*dayBudgetMultiplier; {
		date := today.AddDate(0, 0, -checked)
		checked++

		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		quotes, err := s.source.Quotes(ctx, date)
		if err != nil {
			// Discarded on purpose: a day that cannot be fetched drops out
			// of the series instead of failing the whole request.
			dayErrs = multierror.Append(dayErrs, fmt.Errorf("%s: %w", date.Format(isoDate), err))
			continue
		}

		quote, ok := findQuote(quotes, charCode)
		if !ok {
			continue
		}

		rate := quote.Value / float64(quote.Nominal)
		points = append(points, HistoricalPoint{
			Date: date.Format(isoDate),
			Rate: math.Round(rate*rateScale) / rateScale,
		})
		added++
	}

	if err := dayErrs.ErrorOrNil(); err != nil {
		s.log.Warn("days skipped in rate history", "charCode", charCode, "error", err)
	}

	// The walk collects newest-first; the response is oldest-first.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	return points, nil
}

func findQuote(quotes []cbr.Quote, charCode string) (cbr.Quote, bool) {
	for _, q := range quotes {
		if q.CharCode == charCode {
			return q, true
		}
	}

	return cbr.Quote{}, false
}
