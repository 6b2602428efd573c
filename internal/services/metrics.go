package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-tag-backend/internal/domain"
)

var (
	// tagOutcomes counts tag write attempts by outcome.
	tagOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tag_insert_outcomes_total",
			Help: "Tag write attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// quotaEventsPurged counts expired rate-limit events removed by lazy cleanup.
	quotaEventsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tag_quota_events_purged_total",
			Help: "Expired rate-limit events removed during quota checks.",
		},
	)
)

func init() {
	prometheus.MustRegister(tagOutcomes, quotaEventsPurged)
}

// OutcomeLabel returns the stable metric/log label for an insert outcome.
func OutcomeLabel(o domain.InsertOutcome) string {
	switch o.(type) {
	case domain.Invalid:
		return "invalid"
	case domain.RateLimited:
		return "rate_limited"
	case domain.Created:
		return "created"
	case domain.Duplicate:
		return "duplicate"
	case domain.StoreError:
		return "store_error"
	}
	return "unknown"
}

// loggerFrom returns the request-scoped logger when one is attached to ctx,
// otherwise the global logger.
func loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
