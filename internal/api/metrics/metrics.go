// Package metrics defines and registers all custom Prometheus metrics for the
// digital-library API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// ── Catalog metrics ───────────────────────────────────────────────────────────

// BooksCreatedTotal counts books ingested through the admin API.
// Label:
//   - category: the book's category as supplied by the admin
var BooksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books created, by category.",
	},
	[]string{"category"},
)

// BooksDeletedTotal counts books removed through the admin API.
var BooksDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_deleted_total",
		Help:      "Total number of books deleted.",
	},
)

// CoversGeneratedTotal counts cover images attached to books.
// Label:
//   - source: "upload" when supplied by the admin, otherwise the external
//     tool that rendered it (e.g. "pdftoppm", "convert", "magick")
var CoversGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "covers_generated_total",
		Help:      "Total number of cover images stored, by source.",
	},
	[]string{"source"},
)

// CoverFailuresTotal counts create-book requests that ended without a cover.
var CoverFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cover_failures_total",
		Help:      "Total number of books left without a cover after best-effort generation.",
	},
)

// ── Identity metrics ──────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts successfully created accounts.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// RateLimitRejectedTotal counts requests refused by the rate limiter.
var RateLimitRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_rejected_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)
