package metrics

import "github.com/openshelf/digital-library/internal/core/ports"

// CatalogRecorder implements ports.CatalogMetrics on the registered counters.
type CatalogRecorder struct{}

func (CatalogRecorder) BookCreated(category string) {
	BooksCreatedTotal.WithLabelValues(category).Inc()
}

func (CatalogRecorder) BookDeleted() {
	BooksDeletedTotal.Inc()
}

func (CatalogRecorder) CoverStored(source string) {
	CoversGeneratedTotal.WithLabelValues(source).Inc()
}

func (CatalogRecorder) CoverFailed() {
	CoverFailuresTotal.Inc()
}

// IdentityRecorder implements ports.IdentityMetrics on the registered counters.
type IdentityRecorder struct{}

func (IdentityRecorder) AccountCreated() {
	SignupsTotal.Inc()
}

func (IdentityRecorder) LoginSucceeded() {
	LoginsTotal.WithLabelValues("success").Inc()
}

func (IdentityRecorder) LoginFailed() {
	LoginsTotal.WithLabelValues("failure").Inc()
}

var (
	_ ports.CatalogMetrics  = CatalogRecorder{}
	_ ports.IdentityMetrics = IdentityRecorder{}
)
