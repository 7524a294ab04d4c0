package ports

// CatalogMetrics records catalog ingestion outcomes. Implementations must be
// safe for concurrent use.
type CatalogMetrics interface {
	BookCreated(category string)
	BookDeleted()
	// CoverStored reports a stored cover; source is "upload" for supplied
	// images, otherwise the tool that rendered it.
	CoverStored(source string)
	CoverFailed()
}

// IdentityMetrics records account lifecycle outcomes.
type IdentityMetrics interface {
	AccountCreated()
	LoginSucceeded()
	LoginFailed()
}
