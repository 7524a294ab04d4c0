package service

// No-op metric recorders, substituted when no recorder is injected.

type nopCatalogMetrics struct{}

func (nopCatalogMetrics) BookCreated(string) {}
func (nopCatalogMetrics) BookDeleted()       {}
func (nopCatalogMetrics) CoverStored(string) {}
func (nopCatalogMetrics) CoverFailed()       {}

type nopIdentityMetrics struct{}

func (nopIdentityMetrics) AccountCreated() {}
func (nopIdentityMetrics) LoginSucceeded() {}
func (nopIdentityMetrics) LoginFailed()    {}
