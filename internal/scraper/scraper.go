// Package scraper fetches page metadata for links submitted as reels.
package scraper

import "context"

// Scraper fetches metadata for a link.
type Scraper interface {
	// ScrapeMetadata returns the page title and description for a URL.
	ScrapeMetadata(ctx context.Context, url string) (title string, description string, err error)
}
