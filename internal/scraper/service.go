package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single page load.
const DefaultTimeout = 30 * time.Second

// ErrBrowserNotFound is returned when no Chromium binary is available to rod.
var ErrBrowserNotFound = errors.New("rod browser dependency not found")

var (
	titleSelectors = []string{`meta[property="og:title"]`, `meta[name="twitter:title"]`}
	descSelectors  = []string{`meta[property="og:description"]`, `meta[name="description"]`}
)

// RodScraper implements Scraper with a headless browser, which is needed for
// video platforms that render their metadata client side.
type RodScraper struct {
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewRodScraper creates a scraper. A browser is launched per request.
func NewRodScraper(logger logrus.FieldLogger, timeout time.Duration) *RodScraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RodScraper{
		log:     logger.WithField("component", "scraper"),
		timeout: timeout,
	}
}

// NormalizeURL adds a scheme to bare "www." links.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// ScrapeMetadata loads the page and reads its Open Graph metadata, falling
// back to the <title> tag and the plain description meta tag.
func (s *RodScraper) ScrapeMetadata(ctx context.Context, rawURL string) (title string, description string, err error) {
	url := NormalizeURL(rawURL)
	log := s.log.WithField("url", url)
	log.Debug("Scraping link metadata")

	path, exists := launcher.LookPath()
	if !exists {
		return "", "", ErrBrowserNotFound
	}
	controlURL, err := launcher.New().Bin(path).Launch()
	if err != nil {
		return "", "", fmt.Errorf("failed to launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return "", "", fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Error closing rod browser instance")
		}
	}()

	pageCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	page, err := browser.Context(pageCtx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", "", fmt.Errorf("failed to create page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			return "", "", fmt.Errorf("scraping timed out for %s: %w", url, pageCtx.Err())
		}
		return "", "", fmt.Errorf("failed waiting for page load: %w", err)
	}

	title = metaContent(page, titleSelectors)
	if title == "" {
		if el, err := page.Element("title"); err == nil {
			if text, err := el.Text(); err == nil {
				title = strings.TrimSpace(text)
			}
		}
	}
	description = metaContent(page, descSelectors)

	log.WithFields(logrus.Fields{
		"title":           title,
		"has_description": description != "",
	}).Debug("Link metadata scraped")
	return title, description, nil
}

// metaContent returns the first non-empty content attribute among selectors.
func metaContent(page *rod.Page, selectors []string) string {
	for _, selector := range selectors {
		has, el, err := page.Has(selector)
		if err != nil || !has {
			continue
		}
		content, err := el.Attribute("content")
		if err != nil || content == nil {
			continue
		}
		if v := strings.TrimSpace(*content); v != "" {
			return v
		}
	}
	return ""
}
