// Package classifier turns raw reel input into a title, a summary and a
// category. A generative model is tried first; any failure falls back to
// local heuristics, so classification always produces a usable result.
package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"reelvault/internal/category"
	"reelvault/internal/scraper"
)

// ErrNoModel is the failure recorded when no model is configured.
var ErrNoModel = errors.New("no classification model configured")

// Source tells which path produced a Result.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Fields is the structured outcome of a classification.
type Fields struct {
	Title    string
	Summary  string
	Category category.Category
}

// Result is a classification tagged with the path that produced it.
type Result struct {
	Source Source
	Fields
	// Cause is the primary-path failure that triggered a fallback, if any.
	Cause error
}

// Model is the external classification service: it takes a prompt and
// returns the raw text answer.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithScraper enriches prompts for URL-shaped input with the linked page's metadata.
func WithScraper(s scraper.Scraper) Option {
	return func(p *Pipeline) {
		p.scraper = s
	}
}

// Pipeline classifies reel input. It is safe for concurrent use as long as
// its Model and Scraper are.
type Pipeline struct {
	model   Model
	scraper scraper.Scraper
	log     logrus.FieldLogger
}

// NewPipeline creates a pipeline. model may be nil, in which case every
// input is classified by the local fallback.
func NewPipeline(model Model, logger logrus.FieldLogger, opts ...Option) *Pipeline {
	p := &Pipeline{
		model: model,
		log:   logger.WithField("component", "classifier"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Classify never fails: when the model is unavailable or its answer cannot
// be used, the result comes from Fallback.
func (p *Pipeline) Classify(ctx context.Context, raw string) Result {
	log := p.log.WithField("is_url", IsURL(raw))

	fields, err := p.primary(ctx, raw)
	if err != nil {
		log.WithError(err).Warn("AI classification failed, using local fallback")
		res := Result{Source: SourceFallback, Fields: Fallback(raw), Cause: err}
		log.WithFields(logrus.Fields{
			"source":   SourceFallback,
			"category": res.Category,
		}).Info("Reel classified")
		return res
	}

	log.WithFields(logrus.Fields{
		"source":   SourceAI,
		"category": fields.Category,
	}).Info("Reel classified")
	return Result{Source: SourceAI, Fields: fields}
}

func (p *Pipeline) primary(ctx context.Context, raw string) (fields Fields, err error) {
	if p.model == nil {
		return Fields{}, ErrNoModel
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classification model panicked: %v", r)
		}
	}()

	prompt, err := buildPrompt(raw, p.pageInfo(ctx, raw))
	if err != nil {
		return Fields{}, err
	}

	out, err := p.model.Generate(ctx, prompt)
	if err != nil {
		return Fields{}, fmt.Errorf("model request failed: %w", err)
	}

	resp, err := parseResponse(out)
	if err != nil {
		return Fields{}, err
	}

	local := Fallback(raw)
	fields = Fields{
		Title:    CapTitle(resp.Title),
		Summary:  CapSummary(resp.Summary),
		Category: local.Category,
	}
	if fields.Title == "" {
		fields.Title = local.Title
	}
	if fields.Summary == "" {
		fields.Summary = local.Summary
	}
	if c, ok := category.Normalize(resp.Category); ok {
		fields.Category = c
	} else {
		p.log.WithField("category", resp.Category).Debug("Unrecognized AI category, using hint")
	}
	return fields, nil
}

func (p *Pipeline) pageInfo(ctx context.Context, raw string) *pageInfo {
	if p.scraper == nil || !IsURL(raw) {
		return nil
	}
	title, description, err := p.scraper.ScrapeMetadata(ctx, raw)
	if err != nil {
		p.log.WithError(err).WithField("url", raw).Warn("Could not scrape link metadata")
		return nil
	}
	if title == "" && description == "" {
		return nil
	}
	return &pageInfo{Title: title, Description: description}
}
