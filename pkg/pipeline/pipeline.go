// Package pipeline runs a form image through extraction, parsing, validation and script
// generation. A Pipeline is safe for concurrent use; the seen set is its only shared state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gardar/formscribe/pkg/fillscript"
	"github.com/gardar/formscribe/pkg/formparse"
	"github.com/gardar/formscribe/pkg/guard"
	"github.com/gardar/formscribe/pkg/record"
	"github.com/gardar/formscribe/pkg/vision"
)

// ErrNoExtractor is returned by Run on a pipeline built without an extractor.
var ErrNoExtractor = errors.New("no extractor configured")

// Result is everything produced for one form.
type Result struct {
	Record  *record.Record `json:"record"`
	Warning string         `json:"warning,omitempty"`
	Script  string         `json:"script"`
	Raw     string         `json:"raw,omitempty"`
}

// JSON returns the record as indented JSON.
func (r *Result) JSON() (string, error) {
	return r.Record.JSON()
}

// Run describes a processed form for a Recorder.
type Run struct {
	Source  string
	FormID  string
	Warning string
	Record  *record.Record
	At      time.Time
}

// Recorder keeps a log of processed forms.
type Recorder interface {
	Record(ctx context.Context, run Run) error
}

// Pipeline turns form images into records and fill scripts.
type Pipeline struct {
	extractor vision.Extractor
	parser    *formparse.Parser
	seen      *guard.Seen
	scripts   *fillscript.Generator
	recorder  Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSeen shares a seen set between pipelines.
func WithSeen(seen *guard.Seen) Option {
	return func(p *Pipeline) { p.seen = seen }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithRecorder logs every processed form to r.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithGenerator replaces the default script generator.
func WithGenerator(g *fillscript.Generator) Option {
	return func(p *Pipeline) { p.scripts = g }
}

// New returns a Pipeline. extractor may be nil when only Process is used.
func New(extractor vision.Extractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: extractor,
		seen:      guard.NewSeen(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.parser = formparse.NewParser(p.logger)
	if p.scripts == nil {
		p.scripts = fillscript.New(nil, p.logger)
	}
	return p
}

// Seen returns the pipeline's seen set.
func (p *Pipeline) Seen() *guard.Seen {
	return p.seen
}

// Script renders the fill script for rec with the pipeline's generator.
func (p *Pipeline) Script(rec *record.Record) string {
	return p.scripts.Generate(rec)
}

// Run extracts the text of img and processes it.
func (p *Pipeline) Run(ctx context.Context, img vision.Image) (*Result, error) {
	if p.extractor == nil {
		return nil, ErrNoExtractor
	}

	start := p.now()
	raw, err := p.extractor.Extract(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("failed to extract form text: %w", err)
	}
	p.logger.Info("form text extracted",
		zap.String("source", img.Name),
		zap.Duration("elapsed", p.now().Sub(start)),
	)
	return p.Process(ctx, img.Name, raw)
}

// Process parses text, validates the record and renders its fill script. source names the
// form in logs and history.
func (p *Pipeline) Process(ctx context.Context, source, text string) (*Result, error) {
	rec := p.parser.Parse(text)

	verdict := guard.Validate(rec, p.seen)
	if verdict.Err != nil {
		return nil, verdict.Err
	}

	res := &Result{
		Record:  rec,
		Warning: verdict.Warning,
		Script:  p.Script(rec),
		Raw:     text,
	}

	id := guard.FormID(rec)
	fieldsLogged := []zap.Field{
		zap.String("source", source),
		zap.String("form_id", id),
		zap.Int("fields", rec.Len()),
	}
	if res.Warning != "" {
		p.logger.Warn(res.Warning, fieldsLogged...)
	} else {
		p.logger.Info("form processed", fieldsLogged...)
	}

	if p.recorder != nil {
		run := Run{Source: source, FormID: id, Warning: res.Warning, Record: rec, At: p.now()}
		if err := p.recorder.Record(ctx, run); err != nil {
			p.logger.Error("failed to record run", zap.String("source", source), zap.Error(err))
		}
	}
	return res, nil
}
