// Package tldr runs the summary command against a document buffer.
package tldr

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"document-tldr/internal/document"
	"document-tldr/internal/locator"
	"document-tldr/internal/models"
	"document-tldr/internal/summarizer"
)

// ErrSummaryFailed is returned in strict mode instead of writing a placeholder.
var ErrSummaryFailed = errors.New("summary failed")

// Plan is a snapshot of where the summary goes, taken before the model call.
type Plan struct {
	Target locator.Result
	// Line is the target line's content at snapshot time.
	Line string
	Body string
}

// NewPlan returns false for a document with no lines.
func NewPlan(buf document.Buffer) (Plan, bool) {
	lines := buf.Lines()
	if len(lines) == 0 {
		return Plan{}, false
	}
	target := locator.Locate(lines)
	return Plan{Target: target, Line: lines[target.Index], Body: buf.Text()}, true
}

// Edit splices block at the target. Whether the line is replaced is decided
// from the line itself: a line starting with the summary marker is
// overwritten, anything else is pushed down.
func (p Plan) Edit(block string) models.Edit {
	start := models.Position{Line: p.Target.Index}
	if locator.IsSummaryLine(p.Line) {
		end := models.Position{Line: p.Target.Index, Character: len(p.Line)}
		return models.Edit{Range: models.Range{Start: start, End: end}, Text: block}
	}
	return models.Edit{Range: models.Range{Start: start, End: start}, Text: block + "\n"}
}

type Outcome struct {
	Plan    Plan
	Result  summarizer.Result
	Edit    models.Edit
	Applied bool
}

type Generator struct {
	summarizer *summarizer.Summarizer
	strict     bool
}

type Option func(*Generator)

// WithStrict makes failed summaries an error rather than placeholder text.
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

func NewGenerator(s *summarizer.Summarizer, opts ...Option) *Generator {
	g := &Generator{summarizer: s}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate summarizes buf and splices the block into it. A document without
// lines is left alone.
func (g *Generator) Generate(ctx context.Context, buf document.Buffer) (*Outcome, error) {
	plan, ok := NewPlan(buf)
	if !ok {
		log.Debug().Msg("Document has no lines, nothing to do")
		return &Outcome{}, nil
	}
	log.Debug().
		Int("line", plan.Target.Index).
		Bool("replace", plan.Target.Replace).
		Bool("matched", plan.Target.Matched).
		Msg("Located summary target")

	res := g.summarizer.Summarize(ctx, plan.Body)
	out := &Outcome{Plan: plan, Result: res, Edit: plan.Edit(res.Block())}
	if g.strict && !res.OK() {
		return out, fmt.Errorf("%w: %s: %w", ErrSummaryFailed, res.Status, res.Err)
	}

	if err := buf.Apply(out.Edit); err != nil {
		return out, fmt.Errorf("apply summary: %w", err)
	}
	out.Applied = true
	return out, nil
}
