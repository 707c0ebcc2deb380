// Package planexport turns a weekly lesson plan into a downloadable document.
//
// An Exporter validates the plan's shape, resolves the subject theme and
// hands the plan to the PDF or workbook renderer. Output is all or nothing:
// either the complete document is returned or an error is, never a partial
// buffer.
package planexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/aerissecure/planexport/layout"
	"github.com/aerissecure/planexport/pdf"
	"github.com/aerissecure/planexport/plan"
	"github.com/aerissecure/planexport/theme"
	"github.com/aerissecure/planexport/xlsx"
)

// Format is an output document format.
type Format int

const (
	FormatPDF Format = iota + 1
	FormatXLSX
	// FormatHTML is a browser preview of the workbook grid.
	FormatHTML
)

var formatNames = map[Format]string{
	FormatPDF:  "pdf",
	FormatXLSX: "xlsx",
	FormatHTML: "html",
}

var contentTypes = map[Format]string{
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatHTML: "text/html; charset=utf-8",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext is the file extension for f, without the dot.
func (f Format) Ext() string { return formatNames[f] }

// ContentType is the MIME type a download of f is served with.
func (f Format) ContentType() string { return contentTypes[f] }

func (f Format) valid() bool {
	_, ok := formatNames[f]
	return ok
}

// ParseFormat maps "pdf", "xlsx" or "html" (any case) to a Format.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, n := range formatNames {
		if n == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Result is one rendered document.
type Result struct {
	Format      Format
	Data        []byte
	Filename    string
	ContentType string
	// Pages is the PDF page count; zero for other formats.
	Pages int
}

// Exporter renders plans. It holds no per-request state and is safe for
// concurrent use.
type Exporter struct {
	log *zap.Logger
	now func() time.Time
	cfg Config
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock sets the source of the generation timestamp printed on the
// cover and stored in document metadata. Pin it to get byte-identical
// output.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(e *Exporter) { e.cfg = cfg }
}

// WithLayout replaces only the page geometry of the current config.
func WithLayout(lc layout.Constants) Option {
	return func(e *Exporter) { e.cfg.Layout = lc }
}

// New returns an Exporter with the defaults overridden by opts.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		log: zap.NewNop(),
		now: time.Now,
		cfg: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.SystemName == "" {
		e.cfg.SystemName = pdf.DefaultSystemName
	}
	return e
}

// Export renders p as f. The plan's shape is checked first and a bad shape
// is reported as ErrInvalidPlanShape before anything is drawn. Render
// failures match ErrRenderFailed.
func (e *Exporter) Export(p plan.Plan, f Format) (Result, error) {
	if !f.valid() {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	if err := plan.Validate(p); err != nil {
		return Result{}, err
	}

	log := e.log.With(
		zap.String("render_id", uuid.NewString()),
		zap.String("document_id", p.Meta.DocumentID),
		zap.Stringer("format", f),
	)
	log.Debug("export started", zap.String("week", p.Meta.WeekLabel()))
	start := time.Now()

	data, pages, err := e.render(p, f)
	if err != nil {
		log.Error("export failed", zap.Error(err))
		return Result{}, err
	}

	fields := []zap.Field{zap.Int("bytes", len(data)), zap.Duration("duration", time.Since(start))}
	if f == FormatPDF {
		fields = append(fields, zap.Int("pages", pages))
	}
	log.Info("export finished", fields...)

	return Result{
		Format:      f,
		Data:        data,
		Filename:    Filename(p.Meta, f),
		ContentType: f.ContentType(),
		Pages:       pages,
	}, nil
}

// render produces the document bytes. A panic in a renderer is returned as
// a RenderError.
func (e *Exporter) render(p plan.Plan, f Format) (data []byte, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, pages = nil, 0
			err = &RenderError{Format: f, Stage: "panic", Err: fmt.Errorf("%v", r)}
		}
	}()

	if err := e.cfg.Layout.Validate(); err != nil {
		return nil, 0, &RenderError{Format: f, Stage: "setup", Err: err}
	}
	th := theme.Resolve(p.Meta.SubjectName)
	now := e.now()

	var buf bytes.Buffer
	switch f {
	case FormatPDF:
		out, err := pdf.Render(&buf, p, th, pdf.Options{
			Layout:      e.cfg.Layout,
			SystemName:  e.cfg.SystemName,
			GeneratedAt: now,
		})
		if err != nil {
			stage := "draw"
			var se *pdf.StageError
			if errors.As(err, &se) {
				stage = se.Stage
			}
			return nil, 0, &RenderError{Format: f, Stage: stage, Err: err}
		}
		return buf.Bytes(), out.Pages, nil

	case FormatXLSX:
		m := xlsx.BuildWorkbook(p, th, e.buildOptions())
		if err := xlsx.Write(&buf, m, docProps(p, e.cfg.SystemName, now)); err != nil {
			return nil, 0, &RenderError{Format: f, Stage: "write", Err: err}
		}
		got, err := xlsx.ParseWorkbookModel(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		if err != nil {
			return nil, 0, &RenderError{Format: f, Stage: "verify", Err: err}
		}
		if err := xlsx.Verify(m, got); err != nil {
			return nil, 0, &RenderError{Format: f, Stage: "verify", Err: err}
		}
		return buf.Bytes(), 0, nil

	case FormatHTML:
		m := xlsx.BuildWorkbook(p, th, e.buildOptions())
		buf.WriteString(xlsx.RenderWorkbookHTML(m))
		return buf.Bytes(), 0, nil
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

func (e *Exporter) buildOptions() xlsx.BuildOptions {
	return xlsx.BuildOptions{Layout: e.cfg.Layout, SystemName: e.cfg.SystemName}
}

func docProps(p plan.Plan, systemName string, now time.Time) xlsx.DocProps {
	m := p.Meta
	return xlsx.DocProps{
		Title:       fmt.Sprintf("Weekly Lesson Plan - %s", m.WeekLabel()),
		Subject:     m.SubjectName,
		Creator:     systemName,
		Identifier:  m.DocumentID,
		Description: fmt.Sprintf("%s, %s, %s", m.GradeName, m.TeacherName, m.DateRange()),
		Created:     now,
	}
}

// ExportAll renders p in every format in fs concurrently. If any format
// fails, or ctx is cancelled, no results are returned.
func (e *Exporter) ExportAll(ctx context.Context, p plan.Plan, fs ...Format) (map[Format]Result, error) {
	results := make([]Result, len(fs))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fs {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Export(p, f)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[Format]Result, len(fs))
	for _, res := range results {
		out[res.Format] = res
	}
	return out, nil
}

// Export renders p as f with the default configuration.
func Export(p plan.Plan, f Format) ([]byte, error) {
	res, err := New().Export(p, f)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Filename suggests a download name of the form
// lesson-plan_<grade>_<subject>_week-<n>-<year>.<ext>.
func Filename(m plan.WeekMeta, f Format) string {
	return fmt.Sprintf("lesson-plan_%s_%s_week-%d-%d.%s",
		slug(m.GradeName), slug(m.SubjectName), m.WeekNumber, m.WeekYear, f.Ext())
}

// slug lowercases s, drops diacritics and replaces every run of characters
// outside [a-z0-9] with a single dash.
func slug(s string) string {
	// Transformers carry state, so each call builds its own chain.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}
