package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"time"

	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/storage"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func init() {
	api.DisableConfigDir()
}

// ExportState is the position of one export in its lifecycle.
type ExportState string

const (
	StateIdle      ExportState = "idle"
	StateCapturing ExportState = "capturing"
	StateEncoding  ExportState = "encoding"
	StateSaved     ExportState = "saved"
	StateFailed    ExportState = "failed"
)

// PageWidthPx is the CSS width the page is captured at: 8.5in at 96 dpi.
const PageWidthPx = 816

// Viewport is the capture geometry handed to a Capturer.
type Viewport struct {
	Width int
	Scale float64
}

// Capturer rasterizes an HTML page into a PNG of the whole document.
type Capturer interface {
	Capture(ctx context.Context, html string, vp Viewport) ([]byte, error)
}

// ExportOptions tune the raster and the packaged page. Zero values pick defaults.
type ExportOptions struct {
	Scale       float64
	JPEGQuality int
	Page        PageSize
	MaxPixels   int
	Timeout     time.Duration
}

func (o ExportOptions) withDefaults() ExportOptions {
	switch {
	case o.Scale == 0:
		o.Scale = 2
	case o.Scale < 1:
		o.Scale = 1
	case o.Scale > 4:
		o.Scale = 4
	}
	switch {
	case o.JPEGQuality == 0:
		o.JPEGQuality = 85
	case o.JPEGQuality < 1:
		o.JPEGQuality = 1
	case o.JPEGQuality > 100:
		o.JPEGQuality = 100
	}
	if o.Page.Width == 0 || o.Page.Height == 0 {
		o.Page = Letter
	}
	return o
}

// Export is a finished PDF.
type Export struct {
	FileName string
	PDF      []byte
	// Truncated is set when content below the first page was cut off.
	Truncated bool
	// ArchiveKey is where the file was archived, empty when it was not.
	ArchiveKey string
}

// Exporter turns a document snapshot into a single-page PDF. At most one
// export runs per session key; a second one fails fast.
type Exporter struct {
	capturer Capturer
	opts     ExportOptions
	archive  storage.Storage
	metrics  *Metrics
	tracer   trace.Tracer
	log      *slog.Logger

	mu           sync.Mutex
	running      map[string]ExportState
	onTransition func(key string, s ExportState)
}

// NewExporter wires a capturer with optional archive storage and metrics.
func NewExporter(c Capturer, opts ExportOptions, archive storage.Storage, metrics *Metrics) *Exporter {
	return &Exporter{
		capturer: c,
		opts:     opts.withDefaults(),
		archive:  archive,
		metrics:  metrics,
		tracer:   otel.Tracer("resume-builder/export"),
		log:      slog.With("component", "exporter"),
		running:  make(map[string]ExportState),
	}
}

// OnTransition registers fn to observe every state change.
func (e *Exporter) OnTransition(fn func(key string, s ExportState)) {
	e.mu.Lock()
	e.onTransition = fn
	e.mu.Unlock()
}

// State reports the state of the export running under key, or StateIdle.
func (e *Exporter) State(key string) ExportState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.running[key]; ok {
		return s
	}
	return StateIdle
}

func (e *Exporter) begin(key string) bool {
	e.mu.Lock()
	if _, busy := e.running[key]; busy {
		e.mu.Unlock()
		return false
	}
	e.running[key] = StateCapturing
	hook := e.onTransition
	e.mu.Unlock()
	if hook != nil {
		hook(key, StateCapturing)
	}
	return true
}

func (e *Exporter) set(key string, s ExportState) {
	e.mu.Lock()
	if s == StateIdle {
		delete(e.running, key)
	} else {
		e.running[key] = s
	}
	hook := e.onTransition
	e.mu.Unlock()
	if hook != nil {
		hook(key, s)
	}
}

// Export renders doc in export mode, captures it, and packages the raster as
// one PDF page. The document is never modified.
func (e *Exporter) Export(ctx context.Context, key, userID string, doc model.Resume) (*Export, error) {
	// Stored template ids are free-form; label metrics with the rendered one.
	template := string(render.Resolve(doc.Template))
	if !e.begin(key) {
		e.metrics.observeExport(template, string(KindBusy))
		return nil, NewError(KindBusy, "export rejected", ErrExportInProgress)
	}
	defer e.set(key, StateIdle)

	ctx, span := e.tracer.Start(ctx, "resume.export", trace.WithAttributes(
		attribute.String("resume.id", doc.ID),
		attribute.String("resume.template", template),
	))
	defer span.End()
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	log := e.log.With("resume_id", doc.ID, "user_id", userID)
	fail := func(err *ExportError) (*Export, error) {
		e.set(key, StateFailed)
		e.metrics.observeExport(template, string(err.Kind))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Msg)
		log.Error("export failed", "kind", err.Kind, "error", err)
		return nil, err
	}

	started := time.Now()
	raster, err := e.capture(ctx, doc)
	e.metrics.observeStage(StateCapturing, started)
	if err != nil {
		return fail(NewError(KindCapture, "capture rendered page", err))
	}

	e.set(key, StateEncoding)
	started = time.Now()
	jpg, fit, err := e.encode(ctx, raster)
	if err != nil {
		e.metrics.observeStage(StateEncoding, started)
		return fail(NewError(KindEncode, "encode raster", err))
	}
	pdf, err := e.pack(ctx, jpg)
	e.metrics.observeStage(StateEncoding, started)
	if err != nil {
		return fail(NewError(KindPackage, "package pdf", err))
	}

	out := &Export{FileName: FileName(doc.Title), PDF: pdf, Truncated: fit.Truncated}
	if fit.Truncated {
		log.Warn("content taller than one page was truncated")
	}
	out.ArchiveKey = e.store(ctx, log, userID, out)

	e.set(key, StateSaved)
	e.metrics.observeExport(template, "ok")
	log.Info("export complete", "file", out.FileName, "bytes", len(pdf))
	return out, nil
}

func (e *Exporter) capture(ctx context.Context, doc model.Resume) ([]byte, error) {
	ctx, span := e.tracer.Start(ctx, "resume.export.capture")
	defer span.End()

	_, page, err := render.Page(doc, render.Options{Mode: render.ModeExport})
	if err != nil {
		return nil, err
	}
	raster, err := e.capturer.Capture(ctx, page, Viewport{Width: PageWidthPx, Scale: e.opts.Scale})
	if err != nil {
		return nil, err
	}
	if len(raster) == 0 {
		return nil, errors.New("capturer returned an empty raster")
	}
	return raster, nil
}

func (e *Exporter) encode(ctx context.Context, raster []byte) ([]byte, Fit, error) {
	_, span := e.tracer.Start(ctx, "resume.export.encode")
	defer span.End()

	cfg, err := png.DecodeConfig(bytes.NewReader(raster))
	if err != nil {
		return nil, Fit{}, fmt.Errorf("decode raster header: %w", err)
	}
	if e.opts.MaxPixels > 0 && cfg.Width*cfg.Height > e.opts.MaxPixels {
		return nil, Fit{}, fmt.Errorf("raster %dx%d exceeds %d pixels", cfg.Width, cfg.Height, e.opts.MaxPixels)
	}
	img, err := png.Decode(bytes.NewReader(raster))
	if err != nil {
		return nil, Fit{}, fmt.Errorf("decode raster: %w", err)
	}

	b := img.Bounds()
	fit := FitToPage(b.Dx(), b.Dy(), e.opts.Page)
	if fit.CropHeight == 0 {
		return nil, Fit{}, errors.New("raster is empty")
	}
	span.SetAttributes(attribute.Bool("export.truncated", fit.Truncated))

	var buf bytes.Buffer
	crop := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+fit.CropHeight)
	if err := jpeg.Encode(&buf, flatten(img, crop), &jpeg.Options{Quality: e.opts.JPEGQuality}); err != nil {
		return nil, Fit{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), fit, nil
}

// flatten copies r out of img onto an opaque white canvas.
func flatten(img image.Image, r image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Over)
	return dst
}

func (e *Exporter) pack(ctx context.Context, jpg []byte) ([]byte, error) {
	_, span := e.tracer.Start(ctx, "resume.export.package")
	defer span.End()

	imp, err := api.Import(fmt.Sprintf("formsize:%s, position:tl, scalefactor:1.0 rel", e.opts.Page.Name), types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("import settings: %w", err)
	}
	conf := pdfmodel.NewDefaultConfiguration()

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, []io.Reader{bytes.NewReader(jpg)}, imp, conf); err != nil {
		return nil, fmt.Errorf("import image: %w", err)
	}
	pdf := out.Bytes()

	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return nil, fmt.Errorf("invalid PDF output (len=%d)", len(pdf))
	}
	pages, err := api.PageCount(bytes.NewReader(pdf), conf)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}
	if pages != 1 {
		return nil, fmt.Errorf("expected 1 page, got %d", pages)
	}
	return pdf, nil
}

// store archives the PDF when storage is configured. Failures are logged
// and otherwise ignored.
func (e *Exporter) store(ctx context.Context, log *slog.Logger, userID string, out *Export) string {
	if e.archive == nil {
		return ""
	}
	key := storage.ResumeKey(userID, out.FileName)
	_, err := e.archive.Put(ctx, key, bytes.NewReader(out.PDF), storage.PutObjectOptions{
		Size:        int64(len(out.PDF)),
		ContentType: "application/pdf",
	})
	if err != nil {
		log.Warn("archive export failed", "key", key, "error", err)
		return ""
	}
	return key
}
