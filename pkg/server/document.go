package server

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/bindery/pkg/bind"
	"github.com/vango-dev/bindery/pkg/dom"
)

// TracerName is the instrumentation name used for operation spans.
const TracerName = "github.com/vango-dev/bindery/pkg/server"

// Document is a bound element tree shared by all clients. The binding
// core is single-threaded; Document serializes every access to it.
type Document struct {
	mu      sync.Mutex
	root    *dom.Node
	core    *bind.Core
	render  dom.RenderConfig
	version uint64
	tracer  trace.Tracer
}

// NewDocument wraps root, already mounted into core.
func NewDocument(root *dom.Node, core *bind.Core, render dom.RenderConfig) *Document {
	return &Document{
		root:   root,
		core:   core,
		render: render,
		tracer: otel.Tracer(TracerName),
	}
}

// WithTracer replaces the tracer used for operation spans.
func (d *Document) WithTracer(t trace.Tracer) *Document {
	d.tracer = t
	return d
}

// Apply runs op against the core and returns its result and the document
// version after the operation. Failed operations leave the version
// unchanged.
func (d *Document) Apply(ctx context.Context, op Op) (any, uint64, error) {
	_, span := d.tracer.Start(ctx, "bindery.op "+op.Op,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("bindery.op", op.Op),
			attribute.String("bindery.ref", op.Ref),
		),
	)
	defer span.End()

	d.mu.Lock()
	defer d.mu.Unlock()

	result, err := op.apply(d.core)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, d.version, err
	}
	d.version++
	span.SetStatus(codes.Ok, "")
	span.SetAttributes(attribute.Int64("bindery.version", int64(d.version)))
	return result, d.version, nil
}

// HTML renders the whole document.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return dom.RenderString(d.root, d.render)
}

// Body renders the content of the document's <body>, or of the root when
// there is none, and returns it with the current version.
func (d *Document) Body() (string, uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	host := d.root.FindElement("body")
	if host == nil {
		host = d.root
	}
	cfg := d.render
	cfg.Doctype = false
	var b strings.Builder
	for _, c := range host.Children() {
		if err := dom.Render(&b, c, cfg); err != nil {
			return "", d.version, err
		}
	}
	return b.String(), d.version, nil
}

// Data calls fn with the core's data while holding the document lock.
func (d *Document) Data(fn func(data any) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.core.Data())
}
