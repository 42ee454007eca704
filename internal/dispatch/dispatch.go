// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dispatch is the single entry point that turns a question into an
// answer: validate, classify, then run the matched extractor or fall back
// to the generative resolver.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/answer-engine/internal/classify"
	"github.com/pdiddy/answer-engine/internal/fallback"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// MsgNoQuestion is the answer for a request without a question.
const MsgNoQuestion = "No question provided"

// RouteFallback names the route taken when no binding matches.
const RouteFallback = "fallback"

// Dispatcher routes questions. It holds no per-request state and is safe for
// concurrent use.
type Dispatcher struct {
	catalogue *classify.Catalogue
	resolver  fallback.Resolver
	logger    *zap.Logger
}

// New creates a Dispatcher. A nil logger disables logging; a nil catalogue
// sends every question to the resolver.
func New(catalogue *classify.Catalogue, resolver fallback.Resolver, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalogue == nil {
		catalogue = classify.MustCatalogue()
	}
	return &Dispatcher{catalogue: catalogue, resolver: resolver, logger: logger}
}

// Catalogue returns the binding table used for classification.
func (d *Dispatcher) Catalogue() *classify.Catalogue {
	return d.catalogue
}

// Route reports which binding would answer q, or RouteFallback.
func (d *Dispatcher) Route(q types.Question) string {
	if b, ok := d.catalogue.Classify(q); ok {
		return b.Name
	}
	return RouteFallback
}

// Answer produces the answer for q and the optional upload. Exactly one
// extractor or the resolver runs, once; nothing is retried and no deadline
// is added beyond what ctx carries.
func (d *Dispatcher) Answer(ctx context.Context, q types.Question, file *types.UploadedFile) (res types.Result) {
	if q.IsEmpty() {
		return types.Failure(types.KindCallerError, MsgNoQuestion, nil)
	}

	start := time.Now()
	route := RouteFallback
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in %s: %v", route, r)
			d.logger.Error("extractor panicked", zap.String("route", route), zap.Any("panic", r), zap.Stack("stack"))
			res = types.Failure(types.KindExecutionError, "Failed to answer the question: internal error", err)
		}
		d.log(route, res, file, time.Since(start))
	}()

	if b, ok := d.catalogue.Classify(q); ok {
		route = b.Name
		return b.Extractor.Extract(ctx, q, file)
	}

	answer, err := d.resolver.Resolve(ctx, q)
	if err != nil {
		return types.Failure(types.KindExternalService, "Failed to get an answer: "+err.Error(), err)
	}
	return types.OK(answer)
}

func (d *Dispatcher) log(route string, res types.Result, file *types.UploadedFile, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("route", route),
		zap.Duration("latency", elapsed),
	}
	if file != nil {
		fields = append(fields, zap.String("file", file.Name), zap.Int64("file_bytes", file.Size()))
	}
	if !res.Failed() {
		d.logger.Info("answered", fields...)
		return
	}
	fields = append(fields, zap.String("kind", string(res.Kind)))
	if res.Err != nil {
		fields = append(fields, zap.Error(res.Err))
	}
	d.logger.Warn("answer failed", fields...)
}
