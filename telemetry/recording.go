// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/navigator"
)

// unmatchedTemplate is the template label for navigations no route
// claimed, keeping label cardinality bounded for arbitrary addresses.
const unmatchedTemplate = "_unmatched"

// navState carries per-navigation data from OnNavigationStart to
// OnNavigationEnd.
type navState struct {
	start time.Time
	span  trace.Span
}

func (r *Recorder) initInstruments() error {
	var err error

	r.navigationCount, err = r.meter.Int64Counter(
		"navigator.navigations",
		metric.WithDescription("Completed navigations by status and route template"),
		metric.WithUnit("{navigation}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create navigation counter: %w", err)
	}

	r.navigationDuration, err = r.meter.Float64Histogram(
		"navigator.navigation.duration",
		metric.WithDescription("Navigation duration from start to terminal status"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	r.activeNavigations, err = r.meter.Int64UpDownCounter(
		"navigator.navigations.active",
		metric.WithDescription("Navigations currently in flight"),
		metric.WithUnit("{navigation}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create active navigations counter: %w", err)
	}

	r.failureCount, err = r.meter.Int64Counter(
		"navigator.navigation.failures",
		metric.WithDescription("Navigations terminating with an exception status"),
		metric.WithUnit("{navigation}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create failure counter: %w", err)
	}

	return nil
}

// OnNavigationStart implements navigator.ObservabilityRecorder.
func (r *Recorder) OnNavigationStart(ctx context.Context, index string) (context.Context, any) {
	state := &navState{start: time.Now()}

	r.activeNavigations.Add(ctx, 1, metric.WithAttributes(r.appNameAttr, r.appVersionAttr))

	if r.tracer != nil {
		ctx, state.span = r.tracer.Start(ctx, "navigator.navigate",
			trace.WithAttributes(
				r.appNameAttr,
				r.appVersionAttr,
				attribute.String("navigator.index", index),
			),
		)
	}
	return ctx, state
}

// OnNavigationEnd implements navigator.ObservabilityRecorder.
func (r *Recorder) OnNavigationEnd(ctx context.Context, state any, template string, status navigator.Status, err error) {
	ns, ok := state.(*navState)
	if !ok {
		return
	}

	if template == "" {
		template = unmatchedTemplate
	}
	elapsed := time.Since(ns.start).Seconds()

	r.activeNavigations.Add(ctx, -1, metric.WithAttributes(r.appNameAttr, r.appVersionAttr))

	attrs := metric.WithAttributes(
		r.appNameAttr,
		r.appVersionAttr,
		attribute.String("status", status.String()),
		attribute.String("template", template),
	)
	r.navigationCount.Add(ctx, 1, attrs)
	r.navigationDuration.Record(ctx, elapsed, attrs)
	if status == navigator.StatusException {
		r.failureCount.Add(ctx, 1, attrs)
	}

	if ns.span != nil {
		ns.span.SetAttributes(
			attribute.String("navigator.status", status.String()),
			attribute.String("navigator.template", template),
		)
		if err != nil {
			ns.span.RecordError(err)
			ns.span.SetStatus(codes.Error, status.String())
		}
		ns.span.End()
	}
}
