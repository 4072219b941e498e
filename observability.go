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

package navigator

import "context"

// ObservabilityRecorder provides hooks for recording navigation
// telemetry. Implementations should be lightweight and non-blocking, as
// these hooks are on the navigation path.
//
// The recorder follows a Start/Shutdown lifecycle managed by the engine:
// Start is called from [Engine.Start], Shutdown from [Engine.Stop].
//
// The state value returned by OnNavigationStart is passed back to
// OnNavigationEnd, letting implementations carry per-navigation data
// (start time, span handles) without a side table.
type ObservabilityRecorder interface {
	// Start initializes the recorder (starts exporters, binds listeners).
	Start(ctx context.Context) error

	// Shutdown flushes and releases recorder resources.
	Shutdown(ctx context.Context) error

	// OnNavigationStart is called when a navigation begins, with the raw
	// navigation index. The returned context propagates to guards.
	OnNavigationStart(ctx context.Context, index string) (context.Context, any)

	// OnNavigationEnd is called when a navigation reaches a terminal
	// status. template is the matched route template, or empty when
	// nothing matched; err is non-nil only for StatusException.
	OnNavigationEnd(ctx context.Context, state any, template string, status Status, err error)
}
