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

// Status is the terminal state of a navigation. Navigations never fail by
// returning an error; callers inspect the status instead.
type Status uint8

const (
	// StatusSuccess means the navigation committed and the live location
	// was updated.
	StatusSuccess Status = iota

	// StatusAborted means a before-guard rejected the navigation.
	StatusAborted

	// StatusCancelled means a newer navigation superseded this one
	// before it could commit.
	StatusCancelled

	// StatusDuplicated means the target was structurally identical to
	// the current location; no guards ran and no history was written.
	StatusDuplicated

	// StatusNotMatched means no route matched the target. The address is
	// still persisted so the URL reflects the attempted navigation.
	StatusNotMatched

	// StatusException means a guard, redirect resolver, or history
	// backend failed; the captured error is in [Result.Err] and the live
	// location is unmodified.
	StatusException
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusAborted:
		return "aborted"
	case StatusCancelled:
		return "cancelled"
	case StatusDuplicated:
		return "duplicated"
	case StatusNotMatched:
		return "not_matched"
	case StatusException:
		return "exception"
	default:
		return "unknown"
	}
}

// Result reports the outcome of one navigation.
type Result struct {
	// Status is the terminal state.
	Status Status

	// Message is a human-readable description of the outcome.
	Message string

	// To is a snapshot of the destination location. For committed
	// navigations this equals the live location at commit time.
	To *Location

	// From is a snapshot of the location before the navigation started.
	From *Location

	// RedirectFrom is the original target when a route redirect or a
	// guard changed the destination, nil otherwise.
	RedirectFrom *Target

	// Err is the captured error for StatusException results.
	Err error
}

// OK reports whether the navigation committed.
func (r Result) OK() bool { return r.Status == StatusSuccess }
