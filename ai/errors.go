// Copyright 2025 Poiesic Systems
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


package ai

import "errors"

var (
	// ErrRateLimited indicates the provider rejected the call for exceeding
	// its rate limit. The call may succeed when retried after a delay.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrTimeout indicates the provider did not answer in time.
	// The call may succeed when retried.
	ErrTimeout = errors.New("provider timeout")

	// ErrProviderUnavailable indicates the provider could not be reached.
	// The call may succeed when retried.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrInvalidResponse indicates the provider answered with output that
	// could not be parsed even after repair attempts. Retrying with the
	// same input is unlikely to help.
	ErrInvalidResponse = errors.New("invalid provider response")

	// ErrInvalidPayload indicates the input was rejected by the provider,
	// for example an image in an unsupported format. Not retryable.
	ErrInvalidPayload = errors.New("invalid provider payload")
)

// IsTransient reports whether the error is worth retrying: rate limits,
// timeouts and unreachable providers pass, malformed input and output do not.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrProviderUnavailable)
}
