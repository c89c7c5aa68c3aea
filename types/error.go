/*
 * NanoMint
 *
 * Copyright NanoMint Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"fmt"
	"time"
)

// InvalidInputError is returned when a request is rejected before any
// network call is made.
type InvalidInputError struct {
	Reason string
}

func NewInvalidInputError(reason string) *InvalidInputError {
	return &InvalidInputError{Reason: reason}
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// AuthError wraps an upstream authentication failure.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("upstream authentication failed: %s", e.Err.Error())
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// QuotaExceededError wraps an upstream billing/quota failure. Unlike the
// other generation errors it carries remediation guidance, because the fix
// (enabling billing and requesting quota) happens outside this system.
type QuotaExceededError struct {
	Err error
}

func (e *QuotaExceededError) Error() string {
	return "generation quota exceeded: " + e.Err.Error()
}

func (e *QuotaExceededError) Unwrap() error {
	return e.Err
}

// Details returns the remediation description shown to the user.
func (e *QuotaExceededError) Details() string {
	return "Your API key doesn't have access to image generation. " +
		"Please enable billing and request quota increase for " +
		"'generativelanguage.googleapis.com' in Google Cloud Console."
}

// Help returns step-by-step remediation instructions.
func (e *QuotaExceededError) Help() string {
	return "1. Go to Google Cloud Console → Billing → Enable Billing\n" +
		"2. Go to APIs & Services → Quotas → Find 'Generative Language API'\n" +
		"3. Request quota increase for image generation"
}

// Link returns the console URL where remediation starts.
func (e *QuotaExceededError) Link() string {
	return "https://console.cloud.google.com/billing"
}

// RetryAfter describes when a retry could succeed.
func (e *QuotaExceededError) RetryAfter() string {
	return "Not applicable - requires billing setup"
}

// SafetyRejectedError indicates the upstream model refused the prompt on
// policy grounds.
type SafetyRejectedError struct {
	Err error
}

func (e *SafetyRejectedError) Error() string {
	return "content violates safety guidelines"
}

func (e *SafetyRejectedError) Unwrap() error {
	return e.Err
}

// UpstreamError is the catch-all for generation failures that survived the
// full model fallback list without matching a more specific class.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation failed: %s", e.Err.Error())
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NoCandidatesError indicates the model returned an empty candidate list.
type NoCandidatesError struct{}

func (e *NoCandidatesError) Error() string {
	return "no response generated from AI"
}

// MalformedResponseError indicates the model response lacked the expected
// content structure.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("invalid response format from AI: %s", e.Reason)
}

// NoImageError indicates a structurally valid response containing no
// binary image part.
type NoImageError struct{}

func (e *NoImageError) Error() string {
	return "no image was generated"
}

// FetchError is returned when dereferencing a metadata locator yields a
// non-2xx HTTP status.
type FetchError struct {
	URL    string
	Status int
}

func NewFetchError(url string, status int) *FetchError {
	return &FetchError{URL: url, Status: status}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("metadata fetch failed: HTTP %d from %s", e.Status, e.URL)
}

// ParseError is returned when a fetched metadata document is not valid JSON.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("metadata parse failed for %s: %s", e.URL, e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidLocatorError is returned when the storage boundary hands back a
// locator that is neither content-addressed nor an HTTP URL.
type InvalidLocatorError struct {
	Locator string
}

func (e *InvalidLocatorError) Error() string {
	return fmt.Sprintf("invalid storage locator returned: %q", e.Locator)
}

// TimeoutError indicates the mint transaction did not resolve within the
// configured deadline.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transaction timeout after %s", e.After)
}

// TransactionError wraps a rejected or reverted mint transaction.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction failed: %s", e.Err.Error())
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// MissingHashError indicates a transaction that apparently succeeded but
// produced no hash, which callers must treat as a failure.
type MissingHashError struct{}

func (e *MissingHashError) Error() string {
	return "transaction completed but no hash received"
}
