package checker

import "errors"

var (
	// ErrConfiguration signals an unknown provider, a missing credential or
	// an invalid task selection. Never retried.
	ErrConfiguration = errors.New("checker: configuration error")

	// ErrUpstreamCall signals a network, auth or rate-limit failure from the LLM provider.
	ErrUpstreamCall = errors.New("checker: upstream call failed")

	// ErrUpstreamFormat signals model output that is not valid JSON.
	ErrUpstreamFormat = errors.New("checker: upstream returned malformed output")
)
