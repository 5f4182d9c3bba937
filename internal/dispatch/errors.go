package dispatch

import "errors"

// Sentinel errors returned by the dispatch layer.
var (
	// ErrMalformedPayload indicates an inbound state report could not be
	// decoded.
	ErrMalformedPayload = errors.New("dispatch: malformed payload")

	// ErrUnknownPlayer indicates a state report carried no resolvable
	// player ID.
	ErrUnknownPlayer = errors.New("dispatch: unknown player")

	// ErrDispatchFailed indicates a command could not be handed to the bus.
	ErrDispatchFailed = errors.New("dispatch: command dispatch failed")
)
