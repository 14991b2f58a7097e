package tui

import "errors"

// ErrMissingWorkspace is returned when the workspace port is not provided.
var ErrMissingWorkspace = errors.New("tui: workspace is required")

// ErrMissingSearchService is returned when the workspace search service is not provided.
var ErrMissingSearchService = errors.New("tui: workspace search service is required")

// ErrMissingDocViewFactory is returned when the document view factory is not provided.
var ErrMissingDocViewFactory = errors.New("tui: document view factory is required")

// ErrMissingSessionFactories is returned when the per-document session factories are not provided.
var ErrMissingSessionFactories = errors.New("tui: tracker, document search and overlay factories are required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
