// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The annotation tracker, overlay positioner and the two search
// sessions each own their state behind a mutex; pure computations
// (mark rebuilding, overlap correlation, line scanning) live in
// package-level functions so they can be tested without a session.
package services
