// Package onboarding implements the first-run wizard of selfemploy.
//
// The wizard walks a new user through four screens:
//
//  1. Welcome
//  2. Identity (name and optional Unique Taxpayer Reference)
//  3. Tax year (the year in progress is pre-selected)
//  4. Business type (the configured default is pre-selected)
//
// Step data is held as one payload variant per step. Validate only ever sees the
// payload of the step it is asked about, and the Wizard is the single owner of
// the State: every mutation and transition goes through it.
//
// Rejected transitions never change state. Callers can ask first (CanAdvance,
// CanBack, CanSkip, CanComplete) or attempt the transition and inspect the
// returned sentinel error.
//
// The package is synchronous and has no locking; a Wizard belongs to a single
// event loop.
package onboarding
