package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrExpired: presence session has passed its expiry
// - ErrConflict: a concurrent writer won (e.g. Redis WATCH failure)
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: store or broker temporarily unavailable
//
// Incomplete onboarding fields are never errors; they are progress query results.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
