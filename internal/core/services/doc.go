// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// IngestService and AnswerService never hold an index: callers pass the
// handle explicitly, and Session is the helper that keeps one per user.
package services
