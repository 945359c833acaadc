// Package events provides types and interfaces for lifecycle notifications.
//
// The processing loop emits an event for every run and item transition, and
// handlers subscribe without the loop knowing who listens. This keeps the
// queue processor decoupled from logging and any future push surface while
// still giving observers a complete picture of a run.
//
// The primary components are:
//   - Event: one run or item transition, with a JSON payload
//   - Handler: interface for components that consume events
//   - Emitter: interface for components that publish events
package events
