// Package task manages background processing of the edit queue. A run walks
// the items that were eligible when it started, one edit call at a time,
// and records each outcome on the item before moving to the next. Runs
// execute asynchronously so they don't block HTTP request handling; at most
// one run is in flight per process.
package task
