// Package store defines interfaces for queue data access. These interfaces
// abstract the underlying storage mechanism from the application's core
// logic, so the processing loop and HTTP layer stay independent of how the
// queue is actually held in memory.
package store
