// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between the queue store, the edit
// processor, and the credential state to fulfill application features.
//
// The service package implements the application layer in the clean
// architecture, coordinating the flow of data between the HTTP surface and
// the domain layer. It abstracts away infrastructure details while
// orchestrating domain entities to fulfill business requirements.
//
// Key components:
//
//  1. QueueService: upload intake, queue inspection and mutation, run
//     control, and result export including thumbnail rendering.
//
//  2. credential (subpackage): process-wide state of the upstream API key.
//
// Services receive dependencies through constructor injection and return
// sentinel errors for expected conditions; the API layer maps those onto
// HTTP status codes.
package service
