// Package editing provides interfaces and supporting logic for interacting
// with external generative image-editing services. It abstracts the details
// of the image API integration (Gemini), allowing the application to submit
// queued images for editing without coupling to a specific external service.
//
// The package owns three concerns: the Editor boundary interface, assembly of
// outbound edit requests from queue items (instruction composition, aspect
// ratio matching, dimension probing), and classification of raw failures into
// the small set of user-facing error categories the run loop acts on.
package editing
