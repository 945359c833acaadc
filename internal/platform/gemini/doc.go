// Package gemini provides an implementation of the editing.Editor interface
// that uses Google's Gemini image model to apply edit instructions to
// uploaded images.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's processing loop to Google's external service.
// It translates between the application's edit requests and the Gemini API
// without exposing the details of the external service to the core
// application.
//
// Key responsibilities:
//
//  1. Request translation: inline image bytes plus instruction text become
//     a single multimodal generate call, carrying the requested aspect
//     ratio and output resolution tier.
//
//  2. Response processing: the first inline image part of the response is
//     extracted as the edit result; a response with no image parts is an
//     error.
//
//  3. Error translation: API failures are mapped onto the editing package's
//     sentinel errors so the processing loop can classify them without
//     knowing which provider produced them. No retries happen here; a
//     failure is reported once and recorded on the item.
//
// The package depends on the google.golang.org/genai client library and
// reads the API key from the shared credential state on every call, so a
// re-authorized key takes effect without restarting the server.
package gemini
