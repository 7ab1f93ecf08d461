// Package search debounces search-as-you-type input into server queries.
//
// The controller holds one timer. Every keystroke rearms it, so only the
// last keystroke in a quiet window (300ms by default) issues a request.
// Issued requests carry a monotonically increasing sequence number and a
// response is applied only while its sequence is still the newest and its
// query still matches the current input text; a slower response for an
// earlier query is discarded silently, including during the window where
// newer input has rearmed the timer but not yet fired. Closing the
// controller on view unmount cancels the pending timer and renders any
// in-flight response a no-op.
//
// Transport failures surface as a display string on the delivered Result
// and clear the result set; they never propagate past the controller.
package search
