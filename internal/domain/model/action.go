package model

// ActionResult reports the outcome of an invoice mutation.
//
// A non-empty Redirect instructs the caller to navigate instead of rendering.
// Message carries the user-facing text; Failed marks it as a persistence failure.
type ActionResult struct {
	Message  string
	Redirect string
	Failed   bool
}
