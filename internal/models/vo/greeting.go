// Package vo defines view objects exposed to upper layers.
package vo

// Greeting is the result of greeting a single caller.
type Greeting struct {
	Name    string
	Message string
}
