package terminal

import "fmt"

// Error carries the provider's own HTTP status and error code so the
// handlers can pass 4xx failures through unchanged.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("terminal: %s (%s)", e.Message, e.Code)
	}
	return "terminal: " + e.Message
}
