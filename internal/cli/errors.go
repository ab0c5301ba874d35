package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type invalidActionError struct {
	input  string
	reason string
}

func (e invalidActionError) Error() string {
	return fmt.Sprintf("invalid action %q: %s", e.input, e.reason)
}

func errInvalidAction(input, reason string) error {
	return invalidActionError{input: input, reason: reason}
}
