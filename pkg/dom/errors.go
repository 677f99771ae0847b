package dom

import (
	"errors"
	"fmt"
)

// ErrDetached is returned when writing to a node that is no longer attached
// to a document.
var ErrDetached = errors.New("dom: node is not connected to a document")

// PropertyError reports a property write a node type does not support.
type PropertyError struct {
	Name string
	Type NodeType
}

// Error implements the error interface.
func (e *PropertyError) Error() string {
	return fmt.Sprintf("dom: cannot set property %q on %s node", e.Name, e.Type)
}
