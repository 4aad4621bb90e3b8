package sentinel

import "errors"

// ErrNotFound is returned, usually wrapped, when a backing resource such as
// the template or the reference export does not exist.
var ErrNotFound = errors.New("not found")
