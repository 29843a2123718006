package history

import "fmt"

// StorageError reports that the persisted record could not be read,
// parsed or written.
type StorageError struct {
	Op   string // "read", "parse" or "write"
	Path string
	Err  error
	Hint string // Suggested fix, if any
}

func (e *StorageError) Error() string {
	msg := fmt.Sprintf("history %s failed: %s", e.Op, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += "\n💡 " + e.Hint
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
