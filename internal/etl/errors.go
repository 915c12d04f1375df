package etl

import "fmt"

// TransferError: the source file could not be retrieved. Nothing was
// written to the database.
type TransferError struct {
	URL string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s: %v", e.URL, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// MalformedInputError: the file is not a loadable CSV. Raised by the prober
// before any database mutation, or by the loader if a later read disagrees.
type MalformedInputError struct {
	Path string
	Err  error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %s: %v", e.Path, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// ConnectionError: the database could not be reached. Target is the
// redacted connection URL.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// WriteError: creating the table or appending a batch failed. Inserted
// counts the rows committed by earlier batches; they are not rolled back.
type WriteError struct {
	Table    string
	Inserted int64
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s (inserted %d rows before failure): %v", e.Table, e.Inserted, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
