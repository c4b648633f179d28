package convert

import "fmt"

// DecodeError reports input that does not conform to its declared format.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors.Cause walk through the error.
func (e *DecodeError) Cause() error { return e.Err }

// EncodeError reports a tree the output format cannot represent.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

func (e *EncodeError) Cause() error { return e.Err }

// UnsupportedError reports a format pair the pipeline does not handle.
type UnsupportedError struct {
	In, Out Format
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported conversion %s -> %s", e.In, e.Out)
}
