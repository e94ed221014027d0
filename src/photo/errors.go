package photo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind identifies a failure class of the import pipeline.
type ErrorKind string

const (
	KindPathNotFound           ErrorKind = "PathNotFound"
	KindMetadataError          ErrorKind = "MetadataError"
	KindIoError                ErrorKind = "IoError"
	KindInvalidFileName        ErrorKind = "InvalidFileName"
	KindCacheDirUnavailable    ErrorKind = "CacheDirUnavailable"
	KindExtractionFailed       ErrorKind = "ExtractionFailed"
	KindToolInvocationFailed   ErrorKind = "ToolInvocationFailed"
	KindDateNotFound           ErrorKind = "DateNotFound"
	KindDestinationUnavailable ErrorKind = "DestinationUnavailable"
	KindConversionFailed       ErrorKind = "ConversionFailed"
	KindCopyFailed             ErrorKind = "CopyFailed"
	KindDeleteFailed           ErrorKind = "DeleteFailed"
	KindToolTimeout            ErrorKind = "ToolTimeout"
)

// Sentinels for errors.Is. Every *Error unwraps to the sentinel of its kind.
var (
	ErrPathNotFound           = kindError(KindPathNotFound)
	ErrMetadataError          = kindError(KindMetadataError)
	ErrIoError                = kindError(KindIoError)
	ErrInvalidFileName        = kindError(KindInvalidFileName)
	ErrCacheDirUnavailable    = kindError(KindCacheDirUnavailable)
	ErrExtractionFailed       = kindError(KindExtractionFailed)
	ErrToolInvocationFailed   = kindError(KindToolInvocationFailed)
	ErrDateNotFound           = kindError(KindDateNotFound)
	ErrDestinationUnavailable = kindError(KindDestinationUnavailable)
	ErrConversionFailed       = kindError(KindConversionFailed)
	ErrCopyFailed             = kindError(KindCopyFailed)
	ErrDeleteFailed           = kindError(KindDeleteFailed)
	ErrToolTimeout            = kindError(KindToolTimeout)
)

type sentinel struct{ kind ErrorKind }

func (s *sentinel) Error() string { return string(s.kind) }

func kindError(k ErrorKind) error { return &sentinel{kind: k} }

var sentinels = map[ErrorKind]error{
	KindPathNotFound:           ErrPathNotFound,
	KindMetadataError:          ErrMetadataError,
	KindIoError:                ErrIoError,
	KindInvalidFileName:        ErrInvalidFileName,
	KindCacheDirUnavailable:    ErrCacheDirUnavailable,
	KindExtractionFailed:       ErrExtractionFailed,
	KindToolInvocationFailed:   ErrToolInvocationFailed,
	KindDateNotFound:           ErrDateNotFound,
	KindDestinationUnavailable: ErrDestinationUnavailable,
	KindConversionFailed:       ErrConversionFailed,
	KindCopyFailed:             ErrCopyFailed,
	KindDeleteFailed:           ErrDeleteFailed,
	KindToolTimeout:            ErrToolTimeout,
}

// Error is the error type returned by every pipeline component.
// Output carries the raw diagnostic text of an external tool, if any.
type Error struct {
	Kind   ErrorKind
	Path   string
	Output string
	Err    error
}

// NewError builds an *Error of the given kind.
func NewError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Path != "" {
		fmt.Fprintf(&b, " %q", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString(": ")
		b.WriteString(out)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := sentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
