package parser

import (
	"fmt"
	"strings"

	"github.com/cloudcmds/refit/internal/token"
)

// ErrorOpts is a struct that holds a variety of error data. All fields are
// optional, although one of `Cause` or `Message` are recommended. If
// `Cause` is set, `Message` will be ignored.
type ErrorOpts struct {
	ErrType       string
	Message       string
	Cause         error
	File          string
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
}

// ParserError is an interface that all parser errors implement.
type ParserError interface {
	Type() string
	Message() string
	Cause() error
	File() string
	StartPosition() token.Position
	EndPosition() token.Position
	SourceCode() string
	Error() string
}

// NewParserError returns a new BaseParserError populated with the given
// error data.
func NewParserError(opts ErrorOpts) *BaseParserError {
	return &BaseParserError{
		errType:       opts.ErrType,
		message:       opts.Message,
		cause:         opts.Cause,
		file:          opts.File,
		startPosition: opts.StartPosition,
		endPosition:   opts.EndPosition,
		sourceCode:    opts.SourceCode,
	}
}

// NewSyntaxError returns a parser error of type "syntax error".
func NewSyntaxError(opts ErrorOpts) *BaseParserError {
	opts.ErrType = "syntax error"
	return NewParserError(opts)
}

// BaseParserError is the simplest implementation of ParserError.
type BaseParserError struct {
	errType       string
	message       string
	cause         error
	file          string
	startPosition token.Position
	endPosition   token.Position
	sourceCode    string
}

func (e *BaseParserError) Type() string                  { return e.errType }
func (e *BaseParserError) Cause() error                  { return e.cause }
func (e *BaseParserError) File() string                  { return e.file }
func (e *BaseParserError) StartPosition() token.Position { return e.startPosition }
func (e *BaseParserError) EndPosition() token.Position   { return e.endPosition }
func (e *BaseParserError) SourceCode() string            { return e.sourceCode }

func (e *BaseParserError) Message() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.message
}

func (e *BaseParserError) Error() string {
	msg := e.Message()
	if e.errType != "" {
		msg = fmt.Sprintf("%s: %s", e.errType, msg)
	}
	if e.file != "" {
		return fmt.Sprintf("%s (%s:%d)", msg, e.file, e.startPosition.LineNumber())
	}
	return fmt.Sprintf("%s (line %d)", msg, e.startPosition.LineNumber())
}

func (e *BaseParserError) Unwrap() error { return e.cause }

// Errors groups one or more parser errors into a single error value.
type Errors struct {
	errs []ParserError
}

// NewErrors returns an Errors value wrapping the given parser errors.
func NewErrors(errs []ParserError) *Errors {
	return &Errors{errs: errs}
}

// All returns the individual parser errors.
func (e *Errors) All() []ParserError {
	return e.errs
}

func (e *Errors) Error() string {
	if len(e.errs) == 1 {
		return e.errs[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d parse errors:", len(e.errs))
	for _, err := range e.errs {
		sb.WriteString("\n  " + err.Error())
	}
	return sb.String()
}

func (e *Errors) Unwrap() error {
	if len(e.errs) > 0 {
		return e.errs[0]
	}
	return nil
}
