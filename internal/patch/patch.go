// Package patch parses JSON Patch documents and applies them to a value
// through its JSON representation.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// OpKind is the kind of a patch operation.
type OpKind string

const (
	OpAdd     OpKind = "add"
	OpRemove  OpKind = "remove"
	OpReplace OpKind = "replace"
	OpMove    OpKind = "move"
	OpCopy    OpKind = "copy"
	OpTest    OpKind = "test"
)

// ErrInvalidDocument is returned by Parse for absent, empty or malformed documents.
var ErrInvalidDocument = errors.New("invalid patch document")

// Operation is a single patch step.
type Operation struct {
	Op    OpKind          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Document is an ordered list of operations.
type Document []Operation

// Error reports the operation that could not be applied.
type Error struct {
	Index int
	Op    OpKind
	Path  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("patch operation %d (%s %s): %v", e.Index, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parse decodes and checks a patch document. It fails on an absent or empty
// operation list before anything is applied.
func Parse(body []byte) (Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: body is empty", ErrInvalidDocument)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: no operations", ErrInvalidDocument)
	}

	for i, op := range doc {
		if err := op.check(); err != nil {
			return nil, fmt.Errorf("%w: operation %d: %v", ErrInvalidDocument, i, err)
		}
	}
	return doc, nil
}

func (op Operation) check() error {
	switch op.Op {
	case OpAdd, OpReplace, OpTest:
		if op.Value == nil {
			return fmt.Errorf("%q requires a value", op.Op)
		}
	case OpMove, OpCopy:
		if !isPointer(op.From) {
			return fmt.Errorf("from %q is not a JSON pointer", op.From)
		}
	case OpRemove:
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
	if !isPointer(op.Path) {
		return fmt.Errorf("path %q is not a JSON pointer", op.Path)
	}
	return nil
}

func isPointer(p string) bool {
	return p == "" || strings.HasPrefix(p, "/")
}

// Apply runs the document against target, which must be a non-nil pointer.
// target is only overwritten when every operation succeeded and the result
// decodes back into target's type without unknown fields.
func (d Document) Apply(target interface{}) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("patch target must be a non-nil pointer")
	}
	if len(d) == 0 {
		return nil
	}

	patched, err := json.Marshal(target)
	if err != nil {
		return fmt.Errorf("failed to encode patch target: %w", err)
	}

	options := jsonpatch.NewApplyOptions()
	options.SupportNegativeIndices = false

	// One operation at a time, so failures name the operation that caused them.
	for i, op := range d {
		raw, err := json.Marshal([]Operation{op})
		if err != nil {
			return &Error{Index: i, Op: op.Op, Path: op.Path, Err: err}
		}
		step, err := jsonpatch.DecodePatch(raw)
		if err != nil {
			return &Error{Index: i, Op: op.Op, Path: op.Path, Err: err}
		}
		patched, err = step.ApplyWithOptions(patched, options)
		if err != nil {
			return &Error{Index: i, Op: op.Op, Path: op.Path, Err: err}
		}
	}

	fresh := reflect.New(rv.Elem().Type())
	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.DisallowUnknownFields()
	if err := dec.Decode(fresh.Interface()); err != nil {
		last := len(d) - 1
		return &Error{Index: last, Op: d[last].Op, Path: d[last].Path, Err: err}
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}
