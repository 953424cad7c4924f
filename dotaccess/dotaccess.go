// Package dotaccess provides get/set/delete access to nested documents made of
// map[string]any and []any using a single dotted path.
//
// Path segments that parse as integers address sequence elements (negative
// indices count from the end). The special segment "[]" appends a new element.
// An integer-castable segment is never accepted as a mapping key, so
// "a.0" on {"a": {"0": x}} fails with ErrAmbiguousKey instead of being
// resolved silently.
package dotaccess

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// AppendSegment is the path segment that appends to a sequence.
const AppendSegment = "[]"

// Wrapper addresses a nested document by dotted paths.
type Wrapper struct {
	data         any
	overwritable bool
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithOverwritable controls whether Set may replace an existing value.
func WithOverwritable(overwritable bool) Option {
	return func(w *Wrapper) {
		w.overwritable = overwritable
	}
}

// New wraps data. The wrapper mutates data in place; appends to sequences
// re-store the grown sequence in its parent, so callers holding a reference
// to a nested slice should re-read it through the wrapper.
func New(data any, opts ...Option) *Wrapper {
	w := &Wrapper{data: data, overwritable: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Data returns the wrapped root.
func (w *Wrapper) Data() any {
	return w.data
}

// Overwritable reports whether Set may replace existing values.
func (w *Wrapper) Overwritable() bool {
	return w.overwritable
}

// Get resolves path.
func (w *Wrapper) Get(path string) (any, error) {
	segs, err := split(path)
	if err != nil {
		return nil, err
	}
	cur := w.data
	for i, seg := range segs {
		next, err := child(cur, seg)
		if err != nil {
			return nil, &PathError{Path: path, Segment: strings.Join(segs[:i+1], "."), Err: err}
		}
		cur = next
	}
	return cur, nil
}

// Has reports whether path resolves.
func (w *Wrapper) Has(path string) bool {
	_, err := w.Get(path)
	return err == nil
}

// Set stores value at path, creating missing intermediate containers. The
// segment following a missing key decides its type: a list when it is "[]",
// a mapping otherwise.
func (w *Wrapper) Set(path string, value any) error {
	segs, err := split(path)
	if err != nil {
		return err
	}
	if !w.overwritable && !strings.Contains(path, AppendSegment) && w.Has(path) {
		return &PathError{Path: path, Segment: path, Err: ErrOverwrite}
	}
	root, err := set(w.data, segs, 0, value)
	if err != nil {
		return &PathError{Path: path, Segment: errSegment(err, segs), Err: unwrapDepth(err)}
	}
	w.data = root
	return nil
}

// Append adds value to the sequence at path, creating it if missing.
func (w *Wrapper) Append(path string, value any) error {
	if path == "" {
		return w.Set(AppendSegment, value)
	}
	return w.Set(path+"."+AppendSegment, value)
}

// Delete removes the value at path.
func (w *Wrapper) Delete(path string) error {
	segs, err := split(path)
	if err != nil {
		return err
	}
	for _, seg := range segs {
		if seg == AppendSegment {
			return &PathError{Path: path, Segment: seg, Err: ErrInvalidPath}
		}
	}
	root, err := del(w.data, segs, 0)
	if err != nil {
		return &PathError{Path: path, Segment: errSegment(err, segs), Err: unwrapDepth(err)}
	}
	w.data = root
	return nil
}

// Keys returns the top-level keys in sorted order. Sequence roots yield their
// indices.
func (w *Wrapper) Keys() []string {
	switch v := w.data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	case []any:
		keys := make([]string, len(v))
		for i := range v {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	default:
		return nil
	}
}

// Len returns the number of top-level entries.
func (w *Wrapper) Len() int {
	switch v := w.data.(type) {
	case map[string]any:
		return len(v)
	case []any:
		return len(v)
	default:
		return 0
	}
}

func split(path string) ([]string, error) {
	if path == "" {
		return nil, &PathError{Path: path, Err: ErrInvalidPath}
	}
	segs := strings.Split(path, ".")
	for _, s := range segs {
		if s == "" {
			return nil, &PathError{Path: path, Err: ErrInvalidPath}
		}
	}
	return segs, nil
}

// index parses seg as a sequence index.
func index(seg string) (int, bool) {
	i, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return i, true
}

func normalize(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

func child(cur any, seg string) (any, error) {
	if seg == AppendSegment {
		return nil, ErrInvalidPath
	}
	i, isIndex := index(seg)
	switch c := cur.(type) {
	case map[string]any:
		if isIndex {
			return nil, ErrAmbiguousKey
		}
		v, ok := c[seg]
		if !ok {
			return nil, ErrNotFound
		}
		return v, nil
	case []any:
		if !isIndex {
			return nil, ErrTypeMismatch
		}
		i, ok := normalize(i, len(c))
		if !ok {
			return nil, ErrNotFound
		}
		return c[i], nil
	default:
		return nil, ErrTypeMismatch
	}
}

// depthError remembers how deep into the path an error happened.
type depthError struct {
	depth int
	err   error
}

func (e *depthError) Error() string { return e.err.Error() }
func (e *depthError) Unwrap() error { return e.err }

func at(depth int, err error) error {
	return &depthError{depth: depth, err: err}
}

func unwrapDepth(err error) error {
	if de, ok := err.(*depthError); ok {
		return de.err
	}
	return err
}

func errSegment(err error, segs []string) string {
	if de, ok := err.(*depthError); ok && de.depth < len(segs) {
		return strings.Join(segs[:de.depth+1], ".")
	}
	return strings.Join(segs, ".")
}

func newContainer(next string) any {
	if next == AppendSegment {
		return []any{}
	}
	return map[string]any{}
}

// set returns cur with value stored below it. Sequences may be reallocated,
// which is why every level hands its (possibly new) container back up.
func set(cur any, segs []string, depth int, value any) (any, error) {
	seg := segs[depth]
	last := depth == len(segs)-1

	if seg == AppendSegment {
		list, ok := cur.([]any)
		if !ok {
			return nil, at(depth, ErrTypeMismatch)
		}
		if last {
			return append(list, value), nil
		}
		elem, err := set(newContainer(segs[depth+1]), segs, depth+1, value)
		if err != nil {
			return nil, err
		}
		return append(list, elem), nil
	}

	i, isIndex := index(seg)
	switch c := cur.(type) {
	case map[string]any:
		if isIndex {
			return nil, at(depth, ErrAmbiguousKey)
		}
		if last {
			c[seg] = value
			return c, nil
		}
		next, ok := c[seg]
		if !ok || next == nil {
			next = newContainer(segs[depth+1])
		}
		updated, err := set(next, segs, depth+1, value)
		if err != nil {
			return nil, err
		}
		c[seg] = updated
		return c, nil
	case []any:
		if !isIndex {
			return nil, at(depth, ErrTypeMismatch)
		}
		i, ok := normalize(i, len(c))
		if !ok {
			return nil, at(depth, ErrNotFound)
		}
		if last {
			c[i] = value
			return c, nil
		}
		updated, err := set(c[i], segs, depth+1, value)
		if err != nil {
			return nil, err
		}
		c[i] = updated
		return c, nil
	default:
		return nil, at(depth, ErrTypeMismatch)
	}
}

func del(cur any, segs []string, depth int) (any, error) {
	seg := segs[depth]
	last := depth == len(segs)-1
	i, isIndex := index(seg)

	switch c := cur.(type) {
	case map[string]any:
		if isIndex {
			return nil, at(depth, ErrAmbiguousKey)
		}
		next, ok := c[seg]
		if !ok {
			return nil, at(depth, ErrNotFound)
		}
		if last {
			delete(c, seg)
			return c, nil
		}
		updated, err := del(next, segs, depth+1)
		if err != nil {
			return nil, err
		}
		c[seg] = updated
		return c, nil
	case []any:
		if !isIndex {
			return nil, at(depth, ErrTypeMismatch)
		}
		i, ok := normalize(i, len(c))
		if !ok {
			return nil, at(depth, ErrNotFound)
		}
		if last {
			return append(c[:i:i], c[i+1:]...), nil
		}
		updated, err := del(c[i], segs, depth+1)
		if err != nil {
			return nil, err
		}
		c[i] = updated
		return c, nil
	default:
		return nil, at(depth, ErrTypeMismatch)
	}
}

// String implements fmt.Stringer for debugging.
func (w *Wrapper) String() string {
	return fmt.Sprintf("dotaccess.Wrapper(%v)", w.data)
}
