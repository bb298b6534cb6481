// Package query builds conjunctive tag queries and evaluates them against
// songs, either as a case-insensitive substring search or as an exact find.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/llehouerou/wavesdb/internal/tags"
)

var (
	// ErrUnknownTag is returned when a name matches no tag type.
	ErrUnknownTag = errors.New("unknown tag name")
	// ErrOddArguments is returned when type/value tokens do not come in pairs.
	ErrOddArguments = errors.New("odd number of arguments")
)

// Type is either a concrete tags.Type or one of the File and Any
// pseudo-types.
type Type int

const (
	// File matches the song location instead of its tags.
	File = Type(tags.NumTypes) + 10
	// Any matches the song location and every tag item.
	Any = Type(tags.NumTypes) + 20
)

// Names accepted for the pseudo-types. "filename" is the legacy spelling.
const (
	FileKey    = "file"
	FileKeyOld = "filename"
	AnyKey     = "any"
)

// Concrete reports whether t is a real tag type rather than File or Any.
func (t Type) Concrete() bool {
	return tags.Type(t).Valid()
}

// Valid reports whether t is a concrete type, File or Any.
func (t Type) Valid() bool {
	return t.Concrete() || t == File || t == Any
}

func (t Type) String() string {
	switch t {
	case File:
		return FileKey
	case Any:
		return AnyKey
	}
	return tags.Type(t).String()
}

// ResolveType maps a tag or pseudo-tag name to its Type, ignoring case.
func ResolveType(name string) (Type, error) {
	if strings.EqualFold(name, FileKey) || strings.EqualFold(name, FileKeyOld) {
		return File, nil
	}
	if strings.EqualFold(name, AnyKey) {
		return Any, nil
	}
	if t, ok := tags.ParseType(name); ok {
		return Type(t), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTag, name)
}

// Condition requires a song to carry Needle under Type.
type Condition struct {
	Type   Type
	Needle string
}

// Query is a conjunction of conditions. The zero Query matches every song.
type Query struct {
	conds []Condition
}

// Build parses a flat list of (type name, value) tokens. It either returns
// a complete query or an error and no query.
func Build(tokens []string) (Query, error) {
	if len(tokens)%2 != 0 {
		return Query{}, ErrOddArguments
	}

	conds := make([]Condition, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		t, err := ResolveType(tokens[i])
		if err != nil {
			return Query{}, err
		}
		conds = append(conds, Condition{Type: t, Needle: strings.Clone(tokens[i+1])})
	}
	return Query{conds: conds}, nil
}
