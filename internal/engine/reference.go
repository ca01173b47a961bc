package engine

import (
	"strings"

	"golang.org/x/xerrors"
)

// Reference identifies an engine object: a plain name or ID, or a handle.
type Reference interface {
	EngineReference() string
}

// Name is a plain name or ID reference.
type Name string

func (n Name) EngineReference() string {
	return string(n)
}

func Names(names ...string) []Reference {
	references := make([]Reference, 0, len(names))
	for _, name := range names {
		references = append(references, Name(name))
	}
	return references
}

// ResolveReferences converts references to command arguments rejecting empty ones and the ones which the engine would
// parse as flags.
func ResolveReferences(references []Reference) ([]string, error) {
	if len(references) == 0 {
		return nil, &ArgumentError{Err: xerrors.New("No objects are specified")}
	}

	resolved := make([]string, 0, len(references))
	for index, reference := range references {
		var value string
		if reference != nil {
			value = reference.EngineReference()
		}
		if value == "" {
			return nil, &ArgumentError{Err: xerrors.Errorf("Got an empty object reference at #%d position", index)}
		} else if strings.HasPrefix(value, "-") {
			return nil, &ArgumentError{Err: xerrors.Errorf("Invalid object reference: %q", value)}
		}
		resolved = append(resolved, value)
	}

	return resolved, nil
}
