package engine

import (
	"bytes"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/xerrors"

	"github.com/KonishchevDmitry/whales/internal/util"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DecodeSingle parses inspect output: a JSON array holding exactly one object.
func DecodeSingle[T any](command Command, output string) (T, error) {
	var result T

	var objects []jsoniter.RawMessage
	if err := json.Unmarshal([]byte(output), &objects); err != nil {
		return result, &ParseError{Command: command, Output: output, Err: err}
	}

	if count := len(objects); count != 1 {
		return result, &ParseError{
			Command: command,
			Output:  output,
			Err:     xerrors.Errorf("Got %d objects instead of exactly one", count),
		}
	}

	object := bytes.TrimSpace(objects[0])
	if len(object) == 0 || object[0] != '{' {
		return result, &ParseError{Command: command, Output: output, Err: xerrors.New("The result is not an object")}
	}

	if err := json.Unmarshal(object, &result); err != nil {
		return result, &ParseError{Command: command, Output: output, Err: err}
	}

	return result, nil
}

// Decode parses output holding a single JSON object.
func Decode[T any](command Command, output string) (T, error) {
	var result T

	trimmed := strings.TrimSpace(output)
	if !strings.HasPrefix(trimmed, "{") {
		return result, &ParseError{Command: command, Output: output, Err: xerrors.New("The result is not an object")}
	}

	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return result, &ParseError{Command: command, Output: output, Err: err}
	}

	return result, nil
}

func SplitLines(output string) []string {
	var lines []string

	// The parser never fails and strings.Reader reads never fail either
	_ = util.ParseLines(strings.NewReader(output), func(line string) error {
		lines = append(lines, line)
		return nil
	})

	return lines
}

// ParseIdentifier expects output to be a single identifier: a name or an ID of a created object.
func ParseIdentifier(command Command, output string) (string, error) {
	lines := SplitLines(output)
	if len(lines) != 1 {
		return "", &ParseError{
			Command: command,
			Output:  output,
			Err:     xerrors.Errorf("Expected one identifier, got %d lines", len(lines)),
		}
	}
	return lines[0], nil
}
