package util

import (
	"bufio"
	"io"
	"strings"
)

func ParseLines(reader io.Reader, parser func(line string) error) error {
	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		if err := parser(line); err != nil {
			return err
		}
	}

	return scanner.Err()
}
