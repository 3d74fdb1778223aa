// Package credentials loads username/password lists for trial runs.
package credentials

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Credential is one username/password pair to try. Pairs are immutable and
// keep their file order, which determines trial ordering.
type Credential struct {
	Username string
	Password string
}

// DefaultFile returns the conventional credential list path for a driver:
// credz/<driver>.txt relative to the working directory.
func DefaultFile(driver string) string {
	return filepath.Join("credz", driver+".txt")
}

// LoadFile parses a credential file with one username:password pair per
// line. Only the first colon splits the pair, so passwords may themselves
// contain colons. Blank lines and '#' comments are skipped; lines without a
// separator are logged and dropped.
func LoadFile(path string, logger *slog.Logger) ([]Credential, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential file: %w", err)
	}
	defer f.Close()

	var out []Credential
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		username, password, found := strings.Cut(line, ":")
		if !found {
			logger.Warn("skipping credential line without separator",
				"file", path,
				"line", lineNo,
			)
			continue
		}
		out = append(out, Credential{Username: username, Password: password})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	return out, nil
}
