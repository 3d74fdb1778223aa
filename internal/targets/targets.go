// Package targets parses probe targets from CLI arguments and target files,
// expanding CIDR blocks and IP ranges into individual hosts.
package targets

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
)

// Target is a single network endpoint under test. Identity is the exact
// (host, port) pair: the same host on two ports is two independent targets.
type Target struct {
	Host string
	Port int
}

func (t Target) String() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// ParseSpec parses a single target spec of the form "host" or "host:port".
// When portOverride is non-zero it wins over any port in the spec;
// defaultPort applies when the spec carries no port at all.
func ParseSpec(spec string, defaultPort, portOverride int) (Target, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Target{}, fmt.Errorf("empty target")
	}

	if portOverride > 0 {
		host := spec
		if i := strings.LastIndex(spec, ":"); i >= 0 {
			host = spec[:i]
		}
		if host == "" {
			return Target{}, fmt.Errorf("empty host in target %q", spec)
		}
		return Target{Host: host, Port: portOverride}, nil
	}

	if i := strings.LastIndex(spec, ":"); i >= 0 {
		host := spec[:i]
		port, err := strconv.Atoi(spec[i+1:])
		if err != nil || port < 1 || port > 65535 {
			return Target{}, fmt.Errorf("invalid port in target %q", spec)
		}
		if host == "" {
			return Target{}, fmt.Errorf("empty host in target %q", spec)
		}
		return Target{Host: host, Port: port}, nil
	}

	return Target{Host: spec, Port: defaultPort}, nil
}

// LoadFile reads targets from a file, one entry per line. An entry may be a
// plain host[:port], a CIDR block, or an IP range (start-end); blocks and
// ranges expand into individual hosts on the default (or overridden) port.
// Blank lines and '#' comments are skipped. Malformed lines are logged and
// dropped rather than failing the run.
func LoadFile(path string, defaultPort, portOverride int, logger *slog.Logger) ([]Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open target file: %w", err)
	}
	defer f.Close()

	port := defaultPort
	if portOverride > 0 {
		port = portOverride
	}

	var out []Target
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch detectKind(line) {
		case kindCIDR, kindRange:
			hosts, err := Expand(line)
			if err != nil {
				logger.Warn("skipping malformed target line",
					"file", path,
					"line", lineNo,
					"error", err,
				)
				continue
			}
			for _, h := range hosts {
				out = append(out, Target{Host: h, Port: port})
			}
		default:
			t, err := ParseSpec(line, defaultPort, portOverride)
			if err != nil {
				logger.Warn("skipping malformed target line",
					"file", path,
					"line", lineNo,
					"error", err,
				)
				continue
			}
			out = append(out, t)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target file: %w", err)
	}

	return out, nil
}
