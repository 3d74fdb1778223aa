package targets

import (
	"fmt"
	"net/netip"
	"strings"
)

type kind int

const (
	kindHost kind = iota
	kindCIDR
	kindRange
)

// detectKind classifies a target file entry. Anything that is not a valid
// CIDR block or IP range is treated as a plain host spec.
func detectKind(value string) kind {
	value = strings.TrimSpace(value)

	if strings.Contains(value, "/") {
		if _, err := netip.ParsePrefix(value); err == nil {
			return kindCIDR
		}
	}

	if strings.Contains(value, "-") {
		parts := strings.Split(value, "-")
		if len(parts) == 2 {
			_, startErr := netip.ParseAddr(strings.TrimSpace(parts[0]))
			_, endErr := netip.ParseAddr(strings.TrimSpace(parts[1]))
			if startErr == nil && endErr == nil {
				return kindRange
			}
		}
	}

	return kindHost
}

// maxExpandedHosts caps how many hosts a single CIDR block or range may
// expand to.
const maxExpandedHosts = 65536

// Expand turns a CIDR block or IP range into individual host addresses.
// For IPv4 CIDR blocks wider than /31 the network and broadcast addresses
// are excluded.
func Expand(value string) ([]string, error) {
	value = strings.TrimSpace(value)

	switch detectKind(value) {
	case kindCIDR:
		return expandCIDR(value)
	case kindRange:
		return expandRange(value)
	default:
		return nil, fmt.Errorf("not a CIDR block or IP range: %s", value)
	}
}

func expandCIDR(cidr string) ([]string, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR notation: %w", err)
	}

	maxBits := 32
	if prefix.Addr().Is6() {
		maxBits = 128
	}
	if maxBits-prefix.Bits() > 16 {
		return nil, fmt.Errorf("CIDR block too large (>%d hosts): %s", maxExpandedHosts, cidr)
	}

	// Skip network and broadcast addresses for IPv4 blocks wider than /31.
	skipEdges := prefix.Addr().Is4() && prefix.Bits() < 31

	var hosts []string
	addr := prefix.Masked().Addr()
	if skipEdges {
		addr = addr.Next()
	}
	for prefix.Contains(addr) {
		hosts = append(hosts, addr.String())
		addr = addr.Next()
		if len(hosts) > maxExpandedHosts {
			return nil, fmt.Errorf("CIDR block expanded to more than %d hosts: %s", maxExpandedHosts, cidr)
		}
	}
	if skipEdges && len(hosts) > 0 {
		hosts = hosts[:len(hosts)-1]
	}

	return hosts, nil
}

func expandRange(rangeStr string) ([]string, error) {
	parts := strings.Split(rangeStr, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid IP range format (expected 'start-end'): %s", rangeStr)
	}

	start, err := netip.ParseAddr(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid start IP in range: %w", err)
	}
	end, err := netip.ParseAddr(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid end IP in range: %w", err)
	}

	if start.Is4() != end.Is4() {
		return nil, fmt.Errorf("IP version mismatch: %s and %s", start, end)
	}
	if start.Compare(end) > 0 {
		return nil, fmt.Errorf("start IP must be <= end IP: %s > %s", start, end)
	}

	var hosts []string
	for current := start; ; current = current.Next() {
		hosts = append(hosts, current.String())
		if len(hosts) > maxExpandedHosts {
			return nil, fmt.Errorf("IP range too large (>%d hosts): %s", maxExpandedHosts, rangeStr)
		}
		if current.Compare(end) == 0 {
			break
		}
		if !current.IsValid() {
			return nil, fmt.Errorf("IP overflow while expanding range: %s", rangeStr)
		}
	}

	return hosts, nil
}
