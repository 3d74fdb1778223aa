package drivers

import (
	"context"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

// sysDescrOID is the standard system description object every agent answers.
const sysDescrOID = "1.3.6.1.2.1.1.1.0"

// SNMPDriver probes SNMP v2c community strings using gosnmp. The password
// field of a credential pair is used as the community string; the username
// is carried through for reporting only.
type SNMPDriver struct{}

func (d *SNMPDriver) Name() string {
	return "snmp"
}

func (d *SNMPDriver) DefaultPort() int {
	return 161
}

func (d *SNMPDriver) Connect(_ context.Context, host string, port int, _, password string, timeout time.Duration) (bool, error) {
	g := &gosnmp.GoSNMP{
		Target:    host,
		Port:      uint16(port),
		Version:   gosnmp.Version2c,
		Community: password,
		Timeout:   timeout,
		Retries:   0,
	}

	if err := g.Connect(); err != nil {
		return false, unreachable("snmp: %v", err)
	}
	defer g.Conn.Close()

	if _, err := g.Get([]string{sysDescrOID}); err != nil {
		// v2c agents stay silent on a wrong community string, so a request
		// timeout is a rejection; only socket-level errors count as
		// unreachable.
		if strings.Contains(strings.ToLower(err.Error()), "timeout") {
			return false, nil
		}
		return false, unreachable("snmp: %v", err)
	}

	return true, nil
}
