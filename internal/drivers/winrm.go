package drivers

import (
	"context"
	"strings"
	"time"

	"github.com/masterzen/winrm"
)

// WinRMDriver probes Windows Remote Management basic/NTLM authentication
// using masterzen/winrm.
type WinRMDriver struct{}

func (d *WinRMDriver) Name() string {
	return "winrm"
}

func (d *WinRMDriver) DefaultPort() int {
	return 5985
}

func (d *WinRMDriver) Connect(_ context.Context, host string, port int, username, password string, timeout time.Duration) (bool, error) {
	endpoint := winrm.NewEndpoint(host, port, false, false, nil, nil, nil, timeout)

	client, err := winrm.NewClient(endpoint, username, password)
	if err != nil {
		return false, unreachable("winrm: %v", err)
	}

	// Shell creation is the cheapest authenticated round trip WinRM offers.
	shell, err := client.CreateShell()
	if err != nil {
		if strings.Contains(err.Error(), "401") {
			return false, nil
		}
		return false, unreachable("winrm: %v", err)
	}
	shell.Close()

	return true, nil
}
