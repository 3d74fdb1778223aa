package drivers

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHDriver probes SSH password authentication using golang.org/x/crypto/ssh.
type SSHDriver struct{}

func (d *SSHDriver) Name() string {
	return "ssh"
}

func (d *SSHDriver) DefaultPort() int {
	return 22
}

func (d *SSHDriver) Connect(_ context.Context, host string, port int, username, password string, timeout time.Duration) (bool, error) {
	config := &ssh.ClientConfig{
		User:            username,
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		// The server completed the handshake and turned the password down.
		if strings.Contains(err.Error(), "unable to authenticate") {
			return false, nil
		}
		return false, unreachable("ssh: %v", err)
	}
	client.Close()

	return true, nil
}
