package collect

import (
	"context"
	"fmt"
	"net"
	"strings"
)

// Network resolves the address shown in the panel's info column.
type Network struct {
	run CommandRunner
	// addrs enumerates local interface addresses; swapped in tests.
	addrs func() ([]net.Addr, error)
}

// NewNetwork returns a Network collector using the given runner.
func NewNetwork(run CommandRunner) *Network {
	return &Network{run: run, addrs: net.InterfaceAddrs}
}

// IPAddress asks hostname -I first and falls back to enumerating interface
// addresses on hosts without it. IPv4 entries win; "" means no address
// could be resolved.
func (n *Network) IPAddress(ctx context.Context) (string, error) {
	out, hErr := n.run.Output(ctx, "hostname", "-I")
	if hErr == nil {
		if ip := pickAddress(strings.Fields(out)); ip != "" {
			return ip, nil
		}
	}

	addrs, aErr := n.addrs()
	if aErr != nil {
		if hErr != nil {
			return "", fmt.Errorf("resolve address: %w", hErr)
		}
		return "", fmt.Errorf("resolve address: %w", aErr)
	}
	var candidates []string
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		candidates = append(candidates, ipNet.IP.String())
	}
	return pickAddress(candidates), nil
}

// pickAddress returns the first IPv4-looking entry (no colon), else the
// first entry, else "".
func pickAddress(addrs []string) string {
	for _, a := range addrs {
		if !strings.Contains(a, ":") {
			return a
		}
	}
	if len(addrs) > 0 {
		return addrs[0]
	}
	return ""
}
