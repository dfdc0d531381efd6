package collect

import (
	"context"
	"errors"
	"net"
	"testing"
)

// netRunnerStub answers hostname -I with a fixed result.
type netRunnerStub struct {
	out string
	err error
}

func (s *netRunnerStub) Output(ctx context.Context, name string, args ...string) (string, error) {
	return s.out, s.err
}

func ipNet(t *testing.T, addr string) net.Addr {
	t.Helper()
	ip := net.ParseIP(addr)
	if ip == nil {
		t.Fatalf("bad test address %q", addr)
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(24, 32)}
}

func TestNetwork_IPAddress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		out     string
		err     error
		addrs   func() ([]net.Addr, error)
		want    string
		wantErr bool
	}{
		{
			name: "first ipv4 wins",
			out:  "fe80::1 192.168.1.7 10.0.0.2\n",
			want: "192.168.1.7",
		},
		{
			name: "only ipv6 returns the first entry",
			out:  "fe80::1 fd00::2\n",
			want: "fe80::1",
		},
		{
			name: "hostname failure falls back to interfaces",
			err:  errors.New("hostname: not found"),
			addrs: func() ([]net.Addr, error) {
				return []net.Addr{
					ipNet(t, "127.0.0.1"), // loopback skipped
					ipNet(t, "10.0.0.5"),
				}, nil
			},
			want: "10.0.0.5",
		},
		{
			name: "empty hostname output falls back to interfaces",
			out:  "\n",
			addrs: func() ([]net.Addr, error) {
				return []net.Addr{ipNet(t, "192.168.4.20")}, nil
			},
			want: "192.168.4.20",
		},
		{
			name: "no usable address is empty without error",
			err:  errors.New("hostname: not found"),
			addrs: func() ([]net.Addr, error) {
				return []net.Addr{ipNet(t, "127.0.0.1")}, nil
			},
			want: "",
		},
		{
			name: "both sources failing reports the error",
			err:  errors.New("hostname: not found"),
			addrs: func() ([]net.Addr, error) {
				return nil, errors.New("netlink down")
			},
			want:    "",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			n := &Network{
				run:   &netRunnerStub{out: tc.out, err: tc.err},
				addrs: tc.addrs,
			}
			if n.addrs == nil {
				n.addrs = func() ([]net.Addr, error) { return nil, errors.New("must not be called") }
			}

			got, err := n.IPAddress(context.Background())
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("address: want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPickAddress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		addrs []string
		want  string
	}{
		{name: "empty", addrs: nil, want: ""},
		{name: "single ipv4", addrs: []string{"10.1.2.3"}, want: "10.1.2.3"},
		{name: "ipv4 after ipv6", addrs: []string{"fe80::1", "10.1.2.3"}, want: "10.1.2.3"},
		{name: "all ipv6", addrs: []string{"fe80::1", "fd00::2"}, want: "fe80::1"},
	}
	for _, tc := range cases {
		if got := pickAddress(tc.addrs); got != tc.want {
			t.Errorf("%s: want %q, got %q", tc.name, tc.want, got)
		}
	}
}
