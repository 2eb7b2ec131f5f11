package stunutil

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pion/stun/v3"
)

const (
	NATTypeUnknown          = "unknown"
	NATTypeSymmetric        = "symmetric"
	NATTypeConeOrRestricted = "cone_or_restricted"
)

// Mapping is the public view of this host as seen by STUN servers.
type Mapping struct {
	PublicAddr string
	NATType    string
}

// Probe asks every server for the mapped address of a fresh UDP socket and
// classifies the NAT from the answers. It fails only if no server answered.
func Probe(ctx context.Context, servers []string, timeout time.Duration) (Mapping, error) {
	if len(servers) == 0 {
		return Mapping{NATType: NATTypeUnknown}, fmt.Errorf("no STUN servers provided")
	}

	addrs := make([]string, 0, len(servers))
	var lastErr error
	for _, server := range servers {
		addr, err := bindingRequest(ctx, server, timeout)
		if err != nil {
			lastErr = fmt.Errorf("stun %s: %w", server, err)
			continue
		}
		addrs = append(addrs, addr)
	}

	if len(addrs) == 0 {
		return Mapping{NATType: NATTypeUnknown}, lastErr
	}
	return Mapping{PublicAddr: addrs[0], NATType: Classify(addrs)}, nil
}

// Classify infers NAT behaviour by comparing mapped addresses from several
// servers: differing mappings mean a symmetric NAT.
func Classify(addrs []string) string {
	if len(addrs) < 2 {
		return NATTypeUnknown
	}
	for _, addr := range addrs[1:] {
		if addr != addrs[0] {
			return NATTypeSymmetric
		}
	}
	return NATTypeConeOrRestricted
}

// ServerURI normalizes "host:port" or "stun:host:port" into a STUN URI.
func ServerURI(server string) (*stun.URI, error) {
	s := strings.TrimSpace(server)
	if s == "" {
		return nil, fmt.Errorf("empty STUN server")
	}
	if !strings.HasPrefix(s, "stun:") {
		s = "stun:" + s
	}
	return stun.ParseURI(s)
}

func bindingRequest(ctx context.Context, server string, timeout time.Duration) (string, error) {
	uri, err := ServerURI(server)
	if err != nil {
		return "", err
	}

	client, err := stun.DialURI(uri, &stun.DialConfig{})
	if err != nil {
		return "", err
	}
	defer client.Close()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	msg := stun.MustBuild(stun.TransactionID, stun.BindingRequest)
	result := make(chan string, 1)
	fail := make(chan error, 1)

	go func() {
		err := client.Do(msg, func(res stun.Event) {
			if res.Error != nil {
				fail <- res.Error
				return
			}
			var addr stun.XORMappedAddress
			if err := addr.GetFrom(res.Message); err != nil {
				fail <- err
				return
			}
			result <- addr.String()
		})
		if err != nil {
			fail <- err
		}
	}()

	select {
	case addr := <-result:
		return addr, nil
	case err := <-fail:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
