package system

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"time"

	"inventory/internal/model"
	"inventory/internal/reqid"
)

// Path is the resource every system peer serves its properties on.
const Path = "/system"

const (
	DefaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

var (
	// ErrMalformedAddress means no valid URL can be built from the hostname
	// and port. Retrying cannot fix it.
	ErrMalformedAddress = errors.New("malformed system address")
	// ErrRemote covers every failure of the remote call itself: transport
	// errors, timeouts, non-2xx statuses and undecodable bodies.
	ErrRemote = errors.New("system call failed")
)

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRemote)
}

// Reason returns a short label for the failure class of err.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedAddress):
		return "malformed-address"
	default:
		return "remote-error"
	}
}

// Fetcher performs a single property fetch against a system peer.
type Fetcher struct {
	http *http.Client
}

// NewFetcher creates a fetcher whose calls are bounded by timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// TargetURL builds http://<hostname>:<port>/system and rejects anything that
// would not address exactly that resource on exactly that host.
func TargetURL(hostname, port string) (string, error) {
	if hostname == "" {
		return "", fmt.Errorf("%w: empty hostname", ErrMalformedAddress)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 || strconv.Itoa(n) != port {
		return "", fmt.Errorf("%w: invalid port %q", ErrMalformedAddress, port)
	}
	// Only IPv6 literals may contain colons; anything else would smuggle a port.
	if strings.Contains(hostname, ":") {
		if _, err := netip.ParseAddr(hostname); err != nil {
			return "", fmt.Errorf("%w: invalid hostname %q", ErrMalformedAddress, hostname)
		}
	}

	raw := "http://" + net.JoinHostPort(hostname, port) + Path
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformedAddress, raw, err)
	}
	if u.User != nil || u.RawQuery != "" || u.Fragment != "" || u.Path != Path ||
		!strings.EqualFold(u.Hostname(), hostname) || u.Port() != port {
		return "", fmt.Errorf("%w: %s", ErrMalformedAddress, raw)
	}
	return u.String(), nil
}

// Fetch retrieves the property set of hostname. It makes at most one
// outbound request.
func (f *Fetcher) Fetch(ctx context.Context, hostname, port string) (model.PropertySet, error) {
	target, err := TargetURL(hostname, port)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	req.Header.Set("Accept", "application/json")
	if id := reqid.From(ctx); id != "" {
		req.Header.Set(reqid.Header, id)
	}

	res, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrRemote, res.Status, msg)
		}
		return nil, fmt.Errorf("%w: %s", ErrRemote, res.Status)
	}

	props, err := decodeProperties(io.LimitReader(res.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	return props, nil
}

func decodeProperties(r io.Reader) (model.PropertySet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)
	}

	var props model.PropertySet
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	if props == nil {
		return nil, errors.New("decode properties: not a JSON object")
	}
	return props, nil
}
