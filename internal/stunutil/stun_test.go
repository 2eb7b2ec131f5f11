package stunutil

import (
	"context"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	if got := Classify(nil); got != NATTypeUnknown {
		t.Fatalf("got=%q", got)
	}
	if got := Classify([]string{"1.2.3.4:1"}); got != NATTypeUnknown {
		t.Fatalf("got=%q", got)
	}
	if got := Classify([]string{"1.2.3.4:1", "1.2.3.4:1"}); got != NATTypeConeOrRestricted {
		t.Fatalf("got=%q", got)
	}
	if got := Classify([]string{"1.2.3.4:1", "1.2.3.4:1", "1.2.3.4:2"}); got != NATTypeSymmetric {
		t.Fatalf("got=%q", got)
	}
}

func TestServerURI(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"stun.l.google.com:19302", " stun:stun.l.google.com:19302 "} {
		uri, err := ServerURI(in)
		if err != nil {
			t.Fatalf("ServerURI(%q): %v", in, err)
		}
		if uri.Host != "stun.l.google.com" || uri.Port != 19302 {
			t.Fatalf("ServerURI(%q)=%+v", in, uri)
		}
	}
	if _, err := ServerURI("  "); err == nil {
		t.Fatalf("expected error for empty server")
	}
}

func TestProbe_NoServers(t *testing.T) {
	t.Parallel()

	m, err := Probe(context.Background(), nil, time.Second)
	if err == nil {
		t.Fatalf("expected error")
	}
	if m.NATType != NATTypeUnknown || m.PublicAddr != "" {
		t.Fatalf("mapping=%+v", m)
	}
}
