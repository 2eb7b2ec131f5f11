package reqid

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithFrom(t *testing.T) {
	t.Parallel()

	if got := From(context.Background()); got != "" {
		t.Fatalf("empty ctx id=%q", got)
	}
	ctx := With(context.Background(), "abc")
	if got := From(ctx); got != "abc" {
		t.Fatalf("id=%q", got)
	}
}

func TestEnsure(t *testing.T) {
	t.Parallel()

	if got := Ensure("keep"); got != "keep" {
		t.Fatalf("id=%q", got)
	}
	got := Ensure("")
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("generated id %q is not a uuid: %v", got, err)
	}
}
