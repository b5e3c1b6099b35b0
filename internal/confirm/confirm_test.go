package confirm_test

import (
	"errors"
	"testing"

	"github.com/lenhattri/dqreplay/internal/confirm"
)

func TestRequire(t *testing.T) {
	if err := confirm.Require(nil, "reset core.fact_events", ""); !errors.Is(err, confirm.ErrConfirmRequired) {
		t.Fatalf("nil func must require confirmation, got %v", err)
	}

	var prompt string
	yes := func(p string) (bool, error) { prompt = p; return true, nil }
	if err := confirm.Require(yes, "reset core.fact_events?", "env=production"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompt != "env=production\nreset core.fact_events?" {
		t.Fatalf("unexpected prompt %q", prompt)
	}

	no := func(string) (bool, error) { return false, nil }
	if err := confirm.Require(no, "reset", ""); !errors.Is(err, confirm.ErrConfirmRequired) {
		t.Fatalf("declined confirmation must fail, got %v", err)
	}

	boom := errors.New("eof")
	failing := func(string) (bool, error) { return false, boom }
	if err := confirm.Require(failing, "reset", ""); !errors.Is(err, boom) {
		t.Fatalf("expected prompt error, got %v", err)
	}
}
