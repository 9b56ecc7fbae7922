package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "httpclient.get",
		Kind: KindNetwork,
		Path: "https://on.orf.at/video/1",
		Err:  root,
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}

	var got *OpError
	if !errors.As(err, &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindNetwork {
		t.Fatalf("expected kind %s", KindNetwork)
	}
	if !strings.Contains(err.Error(), "path=https://on.orf.at/video/1") {
		t.Fatalf("expected path in message, got %q", err.Error())
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", &OpError{Op: "x", Kind: KindFile})

	if !IsKind(err, KindFile) {
		t.Fatalf("expected IsKind to see through fmt wrapping")
	}
	if IsKind(err, KindNetwork) {
		t.Fatalf("unexpected kind match")
	}
	if IsKind(errors.New("plain"), KindFile) {
		t.Fatalf("plain errors have no kind")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"network", &OpError{Kind: KindNetwork}, KindNetwork},
		{"file", &OpError{Kind: KindFile}, KindFile},
		{"validation folds to unexpected", &OpError{Kind: KindValidation}, KindUnexpected},
		{"plain", errors.New("boom"), KindUnexpected},
		{"deadline", context.DeadlineExceeded, KindNetwork},
	}
	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Errorf("%s: Classify() = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestNilOpError(t *testing.T) {
	var e *OpError
	if e.Error() != "<nil>" {
		t.Fatalf("expected <nil>")
	}
	if e.Unwrap() != nil {
		t.Fatalf("expected nil unwrap")
	}
}
