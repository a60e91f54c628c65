package services

import (
	"errors"
	"io"
	"testing"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	err := Wrap(ErrTransfer, "transfer", "post archive", "server rejected upload", io.ErrUnexpectedEOF)
	if !errors.Is(err, ErrTransfer) {
		t.Fatal("expected transfer marker")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatal("expected wrapped cause")
	}
	want := "transfer error: transfer: post archive: server rejected upload: unexpected EOF"
	if err.Error() != want {
		t.Fatalf("unexpected message\n got: %s\nwant: %s", err.Error(), want)
	}
}

func TestWrapDefaults(t *testing.T) {
	err := Wrap(nil, " ", "", "", nil)
	if !errors.Is(err, ErrTransfer) {
		t.Fatal("expected default marker")
	}
	if err.Error() != "transfer error: service failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestIsPreflight(t *testing.T) {
	cases := map[error]bool{
		Wrap(ErrValidation, "preflight", "", "bad timezone", nil):   true,
		Wrap(ErrNotFound, "preflight", "", "missing path", nil):     true,
		Wrap(ErrStaging, "stage", "copy", "", io.ErrShortWrite):     false,
		Wrap(ErrTransfer, "transfer", "", "", io.ErrUnexpectedEOF): false,
	}
	for err, want := range cases {
		if got := IsPreflight(err); got != want {
			t.Errorf("IsPreflight(%v) = %v, want %v", err, got, want)
		}
	}
}
