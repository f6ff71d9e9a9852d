package core

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "reports/a.json", want: "reports/a.json"},
		{in: "reports//b.csv", want: "reports/b.csv"},
		{in: "reports\\c.csv", want: "reports/c.csv"},
		{in: "./x", want: "x"},
		{in: "", err: true},
		{in: "   ", err: true},
		{in: "/etc/passwd", err: true},
		{in: "../up", err: true},
		{in: "a/../../b", err: true},
		{in: ".", err: true},
	}
	for _, tc := range cases {
		got, err := NormalizeKey(tc.in)
		if tc.err {
			if !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("NormalizeKey(%q): expected ErrInvalidKey, got %q %v", tc.in, got, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("NormalizeKey(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestPresignMethod(t *testing.T) {
	if d, err := PresignMethod(SignedURLOptions{}); err != nil || d != DefaultPresignExpiry {
		t.Fatalf("default: %v %v", d, err)
	}
	if d, err := PresignMethod(SignedURLOptions{Method: "get", Expiry: time.Minute}); err != nil || d != time.Minute {
		t.Fatalf("custom: %v %v", d, err)
	}
	if _, err := PresignMethod(SignedURLOptions{Method: "PUT"}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}
