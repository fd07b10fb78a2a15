package assert

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func OK(t testing.TB, err error) {
	if err != nil {
		t.Helper()
		t.Fatal("error:", err)
	}
}

func Error(t testing.TB, got, want error) {
	if !errors.Is(got, want) {
		t.Helper()
		t.Fatalf("error mismatch\nwant = %s\ngot  = %s", want, got)
	}
}

func True(t testing.TB, ok bool) {
	if !ok {
		t.Helper()
		t.Fatal("condition is false")
	}
}

func Equal[T comparable](t testing.TB, got, want T) {
	if got != want {
		t.Helper()
		t.Fatalf("value mismatch\nwant = %#v\ngot  = %#v", want, got)
	}
}

func EqualAll[T comparable](t testing.TB, got, want []T) {
	if len(got) != len(want) {
		t.Helper()
		t.Fatalf("number of values mismatch\nwant = %#v\ngot  = %#v", want, got)
	}
	for i, value := range want {
		if value != got[i] {
			t.Helper()
			t.Fatalf("value at index %d/%d mismatch\nwant = %#v\ngot  = %#v", i, len(want), value, got[i])
		}
	}
}

func DeepEqual(t testing.TB, got, want any) {
	if !reflect.DeepEqual(got, want) {
		t.Helper()
		t.Fatalf("value mismatch\nwant = %#v\ngot  = %#v", want, got)
	}
}

func HasPrefix(t testing.TB, got, prefix string) {
	if !strings.HasPrefix(got, prefix) {
		t.Helper()
		t.Fatalf("missing prefix\nwant = %q\ngot  = %q", prefix, got)
	}
}

func Contains(t testing.TB, got, substr string) {
	if !strings.Contains(got, substr) {
		t.Helper()
		t.Fatalf("missing substring\nwant = %q\ngot  = %q", substr, got)
	}
}

func NotContains(t testing.TB, got, substr string) {
	if strings.Contains(got, substr) {
		t.Helper()
		t.Fatalf("unexpected substring\nsubstring = %q\ngot       = %q", substr, got)
	}
}
