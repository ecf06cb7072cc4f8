package contracts

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"beginner", ModeBeginner, false},
		{"intermediate", ModeIntermediate, false},
		{"advanced", ModeAdvanced, false},
		{"", ModeBeginner, false}, // default
		{"expert", "", true},
		{"BEGINNER", "", true},
	}

	for _, c := range cases {
		got, err := ParseMode(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", c.in)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ParseMode(%q): error should wrap ErrValidation", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseMode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestModeIncludes(t *testing.T) {
	if !ModeAdvanced.Includes(ModeBeginner) {
		t.Error("advanced should include beginner fields")
	}
	if !ModeIntermediate.Includes(ModeIntermediate) {
		t.Error("a mode should include its own fields")
	}
	if ModeBeginner.Includes(ModeAdvanced) {
		t.Error("beginner must not include advanced fields")
	}
}

func TestOutcomeFor(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, OutcomeSuccess},
		{fmt.Errorf("%w: x", ErrNotRegistered), OutcomeNotFound},
		{fmt.Errorf("%w: x", ErrNoDataForDate), OutcomeNotFound},
		{fmt.Errorf("%w: x", ErrNoDataInWindow), OutcomeNotFound},
		{fmt.Errorf("%w: x", ErrCardDisabled), OutcomeError},
		{errors.New("boom"), OutcomeError},
	}

	for _, c := range cases {
		if got := OutcomeFor(c.err); got != c.want {
			t.Errorf("OutcomeFor(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: x", ErrCardDisabled), "disabled"},
		{fmt.Errorf("%w: x", ErrValidation), "validation"},
		{errors.New("boom"), "internal"},
	}

	for _, c := range cases {
		if got := ErrorKind(c.err); got != c.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}
