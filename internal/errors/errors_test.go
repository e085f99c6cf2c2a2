package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "parse error",
			code:    "B101",
			wantMsg: "Empty reference name",
			wantCat: CategoryParse,
		},
		{
			name:    "invocation error",
			code:    "B200",
			wantMsg: "Reference is not callable",
			wantCat: CategoryInvocation,
		},
		{
			name:    "config error",
			code:    "B301",
			wantMsg: "Invalid port",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "B999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestBindError_Error(t *testing.T) {
	err := New("B102")
	if got, want := err.Error(), "B102: Unknown calculation"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.WithDetail(`"sum" is not registered`)
	if got, want := err.Error(), `B102: Unknown calculation: "sum" is not registered`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err2 := &BindError{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}
}

func TestBindError_Is(t *testing.T) {
	err := New("B101")
	if !stderrors.Is(err, ErrParse) {
		t.Error("parse error should match ErrParse")
	}
	if stderrors.Is(err, ErrInvocation) {
		t.Error("parse error should not match ErrInvocation")
	}
	if !stderrors.Is(err, New("B101")) {
		t.Error("same code should match")
	}
	if stderrors.Is(err, New("B102")) {
		t.Error("different code should not match")
	}

	joined := stderrors.Join(New("B300"), err)
	if !stderrors.Is(joined, ErrParse) {
		t.Error("joined error should match ErrParse")
	}
}

func TestBindError_Wrap(t *testing.T) {
	inner := stderrors.New("boom")
	outer := New("B500").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "B400") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	be := New("B401")
	if FromError(be, "B400") != be {
		t.Error("FromError should return BindError as-is")
	}

	std := stderrors.New("plain")
	result := FromError(std, "B400")
	if result.Wrapped != std || result.Code != "B400" {
		t.Errorf("FromError = %+v, want wrapped B400", result)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with attr", &Location{Element: "li.item", Attr: "title.attr"}, "li.item [title.attr]"},
		{"element only", &Location{Element: "div#main"}, "div#main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("B102").
		WithLocation("span", "b-text").
		WithSuggestion("Register it with bind.WithCalc")
	out := err.Format()

	for _, want := range []string{
		"ERROR B102: Unknown calculation",
		"span [b-text]",
		"not registered",
		"Hint: Register it with bind.WithCalc",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("B101").WithLocation("p", "title.attr")
	if got, want := err.FormatCompact(), "p [title.attr]: B101: Empty reference name"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestPrintError_Joined(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, stderrors.Join(New("B100"), stderrors.New("plain failure")))
	out := buf.String()
	if !strings.Contains(out, "B100") || !strings.Contains(out, "plain failure") {
		t.Errorf("PrintError output = %q", out)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}
