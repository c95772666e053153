package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "contract error",
			code:    CodeKindRequired,
			wantMsg: "A component kind is required, not an instance",
			wantCat: CategoryContract,
		},
		{
			name:    "runtime error",
			code:    CodeAttributeUpdate,
			wantMsg: "Attribute update failed",
			wantCat: CategoryRuntime,
		},
		{
			name:    "config error",
			code:    CodeConfigInvalid,
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
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

func TestNewf(t *testing.T) {
	err := Newf(CategoryRuntime, "file %q not found", "test.yaml")
	if err.Message != `file "test.yaml" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "test.yaml" not found`)
	}
	if err.Category != CategoryRuntime {
		t.Errorf("Category = %q, want %q", err.Category, CategoryRuntime)
	}
}

func TestErrorString(t *testing.T) {
	err := New(CodeNotAKind)
	if got, want := err.Error(), "E101: Expected component kind"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New(CodeConfigRead).Wrap(fmt.Errorf("permission denied"))
	if got, want := wrapped.Error(), "E141: Configuration file could not be read: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestUnwrapAndIs(t *testing.T) {
	cause := stderrors.New("boom")
	err := fmt.Errorf("loading: %w", New(CodeTreeDecode).Wrap(cause))

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(err, New(CodeTreeDecode)) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(err, New(CodeConfigRead)) {
		t.Error("errors.Is should not match a different code")
	}
	if !HasCode(err, CodeTreeDecode) {
		t.Error("HasCode should find the code through wrapping")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeConfigRead) != nil {
		t.Error("FromError(nil) should be nil")
	}

	existing := New(CodeNoParent)
	if got := FromError(existing, CodeConfigRead); got != existing {
		t.Error("FromError should return an existing *Error unchanged")
	}

	got := FromError(stderrors.New("x"), CodeConfigRead)
	if got.Code != CodeConfigRead || got.Wrapped == nil {
		t.Errorf("FromError() = %+v, want wrapped E141", got)
	}
}

func TestRaise(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(*Error)
		if !ok {
			t.Fatalf("recovered %T, want *Error", r)
		}
		if err.Code != CodeUnexpectedNode {
			t.Errorf("Code = %q, want %q", err.Code, CodeUnexpectedNode)
		}
		if err.Detail != "got int" {
			t.Errorf("Detail = %q, want %q", err.Detail, "got int")
		}
	}()
	Raise(CodeUnexpectedNode, "got %T", 1)
}

func TestFromPanic(t *testing.T) {
	cause := stderrors.New("x")
	if FromPanic(cause) != cause {
		t.Error("FromPanic should pass errors through")
	}
	if !HasCode(FromPanic("text"), CodeComputationPanic) {
		t.Error("FromPanic should wrap non-errors")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeFunctionData).
		WithSuggestion("pass the value itself").
		Wrap(stderrors.New("func() any"))

	out := err.Format()
	for _, want := range []string{"ERROR E102: Data argument can't be a function", "Cause: func() any", "Hint: pass the value itself"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeFunctionData).
		WithSuggestion(`pass "the value" itself`).
		Wrap(stderrors.New("func() any\tline"))

	var buf bytes.Buffer
	Fprint(&buf, fmt.Errorf("render: %w", err), true)
	if !strings.HasSuffix(buf.String(), "\n") || strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("JSON output should be one line: %q", buf.String())
	}
	var got map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	want := map[string]string{
		"code":       "E102",
		"category":   string(CategoryContract),
		"message":    "Data argument can't be a function",
		"detail":     err.Detail,
		"suggestion": `pass "the value" itself`,
		"cause":      "func() any\tline",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("plain failure"), true)
	if got := strings.TrimSpace(buf.String()); got != `{"message":"plain failure"}` {
		t.Errorf("plain error JSON = %s", got)
	}

	buf.Reset()
	Fprint(&buf, err, false)
	if !strings.Contains(buf.String(), "ERROR E102: Data argument can't be a function") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	for _, line := range lines {
		if len(line) > 9 {
			t.Errorf("line %q longer than 9", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestRegistryCodesUnique(t *testing.T) {
	codes := GetAllCodes()
	seen := make(map[string]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("duplicate code %s", code)
		}
		seen[code] = true
		if _, ok := GetTemplate(code); !ok {
			t.Errorf("GetTemplate(%s) missing", code)
		}
	}
}
