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
			name:    "recursion limit",
			code:    "R001",
			wantMsg: "Maximum recursive updates exceeded",
			wantCat: CategoryScheduler,
		},
		{
			name:    "render panic",
			code:    "R010",
			wantMsg: "Render function panicked",
			wantCat: CategoryRender,
		},
		{
			name:    "config",
			code:    "C001",
			wantMsg: "Invalid configuration file",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "R999",
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
	err := Newf(CategoryCLI, "unknown key %q", "x")
	if err.Message != `unknown key "x"` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != "" {
		t.Errorf("Code = %q, want empty", err.Code)
	}
}

func TestErrorString(t *testing.T) {
	err := New("R001").WithSource("Counter.update")
	want := "R001: Maximum recursive updates exceeded (in Counter.update)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	cause := stderrors.New("boom")
	err = New("R002").Wrap(cause)
	if !strings.HasSuffix(err.Error(), ": boom") {
		t.Errorf("Error() = %q, want wrapped cause suffix", err.Error())
	}
}

func TestUnwrap(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := New("R001").Wrap(sentinel)
	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should see the wrapped sentinel")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "R002") != nil {
		t.Error("FromError(nil) should be nil")
	}

	plain := stderrors.New("plain")
	re := FromError(plain, "R002")
	if re.Code != "R002" || re.Wrapped != plain {
		t.Errorf("unexpected wrap: %+v", re)
	}

	existing := New("R010")
	if FromError(existing, "R002") != existing {
		t.Error("FromError should return an existing *Error unchanged")
	}
}

func TestFromPanic(t *testing.T) {
	if FromPanic(nil, "R002") != nil {
		t.Error("nil panic value should give nil")
	}

	err := FromPanic("kaboom", "R021")
	if err.Code != "R021" {
		t.Errorf("Code = %q, want R021", err.Code)
	}
	if !strings.Contains(err.Error(), "panic: kaboom") {
		t.Errorf("Error() = %q", err.Error())
	}

	cause := stderrors.New("typed")
	err = FromPanic(cause, "R010")
	if !stderrors.Is(err, cause) {
		t.Error("error panic values should be wrapped, not stringified")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R001").WithSource("job#3").WithDetail("re-queued 101 times")
	out := err.Format()

	for _, want := range []string{"ERROR R001:", "in job#3", "re-queued 101 times", "Hint:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("R010").WithSource("App")
	if got := err.FormatCompact(); got != "R010: Render function panicked [App]" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("C001").Wrap(stderrors.New("line 3"))
	out := err.FormatJSON()
	for _, want := range []string{`"code":"C001"`, `"category":"config"`, `"cause":"line 3"`} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatJSON() missing %s in %s", want, out)
		}
	}
}

func TestFprintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	FprintError(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("expected registered codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
}

func TestRegister(t *testing.T) {
	Register("Z999", ErrorTemplate{Category: CategoryCLI, Message: "custom"})
	defer delete(registry, "Z999")

	tmpl, ok := GetTemplate("Z999")
	if !ok || tmpl.Message != "custom" {
		t.Errorf("GetTemplate(Z999) = %+v, %v", tmpl, ok)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	got = wrapText("", 10)
	if len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
