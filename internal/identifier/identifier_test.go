package identifier

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{name: "plain", input: "golang/go", wantOwner: "golang", wantName: "go"},
		{name: "https url", input: "https://github.com/golang/go", wantOwner: "golang", wantName: "go"},
		{name: "http url", input: "http://github.com/golang/go", wantOwner: "golang", wantName: "go"},
		{name: "git suffix", input: "https://github.com/golang/go.git", wantOwner: "golang", wantName: "go"},
		{name: "trailing slash", input: "golang/go/", wantOwner: "golang", wantName: "go"},
		{name: "everything at once", input: "https://github.com/golang/go.git/", wantOwner: "golang", wantName: "go"},
		{name: "surrounding whitespace", input: "  golang/go  ", wantOwner: "golang", wantName: "go"},
		{name: "bare host prefix", input: "github.com/golang/go", wantOwner: "golang", wantName: "go"},
		{name: "too many segments", input: "a/b/c", wantErr: true},
		{name: "single segment", input: "golang", wantErr: true},
		{name: "empty owner", input: "/go", wantErr: true},
		{name: "empty name", input: "golang/", wantErr: true},
		{name: "empty input", input: "", wantErr: true},
		{name: "only slashes", input: "//", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %q/%q", tt.input, owner, name)
				}
				var invalidErr *InvalidError
				if !errors.As(err, &invalidErr) {
					t.Errorf("Parse(%q) error is %T, want *InvalidError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if owner != tt.wantOwner || name != tt.wantName {
				t.Errorf("Parse(%q) = %q/%q, want %q/%q", tt.input, owner, name, tt.wantOwner, tt.wantName)
			}
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	owner, name, err := Parse("https://github.com/golang/go.git")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	again, againName, err := Parse(Key(owner, name))
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if again != owner || againName != name {
		t.Errorf("re-parse = %q/%q, want %q/%q", again, againName, owner, name)
	}
}

func TestKey(t *testing.T) {
	if got := Key("golang", "go"); got != "golang/go" {
		t.Errorf("Key = %q, want golang/go", got)
	}
}
