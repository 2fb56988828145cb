package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidTree, "duplicate node id: %s", "n1")

	if err.Code != ErrCodeInvalidTree {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidTree)
	}
	if err.Message != "duplicate node id: n1" {
		t.Errorf("Message = %q, want %q", err.Message, "duplicate node id: n1")
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch %s", "http://example.com/doc.json")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeNotFound, "no such node"),
			want: "NOT_FOUND: no such node",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeNetwork, stderrors.New("timeout"), "fetch failed"),
			want: "NETWORK_ERROR: fetch failed: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidTree, "bad tree")

	if !Is(err, ErrCodeInvalidTree) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInvalidTree) {
		t.Error("Is should not match a plain error")
	}

	// Wrapped in a plain error chain
	wrapped := fmt.Errorf("outer: %w", err)
	if !Is(wrapped, ErrCodeInvalidTree) {
		t.Error("Is should unwrap plain wrappers")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeTimeout)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "no such node")); got != "no such node" {
		t.Errorf("UserMessage = %q, want %q", got, "no such node")
	}
	if got := UserMessage(stderrors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage = %q, want %q", got, "plain error")
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "node-1", false},
		{"uuid style", "3b241101-e2bb-4255-8caf-4136c566a964", false},
		{"empty", "", true},
		{"control character", "node\x01", true},
		{"null byte", "node\x00", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "out/plan.frame.json", false},
		{"absolute", "/tmp/plan.svg", false},
		{"empty", "", true},
		{"null byte", "plan\x00.svg", true},
		{"control character", "plan\x07.svg", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://example.com/doc.json", false},
		{"http", "http://localhost:8080/doc.json", false},
		{"empty", "", true},
		{"file scheme", "file:///etc/passwd", true},
		{"no scheme", "example.com/doc.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
