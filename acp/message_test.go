package acp

import (
	"errors"
	"testing"
)

func TestNewPart(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		contentType string
		wantType    string
	}{
		{"explicit text", "X", "text/plain", "text/plain"},
		{"empty type defaults to text", "X", "", ContentTypeText},
		{"json", `{"a":1}`, "application/json", "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part := NewPart(tt.content, tt.contentType)
			if part.Content != tt.content {
				t.Errorf("Expected content %q, got %q", tt.content, part.Content)
			}
			if part.ContentType != tt.wantType {
				t.Errorf("Expected content type %q, got %q", tt.wantType, part.ContentType)
			}
		})
	}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(TextPart("Howdy to echo from client!"))

	if msg.Role != RoleUser {
		t.Errorf("Expected role %q, got %q", RoleUser, msg.Role)
	}
	if len(msg.Parts) != 1 {
		t.Fatalf("Expected 1 part, got %d", len(msg.Parts))
	}
	if msg.Parts[0].ContentType != "text/plain" {
		t.Errorf("Expected text/plain, got %q", msg.Parts[0].ContentType)
	}
}

func TestMessageText(t *testing.T) {
	msg := Message{Parts: []MessagePart{
		TextPart("Hello, "),
		{ContentType: "image/png", Content: "aGk=", ContentEncoding: EncodingBase64},
		{ContentType: "text/plain", ContentURL: "https://example.com/a.txt"},
		TextPart("world"),
	}}

	if got := msg.Text(); got != "Hello, world" {
		t.Errorf("Expected %q, got %q", "Hello, world", got)
	}
}

func TestOutputText(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     string
	}{
		{"nil", nil, ""},
		{"single", []Message{NewMessage(TextPart("a"))}, "a"},
		{"multiple", []Message{NewMessage(TextPart("a")), NewMessage(TextPart("b"))}, "a\nb"},
		{"skips empty", []Message{NewMessage(TextPart("a")), {}, NewMessage(TextPart("b"))}, "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputText(tt.messages); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		input   []Message
		wantErr error
	}{
		{"valid", []Message{NewMessage(TextPart("x"))}, nil},
		{"no messages", nil, ErrEmptyInput},
		{"message without parts", []Message{NewMessage()}, ErrEmptyMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMessagePartValidate(t *testing.T) {
	tests := []struct {
		name    string
		part    MessagePart
		wantErr bool
	}{
		{"inline", TextPart("x"), false},
		{"url", MessagePart{ContentType: "text/plain", ContentURL: "https://example.com"}, false},
		{"both", MessagePart{Content: "x", ContentURL: "https://example.com"}, true},
		{"bad encoding", MessagePart{Content: "x", ContentEncoding: "gzip"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.part.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunStatusIsTerminal(t *testing.T) {
	terminal := map[RunStatus]bool{
		RunStatusCreated:    false,
		RunStatusInProgress: false,
		RunStatusAwaiting:   false,
		RunStatusCancelling: false,
		RunStatusCancelled:  true,
		RunStatusCompleted:  true,
		RunStatusFailed:     true,
	}
	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s: expected IsTerminal() = %v, got %v", status, want, got)
		}
	}
}

func TestHTTPErrorUnwrap(t *testing.T) {
	protoErr := &Error{Code: ErrorCodeNotFound, Message: "agent nope not found"}
	err := error(&HTTPError{StatusCode: 404, Status: "404 Not Found", Err: protoErr})

	var target *Error
	if !errors.As(err, &target) || target.Code != ErrorCodeNotFound {
		t.Errorf("Expected wrapped ACP error, got %v", err)
	}

	bare := &HTTPError{StatusCode: 502, Status: "502 Bad Gateway"}
	if bare.Unwrap() != nil {
		t.Error("Expected nil Unwrap without protocol error")
	}
	if bare.Error() != "HTTP 502: 502 Bad Gateway" {
		t.Errorf("Unexpected message %q", bare.Error())
	}
}
