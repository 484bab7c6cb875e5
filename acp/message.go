// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package acp

import (
	"fmt"
	"strings"
)

// NewPart creates a part with the given content and MIME type.
// An empty content type falls back to text/plain.
func NewPart(content, contentType string) MessagePart {
	if contentType == "" {
		contentType = ContentTypeText
	}
	return MessagePart{
		Content:     content,
		ContentType: contentType,
	}
}

// TextPart creates a text/plain part.
func TextPart(content string) MessagePart {
	return NewPart(content, ContentTypeText)
}

// NewMessage creates a user message from the given parts.
func NewMessage(parts ...MessagePart) Message {
	return Message{
		Role:  RoleUser,
		Parts: parts,
	}
}

// IsText reports whether the part carries inline text.
func (p MessagePart) IsText() bool {
	if p.ContentURL != "" || p.ContentEncoding == EncodingBase64 {
		return false
	}
	return p.ContentType == "" || strings.HasPrefix(p.ContentType, "text/")
}

// Validate checks that the part has content or points to it.
func (p MessagePart) Validate() error {
	if p.Content != "" && p.ContentURL != "" {
		return fmt.Errorf("part must have either content or content_url, not both")
	}
	switch p.ContentEncoding {
	case "", EncodingPlain, EncodingBase64:
	default:
		return fmt.Errorf("unsupported content encoding %q", p.ContentEncoding)
	}
	return nil
}

// Validate checks that the message has at least one valid part.
func (m Message) Validate() error {
	if len(m.Parts) == 0 {
		return ErrEmptyMessage
	}
	for i, part := range m.Parts {
		if err := part.Validate(); err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}
	}
	return nil
}

// Text concatenates the text parts of the message.
func (m Message) Text() string {
	var sb strings.Builder
	for _, part := range m.Parts {
		if part.IsText() {
			sb.WriteString(part.Content)
		}
	}
	return sb.String()
}

// OutputText joins the text of all messages with newlines.
func OutputText(messages []Message) string {
	texts := make([]string, 0, len(messages))
	for _, msg := range messages {
		if text := msg.Text(); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

// validateInput enforces that a run request carries at least one message
// and that every message carries at least one part.
func validateInput(input []Message) error {
	if len(input) == 0 {
		return ErrEmptyInput
	}
	for i, msg := range input {
		if err := msg.Validate(); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}
