// Package wire defines the newline-delimited JSON protocol the assign server
// speaks: one request envelope in, one outcome envelope out.
package wire

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
	"github.com/Bram-Hub/assign/internal/platform/errors/i18n"
	"github.com/Bram-Hub/assign/internal/services/assign/domain/message"
)

// Request is one client envelope: a type tag selecting the message variant,
// the caller's session token, and the variant payload.
type Request struct {
	Type    message.Type    `json:"type"`
	Token   string          `json:"token,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is one server envelope: the outcome code plus localized text.
type Response struct {
	Outcome  string            `json:"outcome"`
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// DecodeRequest parses one request envelope off the wire.
func DecodeRequest(line []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Request{}, apperrors.Wrap(apperrors.CodeMessageMalformed, "decode request envelope", err)
	}
	return req, nil
}

// EncodeOutcome renders an outcome as a response envelope, resolving the
// human-readable text from the locale's message catalog.
func EncodeOutcome(outcome message.Outcome, locale string) ([]byte, error) {
	resp := Response{
		Outcome:  string(outcome.Code),
		Metadata: outcome.Metadata,
	}
	if !outcome.Success() {
		resp.Message = i18n.GetCatalog(locale).Format(string(outcome.Code), outcome.Metadata)
	}
	encoded, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode response envelope: %w", err)
	}
	return encoded, nil
}

// OutcomeForError maps a decode or auth error onto a response outcome without
// going through the dispatcher.
func OutcomeForError(err error) message.Outcome {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown {
		code = apperrors.CodeInvalidRequest
	}
	return message.Outcome{Code: code, Metadata: apperrors.GetMetadata(err)}
}
