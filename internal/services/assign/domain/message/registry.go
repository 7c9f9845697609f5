package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
)

// ErrTypeRequired indicates a definition or decode request without a type tag.
var ErrTypeRequired = errors.New("message type is required")

// DecodeFunc produces a fully formed message variant from payload JSON.
type DecodeFunc func(payload json.RawMessage) (Message, error)

// Definition registers decoding for one message type.
type Definition struct {
	Type   Type
	Decode DecodeFunc
}

// Registry maps wire type tags to message definitions.
type Registry struct {
	definitions map[Type]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds a message type definition to the registry.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return errors.New("registry is required")
	}
	def.Type = Type(strings.TrimSpace(string(def.Type)))
	if def.Type == "" {
		return ErrTypeRequired
	}
	if def.Decode == nil {
		return fmt.Errorf("decode func is required for %s", def.Type)
	}
	if r.definitions == nil {
		r.definitions = make(map[Type]Definition)
	}
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("message type already registered: %s", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// Decode produces the message variant for a wire type tag and payload.
// Unknown tags and malformed payloads map onto the fixed outcome vocabulary
// so the transport edge can answer without special cases.
func (r *Registry) Decode(msgType Type, payload json.RawMessage) (Message, error) {
	if r == nil {
		return nil, errors.New("registry is required")
	}
	msgType = Type(strings.TrimSpace(string(msgType)))
	if msgType == "" {
		return nil, apperrors.New(apperrors.CodeMessageMalformed, "message type tag is missing")
	}
	def, ok := r.definitions[msgType]
	if !ok {
		return nil, apperrors.WithMetadata(
			apperrors.CodeMessageTypeUnknown,
			fmt.Sprintf("unknown message type %s", msgType),
			map[string]string{"Type": string(msgType)},
		)
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	msg, err := def.Decode(payload)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.CodeMessageMalformed, "decode message payload", err)
	}
	return msg, nil
}

// Types returns a stable, sorted snapshot of registered type tags.
func (r *Registry) Types() []Type {
	if r == nil || len(r.definitions) == 0 {
		return nil
	}
	types := make([]Type, 0, len(r.definitions))
	for t := range r.definitions {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// decodeInto unmarshals payload JSON strictly into a variant value.
func decodeInto[T Message](payload json.RawMessage) (Message, error) {
	var msg T
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&msg); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeMessageMalformed, "decode message payload", err)
	}
	return msg, nil
}

// DefaultRegistry returns a registry with every protocol message registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	definitions := []Definition{
		{Type: TypeClassCreate, Decode: decodeInto[ClassCreate]},
		{Type: TypeClassDelete, Decode: decodeInto[ClassDelete]},
		{Type: TypeClassEdit, Decode: decodeInto[ClassEdit]},
		{Type: TypeUserCreate, Decode: decodeInto[UserCreate]},
		{Type: TypeUserDelete, Decode: decodeInto[UserDelete]},
		{Type: TypeAssignmentCreate, Decode: decodeInto[AssignmentCreate]},
		{Type: TypeAssignmentDelete, Decode: decodeInto[AssignmentDelete]},
		{Type: TypeAssignmentEdit, Decode: decodeInto[AssignmentEdit]},
	}
	for _, def := range definitions {
		if err := r.Register(def); err != nil {
			// Registration of the built-in set only fails on programmer
			// error (duplicate tags), which should surface immediately.
			panic(err)
		}
	}
	return r
}
