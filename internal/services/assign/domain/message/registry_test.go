package message

import (
	"encoding/json"
	"testing"

	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
	"github.com/Bram-Hub/assign/internal/services/assign/domain/perm"
)

func TestRegisterRejectsEmptyType(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	err := r.Register(Definition{Type: "  ", Decode: decodeInto[ClassDelete]})
	if err != ErrTypeRequired {
		t.Fatalf("err = %v, want %v", err, ErrTypeRequired)
	}
}

func TestRegisterRejectsNilDecode(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register(Definition{Type: TypeClassDelete}); err == nil {
		t.Fatal("expected error for nil decode func")
	}
}

func TestRegisterRejectsDuplicateType(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	def := Definition{Type: TypeClassDelete, Decode: decodeInto[ClassDelete]}
	if err := r.Register(def); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(def); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestDecodeProducesFullyFormedVariant(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	msg, err := r.Decode(TypeClassDelete, json.RawMessage(`{"class_id": 7}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	del, ok := msg.(ClassDelete)
	if !ok {
		t.Fatalf("decoded %T, want ClassDelete", msg)
	}
	if del.ClassID != 7 {
		t.Fatalf("class id = %d, want 7", del.ClassID)
	}
	if del.RequiredPermission() != perm.PermClassCreateDelete {
		t.Fatalf("permission = %s", del.RequiredPermission())
	}
}

func TestDecodeUnknownTypeTag(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	_, err := r.Decode("CLASS_EXPLODE", json.RawMessage(`{}`))
	if apperrors.GetCode(err) != apperrors.CodeMessageTypeUnknown {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodeMessageTypeUnknown)
	}
	if apperrors.GetMetadata(err)["Type"] != "CLASS_EXPLODE" {
		t.Fatalf("metadata = %v", apperrors.GetMetadata(err))
	}
}

func TestDecodeMissingTypeTag(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	_, err := r.Decode("", json.RawMessage(`{}`))
	if apperrors.GetCode(err) != apperrors.CodeMessageMalformed {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodeMessageMalformed)
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	_, err := r.Decode(TypeClassDelete, json.RawMessage(`{"class_id": "seven"}`))
	if apperrors.GetCode(err) != apperrors.CodeMessageMalformed {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodeMessageMalformed)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	_, err := r.Decode(TypeClassDelete, json.RawMessage(`{"class_id": 7, "extra": true}`))
	if apperrors.GetCode(err) != apperrors.CodeMessageMalformed {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodeMessageMalformed)
	}
}

func TestDecodeEmptyPayloadYieldsZeroValueVariant(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	msg, err := r.Decode(TypeClassDelete, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// The zero variant decodes fine but must fail validation.
	if msg.Validate() == nil {
		t.Fatal("zero-value variant should fail validation")
	}
}

func TestDefaultRegistryCoversAllTypes(t *testing.T) {
	t.Parallel()

	want := []Type{
		TypeAssignmentCreate,
		TypeAssignmentDelete,
		TypeAssignmentEdit,
		TypeClassCreate,
		TypeClassDelete,
		TypeClassEdit,
		TypeUserCreate,
		TypeUserDelete,
	}
	got := DefaultRegistry().Types()
	if len(got) != len(want) {
		t.Fatalf("types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRequiredPermissionFixedPerVariant(t *testing.T) {
	t.Parallel()

	// The permission tag depends only on the variant, never on field values.
	if (ClassDelete{}).RequiredPermission() != (ClassDelete{ClassID: 7}).RequiredPermission() {
		t.Fatal("ClassDelete permission varies with fields")
	}
	if (UserCreate{}).RequiredPermission() != (UserCreate{Username: "x", Role: "admin"}).RequiredPermission() {
		t.Fatal("UserCreate permission varies with fields")
	}
}
