package i18n

import "testing"

func TestGetCatalogFallsBackToBaseLocale(t *testing.T) {
	cat := GetCatalog("pt-BR")
	if cat.Locale() != "en-US" {
		t.Fatalf("locale = %q, want %q", cat.Locale(), "en-US")
	}
}

func TestGetCatalogLanguageOnlyMatch(t *testing.T) {
	cat := GetCatalog("en-GB")
	if cat.Locale() != "en-US" {
		t.Fatalf("locale = %q, want %q", cat.Locale(), "en-US")
	}
}

func TestGetCatalogEmptyLocale(t *testing.T) {
	cat := GetCatalog("")
	if cat.Locale() != "en-US" {
		t.Fatalf("locale = %q, want %q", cat.Locale(), "en-US")
	}
}

func TestFormatWithMetadata(t *testing.T) {
	cat := GetCatalog("en-US")
	got := cat.Format(CodeUserExists, map[string]string{"Username": "hbelle"})
	want := "User hbelle already exists"
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestFormatWithoutMetadataRendersEmptyVariables(t *testing.T) {
	cat := GetCatalog("en-US")
	got := cat.Format(CodeMessageTypeUnknown, nil)
	want := "Unknown message type "
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestFormatUnknownCodeFallsBackToCode(t *testing.T) {
	cat := GetCatalog("en-US")
	if got := cat.Format("NO_SUCH_CODE", nil); got != "NO_SUCH_CODE" {
		t.Fatalf("Format = %q, want code passthrough", got)
	}
}

func TestFormatPlainMessage(t *testing.T) {
	cat := GetCatalog("en-US")
	got := cat.Format(CodeClassNameEmpty, nil)
	if got != "Class name cannot be empty" {
		t.Fatalf("Format = %q", got)
	}
}
