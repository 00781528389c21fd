package translate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLanguageCodeAndName(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"Hindi", "hi"},
		{"Telugu", "te"},
		{"Tamil", "ta"},
		{"Malayalam", "ml"},
		{"Bengali", "bn"},
		{"English", "en"},
	}
	for _, tt := range tests {
		if got := LanguageCode(tt.name); got != tt.code {
			t.Fatalf("LanguageCode(%q) = %q, want %q", tt.name, got, tt.code)
		}
		if got := LanguageName(tt.code); got != tt.name {
			t.Fatalf("LanguageName(%q) = %q, want %q", tt.code, got, tt.name)
		}
	}
	if got := LanguageCode("hindi"); got != "hi" {
		t.Fatalf("名称查找应忽略大小写, got %q", got)
	}
	if got := LanguageCode("Klingon"); got != "en" {
		t.Fatalf("未知名称应回退为 en, got %q", got)
	}
	if got := LanguageName("xx"); got != "English" {
		t.Fatalf("未知代码应回退为 English, got %q", got)
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("ta") || IsSupported("fr") {
		t.Fatalf("IsSupported 结果错误")
	}
}

func TestSupportedLanguagesIsCopy(t *testing.T) {
	m := SupportedLanguages()
	m["French"] = "fr"
	if _, ok := SupportedLanguages()["French"]; ok {
		t.Fatalf("SupportedLanguages 应返回副本")
	}
}

func TestLanguagesSorted(t *testing.T) {
	want := []Language{
		{"Bengali", "bn"},
		{"English", "en"},
		{"Hindi", "hi"},
		{"Malayalam", "ml"},
		{"Tamil", "ta"},
		{"Telugu", "te"},
	}
	if diff := cmp.Diff(want, Languages()); diff != "" {
		t.Fatalf("Languages mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve(t *testing.T) {
	for _, in := range []string{"hi", "HI", "Hindi", " hindi "} {
		name, code := Resolve(in)
		if name != "Hindi" || code != "hi" {
			t.Fatalf("Resolve(%q) = (%q, %q)", in, name, code)
		}
	}
}

func TestLanguageTag(t *testing.T) {
	tag, err := LanguageTag("ml")
	if err != nil {
		t.Fatalf("LanguageTag error: %v", err)
	}
	if tag.String() != "ml" {
		t.Fatalf("unexpected tag %s", tag)
	}
	if _, err := LanguageTag("not a tag!"); err == nil {
		t.Fatalf("expected error for invalid tag")
	}
}
