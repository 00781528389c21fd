package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stubTranslator 是测试用的最小实现：按字典翻译，并记录调用。
type stubTranslator struct {
	mu        sync.Mutex
	dict      map[string]string
	detected  string
	detectErr error
	err       error
	calls     int
}

func (s *stubTranslator) Translate(_ context.Context, text, target, source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if v, ok := s.dict[target+":"+text]; ok {
		return v, nil
	}
	return "", nil
}

func (s *stubTranslator) Detect(_ context.Context, _ string) (string, error) {
	if s.detectErr != nil {
		return "", s.detectErr
	}
	return s.detected, nil
}

func TestServiceTranslateShortCircuits(t *testing.T) {
	st := &stubTranslator{}
	svc := NewService(st)
	ctx := context.Background()
	if got := svc.Translate(ctx, "Hello", "en", ""); got != "Hello" {
		t.Fatalf("target en should return original, got %q", got)
	}
	if got := svc.Translate(ctx, "Hello", "hi", "hi"); got != "Hello" {
		t.Fatalf("same source/target should return original, got %q", got)
	}
	if st.calls != 0 {
		t.Fatalf("backend should not be called, calls=%d", st.calls)
	}
}

func TestServiceTranslateFallbacks(t *testing.T) {
	ctx := context.Background()

	failing := NewService(&stubTranslator{err: errors.New("network down")})
	if got := failing.Translate(ctx, "Hello", "ta", ""); got != "Hello" {
		t.Fatalf("backend error should fall back to original, got %q", got)
	}

	empty := NewService(&stubTranslator{dict: map[string]string{}})
	if got := empty.Translate(ctx, "Hello", "ta", ""); got != "Hello" {
		t.Fatalf("empty translation should fall back to original, got %q", got)
	}

	ok := NewService(&stubTranslator{dict: map[string]string{"ta:Hello": "வணக்கம்"}})
	if got := ok.Translate(ctx, "Hello", "ta", ""); got != "வணக்கம்" {
		t.Fatalf("unexpected translation %q", got)
	}
}

func TestServiceBatchTranslateKeepsOrder(t *testing.T) {
	st := &stubTranslator{dict: map[string]string{
		"bn:one":   "এক",
		"bn:two":   "দুই",
		"bn:three": "তিন",
	}}
	svc := NewService(st, WithConcurrency(2))
	got := svc.BatchTranslate(context.Background(), []string{"one", "two", "unknown", "three"}, "bn", "")
	want := []string{"এক", "দুই", "unknown", "তিন"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("BatchTranslate mismatch (-want +got):\n%s", diff)
	}
	if st.calls != 4 {
		t.Fatalf("expected 4 backend calls, got %d", st.calls)
	}
}

func TestServiceValidate(t *testing.T) {
	svc := NewService(&stubTranslator{})
	tests := []struct {
		original, translated, target string
		want                         bool
	}{
		{"Hello", "", "hi", false},
		{"Hello", "   ", "hi", false},
		{"Hello", "hello", "hi", false},
		{"Hello", "hello", "en", true},
		{"Hello", "नमस्ते", "hi", true},
		{"Hi", strings.Repeat("x", 40), "hi", true}, // 比例异常只告警
	}
	for _, tt := range tests {
		if got := svc.Validate(tt.original, tt.translated, tt.target); got != tt.want {
			t.Fatalf("Validate(%q, %q, %q) = %v, want %v", tt.original, tt.translated, tt.target, got, tt.want)
		}
	}
}

func TestServiceSmart(t *testing.T) {
	ctx := context.Background()

	t.Run("translated", func(t *testing.T) {
		svc := NewService(&stubTranslator{detected: "en", dict: map[string]string{"hi:Hello world": "नमस्ते दुनिया"}})
		got := svc.Smart(ctx, "Hello world", "Hindi")
		want := Result{
			Original:       "Hello world",
			Translated:     "नमस्ते दुनिया",
			TargetLanguage: "Hindi",
			TargetCode:     "hi",
			DetectedSource: "en",
			Success:        true,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Smart mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("already in target", func(t *testing.T) {
		st := &stubTranslator{detected: "te"}
		got := NewService(st).Smart(ctx, "నమస్కారం", "Telugu")
		if !got.Success || got.Translated != "నమస్కారం" || st.calls != 0 {
			t.Fatalf("unexpected result %+v calls=%d", got, st.calls)
		}
	})

	t.Run("validation failure keeps original", func(t *testing.T) {
		svc := NewService(&stubTranslator{detectErr: errors.New("no detect"), dict: map[string]string{"ml:OK": "ok"}})
		got := svc.Smart(ctx, "OK", "ml")
		if got.Success || got.Err != ErrValidationFailed || got.Translated != "OK" || got.DetectedSource != "" {
			t.Fatalf("unexpected result %+v", got)
		}
		if got.TargetLanguage != "Malayalam" || got.TargetCode != "ml" {
			t.Fatalf("target not resolved: %+v", got)
		}
		if got.Err != "Translation validation failed" {
			t.Fatalf("unexpected error message %q", got.Err)
		}
	})
}

func TestServiceTransliterate(t *testing.T) {
	if got := NewService(&stubTranslator{}).Transliterate("namaste", "devanagari"); got != "namaste" {
		t.Fatalf("Transliterate should return input, got %q", got)
	}
}
