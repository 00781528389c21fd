package translate

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 4

	minLengthRatio = 0.3
	maxLengthRatio = 3.0
)

// ErrValidationFailed 是 Smart 在译文校验失败时写入 Result.Err 的信息。
const ErrValidationFailed = "Translation validation failed"

// Service 在 Translator 之上实现回退与校验策略：任何翻译失败都回退为原文，不向调用方返回错误。
type Service struct {
	translator  Translator
	logger      *slog.Logger
	concurrency int
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrency 限制 BatchTranslate 的并发请求数。
func WithConcurrency(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewService(t Translator, opts ...ServiceOption) *Service {
	s := &Service{
		translator:  t,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result 记录一次 Smart 翻译的结果与元数据。
type Result struct {
	Original       string `json:"original"`
	Translated     string `json:"translated"`
	TargetLanguage string `json:"target_language"`
	TargetCode     string `json:"target_code"`
	DetectedSource string `json:"detected_source,omitempty"`
	Success        bool   `json:"success"`
	Err            string `json:"error,omitempty"`
}

// Translate 将 text 翻译为 target。目标为英文或与源语言相同时直接返回原文；
// 后端出错或返回空串时同样返回原文。
func (s *Service) Translate(ctx context.Context, text, target, source string) string {
	if source == "" {
		source = AutoDetect
	}
	if target == English || target == source {
		return text
	}
	translated, err := s.translator.Translate(ctx, text, target, source)
	if err != nil {
		s.logger.Error("translation failed", slog.String("error", err.Error()))
		return text
	}
	s.logger.Info("translation successful", slog.String("source", source), slog.String("target", target))
	if translated == "" {
		return text
	}
	return translated
}

// BatchTranslate 并发翻译多段文本，结果顺序与输入一致，失败项保留原文。
func (s *Service) BatchTranslate(ctx context.Context, texts []string, target, source string) []string {
	out := make([]string, len(texts))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, text := range texts {
		g.Go(func() error {
			out[i] = s.Translate(ctx, text, target, source)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Detect 返回 text 的语言代码；检测失败时 ok 为 false。
func (s *Service) Detect(ctx context.Context, text string) (string, bool) {
	code, err := s.translator.Detect(ctx, text)
	if err != nil {
		s.logger.Error("language detection failed", slog.String("error", err.Error()))
		return "", false
	}
	return code, true
}

// Validate 对译文做基本检查：非空；目标非英文时不能与原文相同（忽略大小写）。
// 长度比例异常只记录警告。
func (s *Service) Validate(original, translated, target string) bool {
	if strings.TrimSpace(translated) == "" {
		return false
	}
	if target != English && strings.EqualFold(original, translated) {
		return false
	}
	ratio := 1.0
	if n := utf8.RuneCountInString(original); n > 0 {
		ratio = float64(utf8.RuneCountInString(translated)) / float64(n)
	}
	if ratio > maxLengthRatio || ratio < minLengthRatio {
		s.logger.Warn("translation length ratio unusual", slog.Float64("ratio", ratio))
	}
	return true
}

// Smart 先检测源语言，再翻译并校验。targetLanguage 可以是语言名称或代码。
func (s *Service) Smart(ctx context.Context, text, targetLanguage string) Result {
	name, code := Resolve(targetLanguage)
	res := Result{
		Original:       text,
		Translated:     text,
		TargetLanguage: name,
		TargetCode:     code,
	}

	if detected, ok := s.Detect(ctx, text); ok {
		res.DetectedSource = detected
		if detected == code {
			res.Success = true
			return res
		}
	}

	translated := s.Translate(ctx, text, code, AutoDetect)
	if !s.Validate(text, translated, code) {
		res.Err = ErrValidationFailed
		return res
	}
	res.Translated = translated
	res.Success = true
	return res
}

// Transliterate 尚未接入音译后端，记录请求后原样返回。
func (s *Service) Transliterate(text, script string) string {
	s.logger.Info("transliteration requested", slog.String("script", script))
	return text
}
