// Package pipeline orchestrates the complete conformity check: extract the
// document text, query the model with the template checklist, normalize the
// response and resolve the deterministic verdict.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cbrunet/conforma/internal/cache"
	"github.com/cbrunet/conforma/internal/llm"
	"github.com/cbrunet/conforma/internal/model"
	"github.com/cbrunet/conforma/internal/normalize"
	"github.com/cbrunet/conforma/internal/ocr"
	"github.com/cbrunet/conforma/internal/prompt"
	"github.com/cbrunet/conforma/internal/resolve"
	"github.com/cbrunet/conforma/internal/template"
)

// Document is one input to the pipeline
type Document struct {
	Filename string
	Category string
	PDF      []byte
	Metadata map[string]string
}

// ConfigurationError reports a setup problem the operator must fix
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// ExternalServiceError reports a failure in OCR or the model API
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// Gate throttles calls against the model API
type Gate interface {
	Wait(ctx context.Context, provider string) error
}

// Pipeline runs conformity checks against registered templates
type Pipeline struct {
	registry  *template.Registry
	extractor ocr.Extractor
	provider  llm.Provider
	resolver  *resolve.Resolver
	cache     cache.Cache
	gate      Gate
	config    *model.Config
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a pipeline from configuration. The returned pipeline has no
// rate gate; callers wire one with UseGate.
func New(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	if provider != nil {
		provider = llm.WithBreaker(provider)
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	return &Pipeline{
		registry:  template.NewRegistry(),
		extractor: ocr.NewExtractor(ocrConfigFrom(cfg.OCR)),
		provider:  provider,
		resolver:  resolve.NewResolver(logger),
		cache:     store,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// UseGate installs a rate gate shared across concurrent pipeline calls
func (p *Pipeline) UseGate(g Gate) {
	p.gate = g
}

// Registry exposes the template registry for listing and registration
func (p *Pipeline) Registry() *template.Registry {
	return p.registry
}

// AnalyzeDocument checks one PDF against the template for its category
func (p *Pipeline) AnalyzeDocument(ctx context.Context, doc Document) (*model.AnalysisResult, error) {
	if p.provider == nil {
		return nil, &ConfigurationError{Reason: "no LLM provider configured"}
	}

	tpl, err := p.registry.Get(doc.Category)
	if err != nil {
		return nil, err
	}

	// A cached verdict skips both OCR and the model call
	resultKey := cache.ResultKey(doc.PDF, tpl.Category, p.config.LLM.Model)
	if data, found := p.cacheGet(resultKey); found {
		var cached model.AnalysisResult
		if err := json.Unmarshal(data, &cached); err == nil {
			p.logger.Debug("result cache hit", zap.String("file", doc.Filename))
			cached.Filename = doc.Filename
			mergeMetadata(&cached, doc.Metadata)
			return &cached, nil
		}
	}

	text, err := p.extractText(ctx, doc)
	if err != nil {
		return nil, err
	}

	result, err := p.analyze(ctx, tpl, text)
	if err != nil {
		return nil, err
	}
	result.Filename = doc.Filename
	mergeMetadata(result, doc.Metadata)

	if data, err := json.Marshal(result); err == nil {
		p.cacheSet(resultKey, data)
	}

	return result, nil
}

// AnalyzeText checks already-extracted text against a template. This is the
// entry point for callers that handle extraction themselves.
func (p *Pipeline) AnalyzeText(ctx context.Context, category, text string) (*model.AnalysisResult, error) {
	if p.provider == nil {
		return nil, &ConfigurationError{Reason: "no LLM provider configured"}
	}

	tpl, err := p.registry.Get(category)
	if err != nil {
		return nil, err
	}

	return p.analyze(ctx, tpl, text)
}

func (p *Pipeline) extractText(ctx context.Context, doc Document) (string, error) {
	textKey := cache.TextKey(doc.PDF)
	if data, found := p.cacheGet(textKey); found {
		p.logger.Debug("text cache hit", zap.String("file", doc.Filename))
		return string(data), nil
	}

	start := p.now()
	text, err := p.extractor.ExtractText(ctx, doc.PDF)
	if err != nil {
		return "", &ExternalServiceError{Service: "ocr", Err: err}
	}
	p.logger.Debug("text extracted",
		zap.String("file", doc.Filename),
		zap.Int("chars", len(text)),
		zap.Duration("took", p.now().Sub(start)))

	p.cacheSet(textKey, []byte(text))
	return text, nil
}

func (p *Pipeline) analyze(ctx context.Context, tpl *model.DocumentTemplate, text string) (*model.AnalysisResult, error) {
	if p.gate != nil {
		if err := p.gate.Wait(ctx, p.provider.Name()); err != nil {
			return nil, err
		}
	}

	resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: prompt.SystemPrompt,
		Prompt:       prompt.Build(tpl),
		DocumentText: text,
		Model:        p.config.LLM.Model,
		MaxTokens:    p.config.LLM.MaxTokens,
	})
	if err != nil {
		return nil, &ExternalServiceError{Service: "llm", Err: err}
	}

	raw, err := normalize.Parse(resp.Text)
	if err != nil {
		return nil, &ExternalServiceError{Service: "llm", Err: err}
	}

	result := p.resolver.Resolve(tpl, raw, p.now())
	result.Metadata = map[string]string{
		"provider": p.provider.Name(),
		"model":    resp.Model,
	}

	p.logger.Info("document analyzed",
		zap.String("category", tpl.Category),
		zap.String("status", string(result.GlobalStatus)),
		zap.String("recommendation", string(result.GlobalRecommendation)),
		zap.Int("tokens", resp.TokensUsed))

	return result, nil
}

func (p *Pipeline) cacheGet(key string) ([]byte, bool) {
	if p.cache == nil {
		return nil, false
	}
	return p.cache.Get(key)
}

func (p *Pipeline) cacheSet(key string, data []byte) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(key, data, p.config.Cache.TTL); err != nil {
		p.logger.Warn("cache write failed", zap.Error(err))
	}
}

func mergeMetadata(result *model.AnalysisResult, extra map[string]string) {
	if len(extra) == 0 {
		return
	}
	if result.Metadata == nil {
		result.Metadata = make(map[string]string, len(extra))
	}
	for k, v := range extra {
		result.Metadata[k] = v
	}
}

func ocrConfigFrom(mc model.OCRConfig) ocr.Config {
	return ocr.Config{
		Lang:       mc.Lang,
		DPI:        mc.DPI,
		Contrast:   mc.Contrast,
		Threshold:  mc.Threshold,
		Preprocess: mc.Preprocess,
		Grayscale:  mc.Grayscale,
	}
}
