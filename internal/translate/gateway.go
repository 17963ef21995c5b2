// Package translate adapts the remote text-translation provider. The
// gateway never fails its caller: any provider problem degrades to the
// original text, with the degradation reported on the result.
package translate

import (
	"context"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/craftista/storefront/config"
	"github.com/craftista/storefront/pkg/metrics"
)

const defaultTimeout = 15 * time.Second

// Result is a single translated text. Degraded means the provider was
// unavailable or misconfigured and Text is the untranslated input.
type Result struct {
	Text     string
	Degraded bool
}

// BatchResult is the batch counterpart of Result. Texts always has the same
// length and order as the input.
type BatchResult struct {
	Texts    []string
	Degraded bool
}

// Translator is the engine-facing translation contract.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) Result
	TranslateBatch(ctx context.Context, texts []string, from, to string) BatchResult
}

// Gateway talks to the provider's HTTP API. The credential is injected via
// config; an empty key puts the gateway in pass-through mode.
type Gateway struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
}

var _ Translator = (*Gateway)(nil)

func NewGateway(cfg config.TranslateConfig) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.ApiKey,
		timeout:  timeout,
	}
}

type translateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate translates one text. Identical source and target languages are
// a no-op fast path with no network call.
func (g *Gateway) Translate(ctx context.Context, text, from, to string) Result {
	batch := g.TranslateBatch(ctx, []string{text}, from, to)
	return Result{Text: batch.Texts[0], Degraded: batch.Degraded}
}

// TranslateBatch translates texts in order, in one provider round-trip. On
// any failure it returns the inputs unchanged with Degraded set.
func (g *Gateway) TranslateBatch(ctx context.Context, texts []string, from, to string) BatchResult {
	if len(texts) == 0 {
		return BatchResult{Texts: []string{}}
	}
	passthrough := make([]string, len(texts))
	copy(passthrough, texts)

	if from == to || allEmpty(texts) {
		return BatchResult{Texts: passthrough}
	}
	if g.apiKey == "" {
		zap.L().Warn("translate: no api key configured, passing text through",
			zap.String("from", from), zap.String("to", to))
		metrics.Incr(metrics.MetricTranslateDegraded, int64(len(texts)))
		return BatchResult{Texts: passthrough, Degraded: true}
	}

	metrics.Incr(metrics.MetricTranslateCalls, 1)

	var (
		body []byte
		code int
	)
	err := gout.POST(g.endpoint).
		WithContext(ctx).
		SetTimeout(g.timeout).
		SetQuery(gout.H{"key": g.apiKey}).
		SetJSON(translateRequest{
			Q:      texts,
			Source: ProviderCode(from),
			Target: ProviderCode(to),
			Format: "text",
		}).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		zap.L().Warn("translate: provider call failed, passing text through",
			zap.String("from", from), zap.String("to", to), zap.Error(err))
		metrics.Incr(metrics.MetricTranslateDegraded, int64(len(texts)))
		return BatchResult{Texts: passthrough, Degraded: true}
	}
	if code < 200 || code > 299 {
		zap.L().Warn("translate: provider returned non-success status",
			zap.Int("status", code), zap.String("from", from), zap.String("to", to))
		metrics.Incr(metrics.MetricTranslateDegraded, int64(len(texts)))
		return BatchResult{Texts: passthrough, Degraded: true}
	}

	var resp translateResponse
	if err := jsoniter.Unmarshal(body, &resp); err != nil ||
		len(resp.Data.Translations) != len(texts) {
		zap.L().Warn("translate: malformed provider response, passing text through",
			zap.Int("want", len(texts)), zap.Int("got", len(resp.Data.Translations)),
			zap.Error(err))
		metrics.Incr(metrics.MetricTranslateDegraded, int64(len(texts)))
		return BatchResult{Texts: passthrough, Degraded: true}
	}

	out := make([]string, len(texts))
	for i, tr := range resp.Data.Translations {
		out[i] = tr.TranslatedText
	}
	return BatchResult{Texts: out}
}

func allEmpty(texts []string) bool {
	for _, t := range texts {
		if t != "" {
			return false
		}
	}
	return true
}
