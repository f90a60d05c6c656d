package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/DanielChung520/AI-Box-sub009/internal/value"
)

// LLMClient is the opaque NLQ-understanding endpoint contract: a generic
// {model, prompt, options} POST returning {response, prompt_eval_count,
// eval_count}, not an OpenAI-shaped chat-completions API. Production code
// talks to this over plain HTTP (LLMEndpoint); tests substitute a scripted
// fake.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (raw string, promptTokens, completionTokens int, err error)
}

// LLMEndpoint is the net/http-based production LLMClient.
type LLMEndpoint struct {
	URL         string
	Model       string
	Temperature float64
	NumPredict  int
	Timeout     time.Duration
	HTTPClient  *http.Client
}

type llmRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options"`
}

func (e *LLMEndpoint) Complete(ctx context.Context, prompt string) (string, int, int, error) {
	client := e.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	body, err := json.Marshal(llmRequest{
		Model:  e.Model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": e.Temperature,
			"num_predict": e.NumPredict,
		},
	})
	if err != nil {
		return "", 0, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return "", 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, 0, fmt.Errorf("llm endpoint returned status %d", resp.StatusCode)
	}

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		return "", 0, 0, err
	}

	raw := out.String()
	return gjson.Get(raw, "response").String(),
		int(gjson.Get(raw, "prompt_eval_count").Int()),
		int(gjson.Get(raw, "eval_count").Int()),
		nil
}

// LLMParser is the second cascade stage: builds a compact prompt naming the
// allowed intents and a table hint, calls client, and tolerantly extracts
// {intent, confidence, params} from the response. Malformed JSON is
// discarded, not retried.
type LLMParser struct {
	Client        LLMClient
	AllowedIntent []string
}

func (p *LLMParser) Parse(ctx context.Context, nlq string) (ParsedIntent, bool) {
	hint := Categorize(nlq)
	prompt := buildPrompt(nlq, p.AllowedIntent, hint)

	raw, promptTokens, completionTokens, err := p.Client.Complete(ctx, prompt)
	if err != nil || !gjson.Valid(raw) {
		return ParsedIntent{}, false
	}

	parsed := gjson.Parse(raw)
	intent := parsed.Get("intent").String()
	confidence := parsed.Get("confidence").Float()
	if intent == "" {
		return ParsedIntent{}, false
	}

	params := map[string]value.Value{}
	parsed.Get("params").ForEach(func(key, val gjson.Result) bool {
		params[key.String()] = value.NewScalar(val.String())
		return true
	})

	return ParsedIntent{
		Intent:     intent,
		Confidence: confidence,
		Params:     params,
		TokenUsage: TokenUsage{PromptTokens: promptTokens, CompletionTokens: completionTokens, Stage: "llm"},
	}, true
}

func buildPrompt(nlq string, allowed, hint []string) string {
	var b strings.Builder
	b.WriteString("Allowed intents: ")
	b.WriteString(strings.Join(allowed, ", "))
	if len(hint) > 0 {
		b.WriteString("\nLikely tables: ")
		b.WriteString(strings.Join(hint, ", "))
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(nlq)
	b.WriteString("\nRespond with JSON: {\"intent\":..., \"confidence\":..., \"params\":{...}}")
	return b.String()
}
