package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLMClient struct {
	raw              string
	promptTokens     int
	completionTokens int
	err              error
}

func (f *fakeLLMClient) Complete(ctx context.Context, prompt string) (string, int, int, error) {
	return f.raw, f.promptTokens, f.completionTokens, f.err
}

func TestLLMParserParsesWellFormedResponse(t *testing.T) {
	client := &fakeLLMClient{raw: `{"intent":"QUERY_INVENTORY","confidence":0.92,"params":{"ITEM_NO":"A100"}}`}
	p := &LLMParser{Client: client, AllowedIntent: []string{"QUERY_INVENTORY"}}
	pi, ok := p.Parse(context.Background(), "查詢料號 A100 庫存")
	require.True(t, ok)
	assert.Equal(t, "QUERY_INVENTORY", pi.Intent)
	assert.Equal(t, 0.92, pi.Confidence)
	assert.Equal(t, "A100", pi.Params["ITEM_NO"].Scalar)
	assert.Equal(t, "llm", pi.TokenUsage.Stage)
}

func TestLLMParserDiscardsMalformedJSON(t *testing.T) {
	client := &fakeLLMClient{raw: `not json`}
	p := &LLMParser{Client: client}
	_, ok := p.Parse(context.Background(), "anything")
	assert.False(t, ok)
}

func TestLLMParserDiscardsMissingIntent(t *testing.T) {
	client := &fakeLLMClient{raw: `{"confidence":0.9}`}
	p := &LLMParser{Client: client}
	_, ok := p.Parse(context.Background(), "anything")
	assert.False(t, ok)
}
