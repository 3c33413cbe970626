package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	body     string
	err      error
	input    *bedrockruntime.InvokeModelInput
	deadline bool
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestBedrockGenerate(t *testing.T) {
	client := &fakeInvoker{body: `{"results":[{"outputText":"  The VPC is in use.  ","completionReason":"FINISH"}]}`}
	b := NewBedrock(client, DefaultConfig(), nil)

	text, err := b.Generate(context.Background(), "Error Message:\nboom")
	require.NoError(t, err)
	assert.Equal(t, "  The VPC is in use.  ", text, "trimming is left to the caller")

	require.NotNil(t, client.input)
	assert.Equal(t, DefaultModelID, aws.ToString(client.input.ModelId))
	assert.Equal(t, "application/json", aws.ToString(client.input.ContentType))
	assert.True(t, client.deadline, "every call must run under a timeout")

	var sent map[string]any
	require.NoError(t, json.Unmarshal(client.input.Body, &sent))
	assert.Equal(t, "Error Message:\nboom", sent["inputText"])

	genCfg, ok := sent["textGenerationConfig"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 1000, genCfg["maxTokenCount"], 0)
	assert.InDelta(t, 0.7, genCfg["temperature"], 0.0001)
	assert.InDelta(t, 0.9, genCfg["topP"], 0.0001)
}

func TestBedrockGenerate_EmptyResults(t *testing.T) {
	for _, body := range []string{`{"results":[]}`, `{}`} {
		b := NewBedrock(&fakeInvoker{body: body}, DefaultConfig(), nil)

		_, err := b.Generate(context.Background(), "prompt")
		assert.ErrorIs(t, err, ErrEmptyResult, "body %s", body)
	}
}

func TestBedrockGenerate_InvokeError(t *testing.T) {
	cause := errors.New("AccessDeniedException")
	b := NewBedrock(&fakeInvoker{err: cause}, DefaultConfig(), nil)

	_, err := b.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), DefaultModelID)
}

func TestBedrockGenerate_MalformedBody(t *testing.T) {
	b := NewBedrock(&fakeInvoker{body: "not json"}, DefaultConfig(), nil)

	_, err := b.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyResult)
}

func TestNewBedrock_AppliesDefaults(t *testing.T) {
	b := NewBedrock(&fakeInvoker{}, Config{Provider: ProviderBedrock}, nil)

	assert.Equal(t, DefaultModelID, b.config.ModelID)
	assert.Equal(t, DefaultMaxTokens, b.config.MaxTokens)
	assert.Equal(t, 30*time.Second, b.config.Timeout)
}
