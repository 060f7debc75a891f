package textgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"text": "plain"}`, `{"text": "plain"}`},
		{"```json\n{\"text\": \"fenced\"}\n```", `{"text": "fenced"}`},
		{"```\n{\"text\": \"bare fence\"}\n```", `{"text": "bare fence"}`},
		{"  {\"text\": \"padded\"}  ", `{"text": "padded"}`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanJSON(tc.in))
	}
}

func TestDecodePayloadLeadingProse(t *testing.T) {
	var p ReplyPayload
	err := decodePayload(`Here is the JSON you asked for: {"text": "hello"} hope that helps`, &p)
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Text)
}

func TestDecodePayloadEmpty(t *testing.T) {
	var p ReplyPayload
	assert.Error(t, decodePayload("", &p))
	assert.Error(t, decodePayload("``````", &p))
}

// scriptedClient returns fixed raw output.
type scriptedClient struct {
	raw  string
	err  error
	opts Options
}

func (s *scriptedClient) Complete(_ context.Context, _ string, opts Options) (string, error) {
	s.opts = opts
	return s.raw, s.err
}

func TestGeneratePost(t *testing.T) {
	c := &scriptedClient{raw: `{"title": "A title", "body": "A body"}`}
	p, err := GeneratePost(context.Background(), c, "prompt", Options{})
	require.NoError(t, err)
	assert.Equal(t, "A title", p.Title)
	assert.Equal(t, "A body", p.Body)
	assert.Equal(t, ShapePost, c.opts.Shape, "helper should stamp the shape")
}

func TestGeneratePostMissingField(t *testing.T) {
	c := &scriptedClient{raw: `{"title": "only a title"}`}
	_, err := GeneratePost(context.Background(), c, "prompt", Options{})
	require.Error(t, err)
	var berr *BackendError
	assert.True(t, errors.As(err, &berr))
	assert.Contains(t, berr.Reason, "missing")
}

func TestGenerateReplyUnparseable(t *testing.T) {
	c := &scriptedClient{raw: "not json at all"}
	_, err := GenerateReply(context.Background(), c, "prompt", Options{})
	var berr *BackendError
	require.True(t, errors.As(err, &berr))
	assert.NotNil(t, berr.Unwrap())
}

func TestGenerateRewrite(t *testing.T) {
	c := &scriptedClient{raw: "```json\n{\"variation\": \"reworked\"}\n```"}
	p, err := GenerateRewrite(context.Background(), c, "prompt", Options{})
	require.NoError(t, err)
	assert.Equal(t, "reworked", p.Variation)
	assert.Equal(t, ShapeRewrite, c.opts.Shape)
}

func TestBackendErrorMessage(t *testing.T) {
	e := &BackendError{Reason: "rate limited", Err: errors.New("429")}
	assert.Contains(t, e.Error(), "rate limited")
	assert.Contains(t, e.Error(), "429")
	assert.Equal(t, "text backend: bare", (&BackendError{Reason: "bare"}).Error())
}

func TestMockClientDeterministic(t *testing.T) {
	prompt := "Some persona context\n\nTarget keywords: workflow automation, cron monitoring\n\nWrite a post."

	a, err := NewMockClient(42).Complete(context.Background(), prompt, Options{Shape: ShapePost})
	require.NoError(t, err)
	b, err := NewMockClient(42).Complete(context.Background(), prompt, Options{Shape: ShapePost})
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed must reproduce the same output")
}

func TestMockClientCallOrderIndependent(t *testing.T) {
	prompts := []string{
		"Target keywords: queue backpressure\n\nWrite a post.",
		"Target keywords: schema migrations\n\nWrite a post.",
		"Target keywords: log retention\n\nWrite a post.",
		"Target keywords: flaky integration tests\n\nWrite a post.",
	}
	ctx := context.Background()

	// Forward on one client, reversed on another with the same seed: each
	// prompt must get the same canned output regardless of arrival order.
	forward := NewMockClient(7)
	got := make(map[string]string, len(prompts))
	for _, p := range prompts {
		raw, err := forward.Complete(ctx, p, Options{Shape: ShapePost})
		require.NoError(t, err)
		got[p] = raw
	}

	reversed := NewMockClient(7)
	for i := len(prompts) - 1; i >= 0; i-- {
		raw, err := reversed.Complete(ctx, prompts[i], Options{Shape: ShapePost})
		require.NoError(t, err)
		assert.Equal(t, got[prompts[i]], raw, "prompt %d", i)
	}
}

func TestMockClientCarriesTopic(t *testing.T) {
	prompt := "Target keywords: database sharding, read replicas"
	raw, err := NewMockClient(7).Complete(context.Background(), prompt, Options{Shape: ShapePost})
	require.NoError(t, err)

	p, err := GeneratePost(context.Background(), NewMockClient(7), prompt, Options{})
	require.NoError(t, err)
	assert.Contains(t, raw, "database sharding")
	assert.Contains(t, p.Title+" "+p.Body, "database sharding")
}

func TestMockClientShapes(t *testing.T) {
	c := NewMockClient(1)
	ctx := context.Background()

	post, err := GeneratePost(ctx, c, "Target keywords: caching", Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, post.Title)
	assert.NotEmpty(t, post.Body)

	reply, err := GenerateReply(ctx, c, "reply prompt", Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Text)

	rw, err := GenerateRewrite(ctx, c, "rewrite prompt", Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, rw.Variation)
}

func TestExtractTopic(t *testing.T) {
	assert.Equal(t, "first phrase",
		extractTopic("line one\nTarget keywords: first phrase, second phrase\nline three"))
	assert.Equal(t, "", extractTopic("no keyword line here"))
}
