package textgen

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"hash/fnv"
	"strings"
)

// MockClient returns canned, seed-reproducible responses with no network
// call. Selection is a pure function of the seed, the requested shape, and
// the prompt, so output does not depend on the order calls arrive in when
// threads generate concurrently. It reads the "Target keywords:" line of
// the prompt so canned posts still carry the requested topic, which keeps
// the sanitization pass and scenario tests meaningful.
type MockClient struct {
	seed int64
}

// NewMockClient creates a mock backend seeded for reproducibility.
func NewMockClient(seed int64) *MockClient {
	return &MockClient{seed: seed}
}

var _ Client = (*MockClient)(nil)

var mockTitles = []string{
	"Anyone else run into this when scaling up?",
	"What finally worked for our team",
	"Looking for honest takes on this approach",
	"A few lessons from the last six months",
	"Is this actually worth the setup cost?",
}

var mockBodies = []string{
	"We spent a good chunk of last quarter wrestling with %s and I'm still not convinced we landed on the right setup. The docs make it sound simple but the edge cases piled up fast. Curious what others ended up doing, because the obvious path had some real drawbacks for us.",
	"Short version: we tried three different approaches to %s before settling. The first looked great in a demo and fell over under real load. The second worked but the maintenance burden was heavy. What we run now is boring and that turned out to be the point.",
	"I keep seeing %s come up in threads here, though the advice is all over the place. For context we're a small team with limited time for infrastructure work, so anything that needs constant babysitting is out. What would you actually pick today, and what would you avoid?",
	"Honest question about %s. We did a bake-off last month and the results surprised me, but the gap was narrower than the marketing suggests. Happy to share numbers if anyone's interested, though I'd love to hear from people running this at a bigger scale first.",
}

var mockReplies = []string{
	"We went through something similar last year. The thing nobody mentions is the migration cost, which took us about twice as long as planned. It worked out, but I'd budget more time than you think you need.",
	"Depends a lot on your team size honestly. For us the simpler option won because nobody had to relearn anything. The fancier setup looked better on paper but we'd still be maintaining it.",
	"Not sure I agree with the premise here. We tried that route and rolled it back within a month, though our workload is probably heavier than typical. What does your read/write split look like?",
	"Good write-up. One thing I'd add: check the upgrade story before committing. We got burned by a breaking change two versions in and the rollback was painful.",
	"This matches our experience, but the setup effort was the real cost. Once it was running it mostly stayed out of the way. The first two weeks were rough though.",
	"Interesting take. We measured this recently and the difference was smaller than expected, maybe ten percent in our case. Might depend on the workload shape.",
}

var mockVariations = []string{
	"Reworked it a bit: we kept running into the same tradeoff and ended up picking the option that was easier to undo. Not glamorous, but six months in nobody regrets it, though I'd still revisit the decision if our load doubled.",
	"Here's another angle: the tooling mattered less than the process around it. Once we agreed on how to review changes, either option would have worked. That said, the simpler one made the on-call rotation noticeably quieter.",
	"Different framing, same conclusion. The cost that mattered wasn't the license or the compute, it was attention. Whatever demands the least of it on a bad day wins, and for us that wasn't the obvious pick.",
}

// Complete returns a canned response matching the requested shape.
func (m *MockClient) Complete(_ context.Context, prompt string, opts Options) (string, error) {
	topic := extractTopic(prompt)

	switch opts.Shape {
	case ShapePost:
		title := mockTitles[m.pick(prompt, opts.Shape, "title", len(mockTitles))]
		body := mockBodies[m.pick(prompt, opts.Shape, "body", len(mockBodies))]
		if strings.Contains(body, "%s") {
			body = strings.Replace(body, "%s", topic, 1)
		}
		if topic != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(topic)) {
			title = title + " (" + topic + ")"
		}
		return encodeMock(PostPayload{Title: title, Body: body})
	case ShapeRewrite:
		return encodeMock(RewritePayload{Variation: mockVariations[m.pick(prompt, opts.Shape, "", len(mockVariations))]})
	default:
		return encodeMock(ReplyPayload{Text: mockReplies[m.pick(prompt, opts.Shape, "", len(mockReplies))]})
	}
}

// pick hashes the seed, shape, salt, and prompt into a table index.
func (m *MockClient) pick(prompt string, shape Shape, salt string, n int) int {
	h := fnv.New64a()
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], uint64(m.seed))
	h.Write(seed[:])
	h.Write([]byte(shape))
	h.Write([]byte{0})
	h.Write([]byte(salt))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return int(h.Sum64() % uint64(n))
}

// extractTopic pulls the first keyword off the prompt's target-keywords
// section, if present.
func extractTopic(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if rest, ok := strings.CutPrefix(line, "Target keywords: "); ok {
			parts := strings.Split(rest, ",")
			return strings.TrimSpace(parts[0])
		}
	}
	return ""
}

func encodeMock(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", &BackendError{Reason: "mock encode failed", Err: err}
	}
	return string(data), nil
}
