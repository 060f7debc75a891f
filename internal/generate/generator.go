// Package generate turns assigned slots into finished threads: it builds
// prompts, invokes the text backend, applies deterministic sanitization,
// and computes reply timing. Independent threads are generated through a
// bounded worker pool; calls within a thread stay sequential because each
// reply's prompt includes all earlier replies.
package generate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cadence/internal/config"
	"cadence/internal/logging"
	"cadence/internal/textgen"
	"cadence/internal/types"
)

// Generator orchestrates content generation for one run.
type Generator struct {
	client  textgen.Client
	rng     types.Rand
	prefs   config.GenerationConfig
	cs      types.ConstraintSet
	opts    textgen.Options
	mock    bool
	ownerID string
	workers int
}

// Config wires a Generator.
type Config struct {
	Client      textgen.Client
	Rng         types.Rand
	Prefs       config.GenerationConfig
	Constraints types.ConstraintSet
	Temperature float64
	MaxTokens   int
	Mock        bool // tolerate backend failures with canned fallbacks
	OwnerID     string
	Workers     int // concurrent threads; <=1 disables the pool
}

// NewGenerator creates a generator.
func NewGenerator(cfg Config) *Generator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Generator{
		client:  cfg.Client,
		rng:     cfg.Rng,
		prefs:   cfg.Prefs,
		cs:      cfg.Constraints,
		opts:    textgen.Options{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens},
		mock:    cfg.Mock,
		ownerID: cfg.OwnerID,
		workers: workers,
	}
}

// threadPlan fixes every random decision for one thread up front, so the
// concurrent generation phase is free of shared RNG state.
type threadPlan struct {
	slot       types.AssignedSlot
	postID     string
	delays     []int
	followUp   bool
	dissentIdx int          // reactor index instructed to dissent; -1 for none
	mentions   map[int]bool // reactor indices targeted for a company mention
	strict     bool
}

// plan draws all randomness for a slot. Called sequentially.
func (g *Generator) plan(slot types.AssignedSlot, strict bool) threadPlan {
	p := threadPlan{
		slot:       slot,
		postID:     uuid.NewString(),
		followUp:   g.rng.Float64() < 0.5,
		dissentIdx: -1,
		mentions:   make(map[int]bool),
		strict:     strict,
	}
	p.delays = replyDelays(g.rng, len(slot.Reactors), p.followUp, g.cs)

	if g.prefs.RequireDissent || strict {
		p.dissentIdx = g.rng.Intn(len(slot.Reactors))
	}
	if g.prefs.AllowProductMention && !strict {
		count := g.prefs.ProductMentionCount
		if count > len(slot.Reactors) {
			count = len(slot.Reactors)
		}
		for len(p.mentions) < count {
			p.mentions[g.rng.Intn(len(slot.Reactors))] = true
		}
	}
	return p
}

// GenerateBatch produces one Thread per assigned slot. Threads are
// independent, so they run through a bounded worker pool; a backend
// failure on any thread aborts the whole batch in live mode.
func (g *Generator) GenerateBatch(ctx context.Context, slots []types.AssignedSlot) ([]types.Thread, []string, error) {
	log := logging.Get(logging.CategoryGenerator)
	timer := logging.StartTimer(logging.CategoryGenerator, "GenerateBatch")
	defer timer.Stop()

	plans := make([]threadPlan, len(slots))
	for i, slot := range slots {
		plans[i] = g.plan(slot, false)
	}

	threads := make([]types.Thread, len(slots))
	var diagMu sync.Mutex
	var diags []string
	addDiag := func(msg string) {
		diagMu.Lock()
		diags = append(diags, msg)
		diagMu.Unlock()
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.workers)
	for i := range plans {
		grp.Go(func() error {
			t, err := g.generateThread(gctx, plans[i], addDiag)
			if err != nil {
				return fmt.Errorf("thread for slot %s: %w", plans[i].slot.At.Format("Mon 15:04"), err)
			}
			threads[i] = t
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, diags, err
	}

	log.Info("generated %d threads", len(threads))
	return threads, diags, nil
}

// Regenerate rebuilds the content of an existing thread with stricter
// preferences (anti-promo language, required dissent). The post id and
// slot are preserved so quality-report indexes stay valid.
func (g *Generator) Regenerate(ctx context.Context, t types.Thread) (types.Thread, error) {
	p := g.plan(t.Slot, true)
	p.postID = t.Post.ID
	fresh, err := g.generateThread(ctx, p, func(string) {})
	if err != nil {
		return types.Thread{}, err
	}
	return fresh, nil
}

// generateThread runs the full per-thread sequence: post, replies in
// order, optional author follow-up, then mention reconciliation.
func (g *Generator) generateThread(ctx context.Context, p threadPlan, addDiag func(string)) (types.Thread, error) {
	slot := p.slot

	post, err := g.generatePost(ctx, p)
	if err != nil {
		return types.Thread{}, err
	}

	var replies []types.Reply
	prevAt := post.ScheduledAt
	for i, reactor := range slot.Reactors {
		instr := replyInstructions{
			dissent: i == p.dissentIdx,
			mention: p.mentions[i],
		}
		text, err := g.generateReplyText(ctx, p, reactor, post, replies, instr, addDiag)
		if err != nil {
			return types.Thread{}, err
		}
		at := prevAt.Add(minutes(p.delays[i]))
		replies = append(replies, types.Reply{
			ID:           uuid.NewString(),
			OwnerID:      g.ownerID,
			PostID:       post.ID,
			PersonaID:    reactor.ID,
			Text:         text,
			ScheduledAt:  at,
			DelayMinutes: p.delays[i],
			Status:       types.StatusScheduled,
		})
		prevAt = at
	}

	if p.followUp && len(replies) > 0 {
		instr := replyInstructions{followUp: true}
		text, err := g.generateReplyText(ctx, p, slot.Author, post, replies, instr, addDiag)
		if err != nil {
			return types.Thread{}, err
		}
		delay := p.delays[len(p.delays)-1]
		at := prevAt.Add(minutes(delay))
		replies = append(replies, types.Reply{
			ID:            uuid.NewString(),
			OwnerID:       g.ownerID,
			PostID:        post.ID,
			ParentReplyID: replies[len(replies)-1].ID,
			PersonaID:     slot.Author.ID,
			Text:          text,
			ScheduledAt:   at,
			DelayMinutes:  delay,
			Status:        types.StatusScheduled,
		})
	}

	if err := g.reconcileMentions(ctx, p, replies); err != nil {
		return types.Thread{}, err
	}

	return types.Thread{Post: post, Replies: replies, Slot: slot}, nil
}

// generatePost invokes the backend for the post body, then applies the
// deterministic post-processing pass with its bounded single retry.
func (g *Generator) generatePost(ctx context.Context, p threadPlan) (types.Post, error) {
	slot := p.slot
	prompt := buildPostPrompt(slot, g.prefs, p.strict)

	payload, err := textgen.GeneratePost(ctx, g.client, prompt, g.opts)
	if err != nil {
		if !g.mock {
			return types.Post{}, err
		}
		payload = &textgen.PostPayload{
			Title: "A question about " + firstKeyword(slot),
			Body:  "Been thinking about " + firstKeyword(slot) + " lately and I'd like to hear how others approach it. Our setup works but I suspect we're missing something obvious.",
		}
		logging.Get(logging.CategoryGenerator).Warn("post generation failed in mock mode, canned fallback used for slot %s", slot.At.Format("Mon 15:04"))
	}

	title := ScrubCompany(payload.Title, g.prefs.CompanyName)
	body := ScrubCompany(payload.Body, g.prefs.CompanyName)
	body = ClampLength(body, g.prefs.MaxPostLength)

	if instrs := g.postProblems(title, body, slot); len(instrs) > 0 {
		body = g.rewriteOnce(ctx, body, instrs)
		body = ScrubCompany(body, g.prefs.CompanyName)
		body = ClampLength(body, g.prefs.MaxPostLength)
	}

	keywordIDs := make([]string, len(slot.Keywords))
	for i, k := range slot.Keywords {
		keywordIDs[i] = k.ID
	}
	return types.Post{
		ID:          p.postID,
		OwnerID:     g.ownerID,
		CommunityID: slot.Community.ID,
		PersonaID:   slot.Author.ID,
		Title:       title,
		Body:        body,
		ScheduledAt: slot.At,
		KeywordIDs:  keywordIDs,
		ThreadType:  slot.ThreadType,
		Status:      types.StatusScheduled,
	}, nil
}

// postProblems returns rewrite instructions for anything the deterministic
// pass cannot fix itself. Empty means the post is acceptable.
func (g *Generator) postProblems(title, body string, slot types.AssignedSlot) []string {
	var instrs []string
	if g.prefs.MinPostLength > 0 && len(body) < g.prefs.MinPostLength {
		instrs = append(instrs, fmt.Sprintf("Expand to at least %d characters while staying natural and concise.", g.prefs.MinPostLength))
	}
	if kw := firstKeyword(slot); kw != "" && !strings.Contains(strings.ToLower(title+" "+body), strings.ToLower(kw)) {
		instrs = append(instrs, fmt.Sprintf("Work the topic %q into the text naturally.", kw))
	}
	if phrase := containsBanned(body, g.prefs.BannedPhrases); phrase != "" {
		instrs = append(instrs, fmt.Sprintf("Remove the phrase %q and anything like it.", phrase))
	}
	if ContainsCompany(body, g.prefs.CompanyName) {
		instrs = append(instrs, fmt.Sprintf("Remove all mentions of %s.", g.prefs.CompanyName))
	}
	if len(instrs) > 0 {
		instrs = append(instrs, "Keep it natural and concise.")
	}
	return instrs
}

// generateReplyText invokes the backend for one reply and sanitizes it.
func (g *Generator) generateReplyText(ctx context.Context, p threadPlan, persona types.Persona, post types.Post, prior []types.Reply, instr replyInstructions, addDiag func(string)) (string, error) {
	prompt := buildReplyPrompt(p.slot, persona, post, prior, g.prefs, instr)

	payload, err := textgen.GenerateReply(ctx, g.client, prompt, g.opts)
	if err != nil {
		if !g.mock {
			return "", err
		}
		payload = &textgen.ReplyPayload{Text: "We ran into the same thing, though the fix depended a lot on our setup. Worth checking the basics first."}
		addDiag(fmt.Sprintf("reply generation failed in mock mode, canned fallback used for post %s", post.ID))
	}

	text := payload.Text
	allowMention := instr.mention && g.prefs.AllowProductMention
	if !allowMention {
		text = ScrubCompany(text, g.prefs.CompanyName)
	}
	text = ClampLength(text, g.prefs.MaxReplyLength)

	if phrase := containsBanned(text, g.prefs.BannedPhrases); phrase != "" {
		text = g.rewriteOnce(ctx, text, []string{
			fmt.Sprintf("Remove the phrase %q.", phrase),
			"Keep it natural and concise.",
		})
		if !allowMention {
			text = ScrubCompany(text, g.prefs.CompanyName)
		}
		text = ClampLength(text, g.prefs.MaxReplyLength)
	}
	return text, nil
}

// reconcileMentions runs once after all replies are drafted: any targeted
// reactor whose mention was lost in post-processing gets one forced
// regeneration that explicitly asks for the mention.
func (g *Generator) reconcileMentions(ctx context.Context, p threadPlan, replies []types.Reply) error {
	if !g.prefs.AllowProductMention || g.prefs.CompanyName == "" {
		return nil
	}
	for idx := range p.mentions {
		if idx >= len(replies) {
			continue
		}
		if ContainsCompany(replies[idx].Text, g.prefs.CompanyName) {
			continue
		}
		text := g.rewriteOnce(ctx, replies[idx].Text, []string{
			fmt.Sprintf("Include exactly one natural mention of %s, the way a user who happens to use it would.", g.prefs.CompanyName),
			"Keep everything else the same in spirit.",
		})
		replies[idx].Text = ClampLength(text, g.prefs.MaxReplyLength)
	}
	return nil
}

// rewriteOnce asks the backend for a single corrected variation. On any
// failure the original text is kept; this is a bounded retry, never a
// loop.
func (g *Generator) rewriteOnce(ctx context.Context, original string, instructions []string) string {
	prompt := buildRewritePrompt(original, instructions)
	payload, err := textgen.GenerateRewrite(ctx, g.client, prompt, g.opts)
	if err != nil {
		logging.Get(logging.CategoryGenerator).Warn("rewrite failed, keeping original: %v", err)
		return original
	}
	return payload.Variation
}

func firstKeyword(slot types.AssignedSlot) string {
	if len(slot.Keywords) == 0 {
		return ""
	}
	return slot.Keywords[0].Phrase
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }
