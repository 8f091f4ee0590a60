package dedup

import (
	"context"
	"strings"

	"github.com/sandevgo/scoutbot/pkg/log"
)

// State tracks where a turn's pipeline is in its lifecycle.
type State int

const (
	StateStreaming State = iota
	StateComplete
)

func (s State) String() string {
	if s == StateComplete {
		return "complete"
	}
	return "streaming"
}

// Params configure one turn's pipeline. Zero values fall back to the
// package defaults.
type Params struct {
	SessionID  string
	TurnID     string
	WindowSize int
	Threshold  float64
	Comparator Comparator
}

// Pipeline owns the deduplication state for exactly one assistant turn:
// accumulated text, emitted hashes and the sentence window all die with it.
// Fragments must be fed sequentially from a single goroutine.
type Pipeline struct {
	sessionID string
	turnID    string

	state       State
	accumulated string
	exact       *ExactFilter
	near        *NearDupFilter

	fragments      int
	resendsDropped int
	exactDropped   int
	nearDropped    int
}

func NewPipeline(p Params) *Pipeline {
	return &Pipeline{
		sessionID: p.SessionID,
		turnID:    p.TurnID,
		state:     StateStreaming,
		exact:     NewExactFilter(),
		near:      NewNearDupFilter(p.WindowSize, p.Threshold, p.Comparator),
	}
}

// Process runs one raw fragment through normalization, resend detection and
// both duplicate filters, returning the cleaned increments to forward. An
// empty result means the fragment held nothing new. A fault anywhere inside
// the pipeline fails open: the candidate content passes through unfiltered
// and the fault is logged with turn and session IDs. Fragments arriving
// after Finalize are ignored.
func (p *Pipeline) Process(ctx context.Context, fragment string) (increments []string) {
	if p.state != StateStreaming {
		return nil
	}
	p.fragments++

	candidate := fragment
	defer func() {
		if r := recover(); r != nil {
			log.FromCtx(ctx).Error().
				Str("session_id", p.sessionID).
				Str("turn_id", p.turnID).
				Interface("panic", r).
				Msg("dedup pipeline fault, passing content through unfiltered")
			if candidate == "" {
				increments = nil
				return
			}
			p.accumulated += candidate
			increments = []string{candidate}
		}
	}()

	logger := log.FromCtx(ctx)

	newContent, class := Normalize(fragment, p.accumulated)
	candidate = newContent

	if class == ClassStandalone && IsFullResend(fragment, p.accumulated) {
		p.resendsDropped++
		logger.Debug().
			Str("turn_id", p.turnID).
			Int("fragment_len", len(fragment)).
			Msg("dropped full resend of the answer so far")
		return nil
	}

	if !p.exact.IsNew(candidate) {
		if strings.TrimSpace(candidate) != "" {
			p.exactDropped++
			logger.Debug().Str("turn_id", p.turnID).Msg("dropped exact duplicate block")
		}
		return nil
	}

	var emitted strings.Builder
	for _, sp := range splitSpans(candidate) {
		verdict := p.near.Check(ctx, sp.sentence)
		if verdict.Duplicate {
			p.nearDropped++
			logger.Debug().
				Str("turn_id", p.turnID).
				Float64("score", verdict.Score.UnwrapOr(0)).
				Str("matched", verdict.Matched.UnwrapOr("")).
				Msg("dropped near-duplicate sentence")
			continue
		}
		emitted.WriteString(sp.raw)
		p.near.Admit(sp.sentence)
	}

	if emitted.Len() == 0 {
		return nil
	}

	accepted := emitted.String()
	p.exact.Record(accepted)
	p.accumulated += accepted
	return []string{accepted}
}

// Finalize transitions the turn to complete. Idempotent.
func (p *Pipeline) Finalize(ctx context.Context) {
	if p.state == StateComplete {
		return
	}
	p.state = StateComplete
	log.FromCtx(ctx).Debug().
		Str("session_id", p.sessionID).
		Str("turn_id", p.turnID).
		Int("fragments", p.fragments).
		Int("resends_dropped", p.resendsDropped).
		Int("exact_dropped", p.exactDropped).
		Int("near_dropped", p.nearDropped).
		Int("emitted_len", len(p.accumulated)).
		Msg("turn deduplication finished")
}

// Accumulated returns all cleaned content emitted so far this turn. After
// Finalize this is the canonical assistant answer.
func (p *Pipeline) Accumulated() string {
	return p.accumulated
}

func (p *Pipeline) State() State {
	return p.state
}
