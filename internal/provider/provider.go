// Package provider generates quiz questions with a language model.
package provider

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/quizgem/internal/generator"
	"github.com/verte-zerg/quizgem/internal/model"
)

// Fetched is the outcome of a single question fetch. Err is set when the
// fallback question was substituted.
type Fetched struct {
	Question model.Question
	Topic    string
	Err      error
}

// FellBack reports whether the fallback question was used.
func (f Fetched) FellBack() bool {
	return f.Err != nil
}

// Provider fetches questions on random topics.
type Provider struct {
	completer Completer
	topics    []string
	gen       *generator.Generator
	log       *zap.Logger
}

// New builds a Provider. Empty topics fall back to the default pool.
func New(c Completer, topics []string, gen *generator.Generator, log *zap.Logger) (*Provider, error) {
	if c == nil {
		return nil, fmt.Errorf("completer cannot be nil")
	}
	topics = generator.NormalizeTopics(topics)
	if len(topics) == 0 {
		topics = generator.DefaultTopics
	}
	if gen == nil {
		gen = generator.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{completer: c, topics: topics, gen: gen, log: log}, nil
}

// Topics returns the topic pool.
func (p *Provider) Topics() []string {
	out := make([]string, len(p.topics))
	copy(out, p.topics)
	return out
}

// FetchQuestion requests one question on topic. It never fails: any network
// or parse error yields the fallback question with Err set.
func (p *Provider) FetchQuestion(ctx context.Context, topic string) Fetched {
	raw, err := p.completer.Complete(ctx, BuildPrompt(topic))
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = newNetworkError("generation request failed", err)
		}
		p.log.Warn("question fetch failed, using fallback",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return Fetched{Question: model.FallbackQuestion(), Topic: topic, Err: err}
	}

	q, err := ParseQuestion(raw)
	if err != nil {
		p.log.Warn("question parse failed, using fallback",
			zap.String("topic", topic),
			zap.Error(err),
		)
		p.log.Debug("unparseable model output", zap.String("raw", raw))
		return Fetched{Question: model.FallbackQuestion(), Topic: topic, Err: err}
	}

	p.log.Debug("question fetched", zap.String("topic", topic))
	return Fetched{Question: q, Topic: topic}
}

// FetchBatch fetches count questions sequentially, each on an independently
// drawn topic. Individual failures become fallback questions; only an invalid
// count or a cancelled context fail the batch.
func (p *Provider) FetchBatch(ctx context.Context, count int) ([]model.Question, error) {
	if count <= 0 {
		return nil, newBatchError(fmt.Sprintf("invalid question count %d", count), nil)
	}
	if len(p.topics) == 0 {
		return nil, newBatchError("no topics configured", nil)
	}

	questions := make([]model.Question, 0, count)
	fallbacks := 0
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, newBatchError("batch cancelled", err)
		}
		fetched := p.FetchQuestion(ctx, p.gen.Pick(p.topics))
		if fetched.FellBack() {
			fallbacks++
		}
		questions = append(questions, fetched.Question)
	}
	if err := ctx.Err(); err != nil {
		return nil, newBatchError("batch cancelled", err)
	}

	p.log.Info("question batch ready",
		zap.Int("count", len(questions)),
		zap.Int("fallbacks", fallbacks),
	)
	return questions, nil
}
