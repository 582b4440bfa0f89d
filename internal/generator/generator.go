// Package generator picks quiz topics.
package generator

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// DefaultTopics is the topic pool used when none is configured.
var DefaultTopics = []string{
	"histoire",
	"géographie",
	"sciences",
	"littérature",
	"sport",
	"cinéma",
	"musique",
	"technologie",
	"art",
	"nature",
}

// Generator produces randomized topic sequences. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects one topic uniformly. Each call is independent, so repeats are possible.
func (g *Generator) Pick(topics []string) string {
	if len(topics) == 0 {
		return ""
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return topics[g.rnd.Intn(len(topics))]
}

// NormalizeTopics trims entries and drops blanks and duplicates, keeping order.
func NormalizeTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, topic := range topics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		key := strings.ToLower(topic)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, topic)
	}
	return out
}
