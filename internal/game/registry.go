package game

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

// Registry is the server's table of live games. Its lock orders before any
// game lock: look up or create under the registry lock, then release it
// before locking the game.
type Registry struct {
	mu    sync.Mutex
	games map[string]*Game
	seed  func() *rand.Rand
}

func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]*Game),
		seed: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Get returns the named game, or nil.
func (r *Registry) Get(name string) *Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.games[name]
}

// Create makes a new table. Returns nil if the name is taken.
func (r *Registry) Create(name string, opts Options) *Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[name]; ok {
		return nil
	}
	g := New(name, opts, r.seed())
	r.games[name] = g
	return g
}

// Replace swaps in a fresh game under an existing name. Used by board
// resets; the caller re-seats the players.
func (r *Registry) Replace(name string, opts Options) *Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := New(name, opts, r.seed())
	r.games[name] = g
	return g
}

// Delete drops the named game from the table.
func (r *Registry) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, name)
}

// Names lists game names sorted for stable lobby listings.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.games))
	for name := range r.games {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All snapshots the current games, sorted by name.
func (r *Registry) All() []*Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Game, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SweepExpired removes finished games past the grace period and returns
// their names.
func (r *Registry) SweepExpired(now time.Time, grace time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var dead []string
	for name, g := range r.games {
		g.Lock()
		expired := g.Expired(now, grace)
		g.Unlock()
		if expired {
			delete(r.games, name)
			dead = append(dead, name)
		}
	}
	return dead
}
