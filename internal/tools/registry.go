// Package tools exposes the ledger operations as named tools: JSON arguments
// in, one result envelope out. Transports (HTTP, stdio, the CLI) only move
// bytes; everything else happens here.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"moneyleft/internal/cache"
	"moneyleft/internal/core"
	"moneyleft/internal/log"
)

type Handler func(ctx context.Context, args json.RawMessage) (any, error)

type Tool struct {
	Name        string
	Description string
	// Example is a valid argument object shown in the catalogue.
	Example json.RawMessage
	Handler Handler
	// Cacheable results are served from the cache until the next write.
	Cacheable bool
	// Mutates marks tools whose success invalidates cached results.
	Mutates bool
}

// Info is the catalogue entry for a tool.
type Info struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Example     json.RawMessage `json:"example,omitempty"`
}

type Registry struct {
	tools  map[string]Tool
	cache  cache.Cache[any]
	logger *log.StructuredLogger
	now    func() time.Time

	// gen counts purges. A result computed before a purge is never stored.
	mu  sync.Mutex
	gen uint64
}

type RegistryOption func(*Registry)

// WithCache enables result caching for Cacheable tools.
func WithCache(c cache.Cache[any]) RegistryOption {
	return func(r *Registry) { r.cache = c }
}

// WithClock sets the clock whose date is part of every cache key, so
// relative ranges like "today" resolve afresh after midnight.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func WithLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = log.NewStructuredLogger(l) }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{tools: make(map[string]Tool), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.NewStructuredLogger(log.FromContext(context.Background()).WithComponent(log.ComponentTools))
	}
	return r
}

// Register adds t. Names are unique; registering one twice is a programming
// error and panics at startup.
func (r *Registry) Register(t Tool) {
	if t.Name == "" || t.Handler == nil {
		panic("tools: tool needs a name and a handler")
	}
	if _, dup := r.tools[t.Name]; dup {
		panic(fmt.Sprintf("tools: duplicate tool %q", t.Name))
	}
	r.tools[t.Name] = t
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns the catalogue sorted by name.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, Info{Name: t.Name, Description: t.Description, Example: t.Example})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call runs the named tool and always returns an envelope; transport names
// the caller for logging.
func (r *Registry) Call(ctx context.Context, transport, name string, args json.RawMessage) Envelope {
	start := time.Now()
	env, hit, err := r.call(ctx, name, args)

	errType := ""
	if err != nil {
		errType = ErrorType(err)
		if errType == ErrorTypeInternal {
			r.logger.LogError(ctx, "Tool failed", err, log.ComponentTools, log.OpCall,
				log.NewFields().WithTool(name, transport, false))
		}
	}
	r.logger.LogToolCall(ctx, name, transport, hit, time.Since(start).Milliseconds(), errType)
	return env
}

func (r *Registry) call(ctx context.Context, name string, args json.RawMessage) (Envelope, bool, error) {
	t, ok := r.tools[name]
	if !ok {
		err := fmt.Errorf("%w: unknown tool %q", core.ErrNotFound, name)
		return failure(err), false, err
	}

	var key string
	if t.Cacheable && r.cache != nil {
		canon, err := canonicalArgs(args)
		if err != nil {
			return failure(err), false, err
		}
		key = name + "|" + core.DateOf(r.now()).String() + "|" + canon
		if cached, hit := r.cache.Get(key); hit {
			return success(cached), true, nil
		}
	}

	gen := r.generation()
	result, err := t.Handler(ctx, args)
	if err != nil {
		return failure(err), false, err
	}

	if key != "" {
		r.store(gen, key, result)
	}
	if t.Mutates && r.cache != nil {
		r.purge()
	}
	return success(result), false, nil
}

func (r *Registry) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// store caches result unless a write purged the cache since gen was read.
func (r *Registry) store(gen uint64, key string, result any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen == r.gen {
		r.cache.Set(key, result)
	}
}

func (r *Registry) purge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.cache.Purge()
}
