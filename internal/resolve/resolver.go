// Package resolve turns raw call references into dependency edges. Local
// heuristics (method key, unique name, import scope) run first; the oracle is
// consulted only on ambiguity or absence, and every outcome is total: each
// call reference yields exactly one dependency descriptor.
package resolve

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"codegraph/internal/index"
	"codegraph/internal/oracle"
	t "codegraph/internal/types"
)

// Oracle is the subset of the understanding service the engine consults.
type Oracle interface {
	ResolveAmbiguousCall(ctx context.Context, callName string, candidates []oracle.Candidate, caller oracle.CallerContext) (string, error)
	InferExternalFunction(ctx context.Context, callName, callerName, callerFile string) (t.InferredFunction, error)
}

type Resolver struct {
	ix     *index.Index
	oracle Oracle

	// Timeout bounds each oracle consultation; expiry is treated as an
	// oracle failure, never a fatal abort. Zero disables the bound.
	Timeout time.Duration

	mu    sync.Mutex
	cache map[string]*cacheEntry

	stats Stats
}

// cacheEntry makes resolution of a single entity single-flight: concurrent
// Resolve calls collapse into one computation and one cache write.
type cacheEntry struct {
	once sync.Once
	deps []t.Dependency
}

func New(ix *index.Index, o Oracle) *Resolver {
	return &Resolver{ix: ix, oracle: o, cache: map[string]*cacheEntry{}}
}

// Resolve locates the entity a call name refers to, seen from fromFile, and
// returns its resolved dependency list. It never fails; the worst case is a
// single unknown placeholder.
func (r *Resolver) Resolve(ctx context.Context, callName, fromFile string) []t.Dependency {
	if index.IsMethodRef(callName) {
		if m, ok := r.ix.Method(callName); ok {
			return r.Dependencies(ctx, &m.Function)
		}
	}
	cands := r.ix.Candidates(callName)
	switch {
	case len(cands) == 0:
		return []t.Dependency{t.Unknown(callName, "function not found in the repository")}
	case len(cands) == 1:
		return r.Dependencies(ctx, cands[0])
	}
	if fromFile != "" {
		if imported := r.ix.ImportedDefiners(callName, fromFile); len(imported) == 1 {
			return r.Dependencies(ctx, imported[0])
		}
		if fn, ok := r.ix.FunctionIn(callName, fromFile); ok {
			return r.Dependencies(ctx, fn)
		}
	}
	return r.Dependencies(ctx, r.pickCandidate(ctx, callName, fromFile, cands))
}

// Dependencies resolves every call reference of fn, memoized: the list is
// computed at most once per entity and the oracle is consulted at most once
// per ambiguous or absent reference.
func (r *Resolver) Dependencies(ctx context.Context, fn *t.Function) []t.Dependency {
	r.mu.Lock()
	e, ok := r.cache[fn.QualifiedName]
	if !ok {
		e = &cacheEntry{}
		r.cache[fn.QualifiedName] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		deps := make([]t.Dependency, 0, len(fn.CalledFunctions))
		for _, call := range fn.CalledFunctions {
			deps = append(deps, r.resolveCall(ctx, call, fn))
		}
		e.deps = deps
	})
	return e.deps
}

// resolveCall applies the decision ladder to one call reference.
func (r *Resolver) resolveCall(ctx context.Context, callName string, caller *t.Function) t.Dependency {
	// 1. Qualified method reference.
	if index.IsMethodRef(callName) {
		if m, ok := r.ix.Method(callName); ok {
			return t.Concrete(&m.Function)
		}
	}

	cands := r.ix.Candidates(callName)

	// 5. No match anywhere: infer, degrade to unknown on failure.
	if len(cands) == 0 {
		return r.infer(ctx, callName, caller)
	}

	// 2. Unique simple name repository-wide.
	if len(cands) == 1 {
		return t.Concrete(cands[0])
	}

	// 3. Import-scoped or caller-local match, no oracle. An import that names
	// exactly one candidate file wins over a caller-local definition.
	if imported := r.ix.ImportedDefiners(callName, caller.File); len(imported) == 1 {
		return t.Concrete(imported[0])
	}
	if local, ok := r.ix.FunctionIn(callName, caller.File); ok {
		return t.Concrete(local)
	}

	// 4. Ambiguous: delegate to the oracle, fall back deterministically.
	return t.Concrete(r.pickCandidate(ctx, callName, caller.File, cands))
}

// pickCandidate selects among several same-named functions, consulting the
// oracle once and falling back to the first candidate in registration order.
// Ambiguity never halts resolution.
func (r *Resolver) pickCandidate(ctx context.Context, callName, fromFile string, cands []*t.Function) *t.Function {
	descs := make([]oracle.Candidate, 0, len(cands))
	for _, c := range cands {
		descs = append(descs, oracle.Candidate{
			File:            c.File,
			FunctionName:    c.Name,
			Description:     c.Description,
			CalledFunctions: c.CalledFunctions,
			Parameters:      c.Parameters,
			ReturnType:      c.ReturnType,
		})
	}
	caller := oracle.CallerContext{File: fromFile}
	if f, ok := r.ix.File(fromFile); ok {
		caller.Description = f.Description
		caller.Imports = f.Imports
	}

	octx, cancel := r.oracleContext(ctx)
	defer cancel()
	r.stats.OracleCalls.Add(1)
	file, err := r.oracle.ResolveAmbiguousCall(octx, callName, descs, caller)
	if err != nil {
		r.stats.AmbiguityFallbacks.Add(1)
		log.Printf("resolve: ambiguous %q: oracle failed (%v), falling back to first candidate %s", callName, err, cands[0].QualifiedName)
		return cands[0]
	}
	for _, c := range cands {
		if c.File == file {
			return c
		}
	}
	// The answer names a file outside the candidate set. Fall back, but loudly:
	// a recurring pattern here usually means a prompting bug.
	r.stats.OutOfCandidateAnswers.Add(1)
	log.Printf("resolve: WARNING ambiguous %q: oracle answered out-of-candidate file %q, falling back to first candidate %s", callName, file, cands[0].QualifiedName)
	return cands[0]
}

// infer produces the inferred or unknown descriptor for a call with no match
// anywhere in the repository.
func (r *Resolver) infer(ctx context.Context, callName string, caller *t.Function) t.Dependency {
	octx, cancel := r.oracleContext(ctx)
	defer cancel()
	r.stats.OracleCalls.Add(1)
	guess, err := r.oracle.InferExternalFunction(octx, callName, caller.Name, caller.File)
	if err != nil {
		r.stats.Unknown.Add(1)
		log.Printf("resolve: inference for %q failed: %v", callName, err)
		return t.Unknown(callName, err.Error())
	}
	r.stats.Inferred.Add(1)
	return t.Inferred(guess)
}

func (r *Resolver) oracleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.Timeout)
}

// Stats counts oracle traffic and degraded outcomes for the end-of-run summary.
type Stats struct {
	OracleCalls           atomic.Int64
	AmbiguityFallbacks    atomic.Int64
	OutOfCandidateAnswers atomic.Int64
	Inferred              atomic.Int64
	Unknown               atomic.Int64
}

// Stats returns a point-in-time copy of the counters.
func (r *Resolver) Stats() StatsSnapshot {
	return StatsSnapshot{
		OracleCalls:           r.stats.OracleCalls.Load(),
		AmbiguityFallbacks:    r.stats.AmbiguityFallbacks.Load(),
		OutOfCandidateAnswers: r.stats.OutOfCandidateAnswers.Load(),
		Inferred:              r.stats.Inferred.Load(),
		Unknown:               r.stats.Unknown.Load(),
	}
}

type StatsSnapshot struct {
	OracleCalls           int64
	AmbiguityFallbacks    int64
	OutOfCandidateAnswers int64
	Inferred              int64
	Unknown               int64
}

// LogSummary writes the degraded-resolution summary; silent degradation hides
// systematic problems.
func (s StatsSnapshot) LogSummary() {
	log.Printf("resolve: %d oracle calls, %d ambiguity fallbacks (%d out-of-candidate), %d inferred, %d unknown",
		s.OracleCalls, s.AmbiguityFallbacks, s.OutOfCandidateAnswers, s.Inferred, s.Unknown)
}
