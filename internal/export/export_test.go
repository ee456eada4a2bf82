package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/index"
	"codegraph/internal/oracle"
	"codegraph/internal/resolve"
	t "codegraph/internal/types"
)

type stubOracle struct{}

func (stubOracle) ResolveAmbiguousCall(ctx context.Context, callName string, candidates []oracle.Candidate, caller oracle.CallerContext) (string, error) {
	return candidates[0].File, nil
}

func (stubOracle) InferExternalFunction(ctx context.Context, callName, callerName, callerFile string) (t.InferredFunction, error) {
	return t.InferredFunction{Name: callName, Description: "Inferred function"}, nil
}

func buildExporter(tb testing.TB) *Exporter {
	tb.Helper()
	ix := index.New()
	require.NoError(tb, ix.AddFile("app.py", t.FileFacts{
		Imports: []string{"util.py"},
		Functions: []t.FunctionFact{
			{Name: "main", CalledFunctions: []string{"helper", "requests_get"}},
		},
		Classes: []t.ClassFact{{
			Name:    "App",
			Methods: []t.FunctionFact{{Name: "run", CalledFunctions: []string{"helper"}}},
		}},
	}))
	require.NoError(tb, ix.AddFile("util.py", t.FileFacts{
		Functions: []t.FunctionFact{{Name: "helper"}},
		Globals:   []t.GlobalFact{{Name: "DEBUG", Value: "False"}},
	}))
	r := resolve.New(ix, stubOracle{})
	return &Exporter{Index: ix, Resolver: r}
}

func TestStructureCoversEveryEntity(t_ *testing.T) {
	s := buildExporter(t_).Structure(context.Background())

	require.Contains(t_, s.Files, "app.py")
	require.Contains(t_, s.Files, "util.py")

	for _, qname := range []string{"app.py:main", "App.run", "util.py:helper"} {
		assert.Contains(t_, s.DependencyGraph, qname)
	}

	main := s.Files["app.py"].Functions[0]
	assert.Equal(t_, "app.py:main", main.QualifiedName)
	assert.Equal(t_, []string{"util.py:helper", "inferred:requests_get"}, main.ResolvedDependencies)
}

func TestZeroCallEntityGetsEmptyList(t_ *testing.T) {
	s := buildExporter(t_).Structure(context.Background())

	deps, ok := s.DependencyGraph["util.py:helper"]
	require.True(t_, ok, "entities with no calls still appear in the graph")
	assert.NotNil(t_, deps)
	assert.Empty(t_, deps)

	data, err := json.Marshal(s.DependencyGraph["util.py:helper"])
	require.NoError(t_, err)
	assert.Equal(t_, "[]", string(data), "empty lists must serialize as [], not null")
}

func TestStructureIsIdempotent(t_ *testing.T) {
	e := buildExporter(t_)
	first := e.Structure(context.Background())
	second := e.Structure(context.Background())
	assert.Equal(t_, first, second)
}

func TestWriteJSON(t_ *testing.T) {
	s := buildExporter(t_).Structure(context.Background())
	path := filepath.Join(t_.TempDir(), "structure.json")
	require.NoError(t_, WriteJSON(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t_, err)

	var round Structure
	require.NoError(t_, json.Unmarshal(data, &round))
	assert.Len(t_, round.Files, 2)
	assert.Contains(t_, round.DependencyGraph, "app.py:main")
}
