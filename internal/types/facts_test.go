package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	ok := FileFacts{
		Functions: []FunctionFact{{Name: "main"}},
		Classes:   []ClassFact{{Name: "App", Methods: []FunctionFact{{Name: "run"}}}},
		Globals:   []GlobalFact{{Name: "VERSION"}},
	}
	require.NoError(t, ok.Validate())

	cases := []struct {
		name  string
		facts FileFacts
	}{
		{"unnamed function", FileFacts{Functions: []FunctionFact{{Name: ""}}}},
		{"unnamed class", FileFacts{Classes: []ClassFact{{Name: ""}}}},
		{"unnamed method", FileFacts{Classes: []ClassFact{{Name: "A", Methods: []FunctionFact{{Name: ""}}}}}},
		{"unnamed global", FileFacts{Globals: []GlobalFact{{Name: ""}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.facts.Validate(), ErrMalformedFacts)
		})
	}
}

func TestBuildCopiesSlices(t *testing.T) {
	fact := FunctionFact{
		Name:            "f",
		CalledFunctions: []string{"g"},
		Parameters:      []Parameter{{Name: "x"}},
	}
	fn := fact.Build()
	fact.CalledFunctions[0] = "mutated"
	assert.Equal(t, []string{"g"}, fn.CalledFunctions)
}

func TestBuildDefaultsDescriptions(t *testing.T) {
	fn := FunctionFact{Name: "f"}.Build()
	assert.Equal(t, "No description available", fn.Description)

	m := FunctionFact{Name: "m"}.BuildMethod("Cls")
	assert.Equal(t, "Cls", m.ClassName)
	assert.Equal(t, "No description available", m.Description)

	g := GlobalFact{Name: "G", Value: "1"}.BuildGlobal()
	assert.Equal(t, "1", g.Value)
	assert.Equal(t, "No description available", g.Description)
}

func TestDependencyConstructors(t *testing.T) {
	target := &Function{Name: "helper", QualifiedName: "util.py:helper"}
	dep := Concrete(target)
	assert.Equal(t, DependencyConcrete, dep.Kind)
	assert.Equal(t, "util.py:helper", dep.QualifiedName)
	assert.Same(t, target, dep.Target)

	inf := Inferred(InferredFunction{Name: "os_getenv"})
	assert.Equal(t, DependencyInferred, inf.Kind)
	assert.Equal(t, "inferred:os_getenv", inf.QualifiedName)

	unk := Unknown("mystery", "no answer")
	assert.Equal(t, DependencyUnknown, unk.Kind)
	assert.Equal(t, "unknown:mystery", unk.QualifiedName)
	assert.Equal(t, "no answer", unk.Reason)
}
