// Package export serializes the whole repository: per-file structural records
// plus the total adjacency mapping. Building the structure forces resolution
// of anything still unresolved, so the first export mutates the resolution
// cache and later exports are pure reads.
package export

import (
	"context"
	"fmt"
	"os"

	"codegraph/internal/index"
	"codegraph/internal/resolve"
	t "codegraph/internal/types"
	"codegraph/internal/util/jsonutil"
)

type FunctionRecord struct {
	Name                 string        `json:"name"`
	Description          string        `json:"description"`
	CalledFunctions      []string      `json:"called_functions"`
	Parameters           []t.Parameter `json:"parameters"`
	ReturnType           string        `json:"return_type,omitempty"`
	ResolvedDependencies []string      `json:"resolved_dependencies"`
	QualifiedName        string        `json:"qualified_name"`
}

type MethodRecord struct {
	FunctionRecord
	ClassName string `json:"class_name"`
}

type ClassRecord struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Methods     []MethodRecord `json:"methods"`
}

type GlobalRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
}

type FileRecord struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Functions   []FunctionRecord `json:"functions"`
	Classes     []ClassRecord    `json:"classes"`
	Globals     []GlobalRecord   `json:"globals"`
	Imports     []string         `json:"imports"`
}

// Structure is the export artifact consumed by the diagram generators and
// written to disk by the export command.
type Structure struct {
	Files           map[string]FileRecord `json:"files"`
	DependencyGraph map[string][]string   `json:"dependency_graph"`
}

type Exporter struct {
	Index    *index.Index
	Resolver *resolve.Resolver
}

// Structure walks every registered function and method, forcing resolution of
// anything unresolved, and returns the full repository structure. Every
// declared qualified name appears as a key of the dependency graph, even with
// an empty edge list.
func (e *Exporter) Structure(ctx context.Context) Structure {
	out := Structure{
		Files:           map[string]FileRecord{},
		DependencyGraph: map[string][]string{},
	}

	for _, file := range e.Index.Files() {
		rec := FileRecord{
			Name:        file.Name,
			Description: file.Description,
			Functions:   []FunctionRecord{},
			Classes:     []ClassRecord{},
			Globals:     []GlobalRecord{},
			Imports:     append([]string{}, file.Imports...),
		}

		for _, fn := range file.Functions {
			fr, edges := e.functionRecord(ctx, fn)
			rec.Functions = append(rec.Functions, fr)
			out.DependencyGraph[fn.QualifiedName] = edges
		}

		for _, cls := range file.Classes {
			cr := ClassRecord{Name: cls.Name, Description: cls.Description, Methods: []MethodRecord{}}
			for _, m := range cls.Methods {
				fr, edges := e.functionRecord(ctx, &m.Function)
				cr.Methods = append(cr.Methods, MethodRecord{FunctionRecord: fr, ClassName: m.ClassName})
				out.DependencyGraph[m.QualifiedName] = edges
			}
			rec.Classes = append(rec.Classes, cr)
		}

		for _, g := range file.Globals {
			rec.Globals = append(rec.Globals, GlobalRecord{Name: g.Name, Description: g.Description, Value: g.Value})
		}

		out.Files[file.Name] = rec
	}

	return out
}

func (e *Exporter) functionRecord(ctx context.Context, fn *t.Function) (FunctionRecord, []string) {
	deps := e.Resolver.Dependencies(ctx, fn)
	edges := make([]string, 0, len(deps))
	for _, d := range deps {
		edges = append(edges, d.QualifiedName)
	}
	return FunctionRecord{
		Name:                 fn.Name,
		Description:          fn.Description,
		CalledFunctions:      append([]string{}, fn.CalledFunctions...),
		Parameters:           append([]t.Parameter{}, fn.Parameters...),
		ReturnType:           fn.ReturnType,
		ResolvedDependencies: edges,
		QualifiedName:        fn.QualifiedName,
	}, edges
}

// WriteJSON writes the structure to path as indented JSON.
func WriteJSON(path string, s Structure) error {
	b, err := jsonutil.MarshalNoEscapeIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
