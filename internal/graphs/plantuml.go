// Package graphs renders the exported repository structure as PlantUML and
// Mermaid text. Image rendering stays outside this tool; callers get text
// artifacts plus a PlantUML server URL.
package graphs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"codegraph/internal/export"
	"codegraph/internal/llm"
	"codegraph/internal/util/jsonutil"
)

// ClassDiagram renders a PlantUML class diagram straight from the export
// structure, no oracle involved. Classes appear in sorted order so the output
// is reproducible.
func ClassDiagram(s export.Structure) string {
	classes := map[string]export.ClassRecord{}
	for _, file := range s.Files {
		for _, cls := range file.Classes {
			if _, ok := classes[cls.Name]; !ok {
				classes[cls.Name] = cls
			}
		}
	}
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("@startuml\n")
	b.WriteString("hide empty members\n")
	b.WriteString("skinparam classAttributeIconSize 0\n")

	for _, name := range names {
		cls := classes[name]
		fmt.Fprintf(&b, "class %s {\n", cls.Name)
		for _, m := range cls.Methods {
			params := make([]string, 0, len(m.Parameters))
			for _, p := range m.Parameters {
				if p.Type != "" {
					params = append(params, p.Name+": "+p.Type)
				} else {
					params = append(params, p.Name)
				}
			}
			sig := fmt.Sprintf("  +%s(%s)", m.Name, strings.Join(params, ", "))
			if m.ReturnType != "" {
				sig += ": " + m.ReturnType
			}
			b.WriteString(sig + "\n")
		}
		b.WriteString("}\n")
	}

	// Dashed dependency arrows between classes whose methods call each other.
	seen := map[string]bool{}
	for _, name := range names {
		for _, m := range classes[name].Methods {
			for _, dep := range m.ResolvedDependencies {
				cls, _, ok := strings.Cut(dep, ".")
				if !ok || cls == name {
					continue
				}
				if _, exists := classes[cls]; !exists {
					continue
				}
				edge := name + " ..> " + cls
				if !seen[edge] {
					seen[edge] = true
					b.WriteString(edge + "\n")
				}
			}
		}
	}

	b.WriteString("@enduml\n")
	return b.String()
}

const promptActivityDiagram = `You are a software-architecture assistant.
The input carries the exported structure of a repository: per-file functions,
classes, globals and a resolved dependency graph of qualified names.
Produce a PlantUML activity diagram of the main control flow.

You MUST output STRICT JSON matching:
{
  "plantuml": "string"   // Complete diagram, from @startuml to @enduml
}

No prose outside the JSON object.`

// activityTokenLimit is a rough word-count budget for the diagram prompt; a
// structure above the threshold falls back to the first file only.
const (
	activityTokenLimit        = 128000
	activityFallbackThreshold = 0.9
)

// ActivityDiagram asks the oracle to draw an activity diagram from the export
// structure. Oversized structures degrade to the first file rather than fail.
func ActivityDiagram(ctx context.Context, cli llm.LLMClient, s export.Structure) (string, error) {
	ctx = llm.WithOperation(ctx, "activity_diagram")

	input := any(s)
	if serialized, err := jsonutil.MarshalNoEscape(s); err == nil {
		if tokens := len(strings.Fields(string(serialized))); tokens > int(float64(activityTokenLimit)*activityFallbackThreshold) {
			names := make([]string, 0, len(s.Files))
			for name := range s.Files {
				names = append(names, name)
			}
			sort.Strings(names)
			if len(names) > 0 {
				input = s.Files[names[0]]
			}
		}
	}

	raw, err := cli.GenerateJSON(ctx, promptActivityDiagram, input)
	if err != nil {
		return "", fmt.Errorf("graphs: activity diagram: %w", err)
	}
	var out struct {
		PlantUML string `json:"plantuml"`
	}
	if err := jsonutil.ExtractInto(raw, &out); err != nil {
		return "", fmt.Errorf("graphs: activity diagram: %w", err)
	}
	code := strings.TrimSpace(out.PlantUML)
	if code == "" {
		return "", fmt.Errorf("graphs: activity diagram: %w", llm.ErrInvalidJSON)
	}
	return code + "\n", nil
}
