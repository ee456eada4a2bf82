package graphs

import (
	"fmt"
	"sort"
	"strings"

	"codegraph/internal/export"
)

// Mermaid renders the dependency graph as a flowchart, one subgraph per file,
// with inferred and unknown targets as standalone dashed nodes. Output is
// sorted for reproducibility.
func Mermaid(s export.Structure) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	ids := map[string]string{}
	nextID := 0
	id := func(qname string) string {
		if v, ok := ids[qname]; ok {
			return v
		}
		v := fmt.Sprintf("n%d", nextID)
		nextID++
		ids[qname] = v
		return v
	}

	fileNames := make([]string, 0, len(s.Files))
	for name := range s.Files {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	declared := map[string]bool{}
	for fi, name := range fileNames {
		file := s.Files[name]
		fmt.Fprintf(&b, "  subgraph f%d[\"%s\"]\n", fi, name)
		for _, fn := range file.Functions {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", id(fn.QualifiedName), fn.Name)
			declared[fn.QualifiedName] = true
		}
		for _, cls := range file.Classes {
			for _, m := range cls.Methods {
				fmt.Fprintf(&b, "    %s[\"%s\"]\n", id(m.QualifiedName), m.QualifiedName)
				declared[m.QualifiedName] = true
			}
		}
		b.WriteString("  end\n")
	}

	sources := make([]string, 0, len(s.DependencyGraph))
	for qname := range s.DependencyGraph {
		sources = append(sources, qname)
	}
	sort.Strings(sources)

	externals := map[string]bool{}
	var edges []string
	for _, src := range sources {
		for _, dst := range s.DependencyGraph[src] {
			if !declared[dst] {
				externals[dst] = true
			}
			edges = append(edges, fmt.Sprintf("  %s --> %s", id(src), id(dst)))
		}
	}

	extNames := make([]string, 0, len(externals))
	for qname := range externals {
		extNames = append(extNames, qname)
	}
	sort.Strings(extNames)
	for _, qname := range extNames {
		fmt.Fprintf(&b, "  %s([\"%s\"])\n", id(qname), qname)
	}

	for _, e := range edges {
		b.WriteString(e + "\n")
	}
	return b.String()
}
