package graphs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/export"
	t "codegraph/internal/types"
)

func sampleStructure() export.Structure {
	return export.Structure{
		Files: map[string]export.FileRecord{
			"svc.py": {
				Name: "svc.py",
				Classes: []export.ClassRecord{{
					Name: "Service",
					Methods: []export.MethodRecord{{
						FunctionRecord: export.FunctionRecord{
							Name:                 "start",
							QualifiedName:        "Service.start",
							Parameters:           []t.Parameter{{Name: "port", Type: "int"}},
							ReturnType:           "None",
							ResolvedDependencies: []string{"Logger.info"},
						},
						ClassName: "Service",
					}},
				}},
			},
			"log.py": {
				Name: "log.py",
				Classes: []export.ClassRecord{{
					Name: "Logger",
					Methods: []export.MethodRecord{{
						FunctionRecord: export.FunctionRecord{
							Name:                 "info",
							QualifiedName:        "Logger.info",
							ResolvedDependencies: []string{},
						},
						ClassName: "Logger",
					}},
				}},
				Functions: []export.FunctionRecord{{
					Name:                 "setup",
					QualifiedName:        "log.py:setup",
					ResolvedDependencies: []string{"inferred:os_getenv"},
				}},
			},
		},
		DependencyGraph: map[string][]string{
			"Service.start": {"Logger.info"},
			"Logger.info":   {},
			"log.py:setup":  {"inferred:os_getenv"},
		},
	}
}

func TestClassDiagram(t_ *testing.T) {
	out := ClassDiagram(sampleStructure())

	assert.True(t_, strings.HasPrefix(out, "@startuml\n"))
	assert.True(t_, strings.HasSuffix(out, "@enduml\n"))
	assert.Contains(t_, out, "class Logger {")
	assert.Contains(t_, out, "class Service {")
	assert.Contains(t_, out, "+start(port: int): None")
	assert.Contains(t_, out, "Service ..> Logger")
	assert.Less(t_, strings.Index(out, "class Logger"), strings.Index(out, "class Service"), "classes are sorted")
}

func TestClassDiagramDeterministic(t_ *testing.T) {
	first := ClassDiagram(sampleStructure())
	for i := 0; i < 5; i++ {
		assert.Equal(t_, first, ClassDiagram(sampleStructure()))
	}
}

func TestMermaid(t_ *testing.T) {
	out := Mermaid(sampleStructure())

	assert.True(t_, strings.HasPrefix(out, "flowchart LR\n"))
	assert.Contains(t_, out, `subgraph f0["log.py"]`)
	assert.Contains(t_, out, `subgraph f1["svc.py"]`)
	assert.Contains(t_, out, `"inferred:os_getenv"`)
	assert.Contains(t_, out, " --> ")

	for i := 0; i < 5; i++ {
		assert.Equal(t_, out, Mermaid(sampleStructure()))
	}
}

func TestServerURL(t_ *testing.T) {
	url, err := ServerURL("", "@startuml\nA -> B\n@enduml\n")
	require.NoError(t_, err)
	assert.True(t_, strings.HasPrefix(url, DefaultServer+"/uml/"))
	assert.Greater(t_, len(url), len(DefaultServer)+len("/uml/"))

	again, err := ServerURL("", "@startuml\nA -> B\n@enduml\n")
	require.NoError(t_, err)
	assert.Equal(t_, url, again)
}

func TestEncode64Alphabet(t_ *testing.T) {
	out := encode64([]byte("any carnal pleasure"))
	for _, c := range out {
		assert.Contains(t_, plantumlAlphabet, string(c))
	}
}

type cannedLLM struct {
	raw json.RawMessage
	err error
}

func (c *cannedLLM) Name() string { return "canned" }
func (c *cannedLLM) Close() error { return nil }
func (c *cannedLLM) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	return c.raw, c.err
}

func TestActivityDiagram(t_ *testing.T) {
	cli := &cannedLLM{raw: json.RawMessage(`{"plantuml": "@startuml\nstart\nstop\n@enduml"}`)}
	out, err := ActivityDiagram(context.Background(), cli, sampleStructure())
	require.NoError(t_, err)
	assert.True(t_, strings.HasPrefix(out, "@startuml"))
	assert.True(t_, strings.HasSuffix(out, "@enduml\n"))
}

func TestActivityDiagramOracleFailure(t_ *testing.T) {
	cli := &cannedLLM{err: errors.New("quota")}
	_, err := ActivityDiagram(context.Background(), cli, sampleStructure())
	assert.Error(t_, err)
}

func TestActivityDiagramEmptyAnswer(t_ *testing.T) {
	cli := &cannedLLM{raw: json.RawMessage(`{"plantuml": ""}`)}
	_, err := ActivityDiagram(context.Background(), cli, sampleStructure())
	assert.Error(t_, err)
}
