// Package types holds the domain model shared by the index, the resolution
// engine and the exporters: files, functions, methods, classes, globals and
// the resolved dependency descriptors derived from them.
package types

// Parameter describes one function parameter as reported by the analysis.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Function is a free function declared in a file. QualifiedName ("file:name")
// and File are assigned exactly once when the function is registered in the
// index and never change afterwards.
type Function struct {
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	CalledFunctions []string    `json:"called_functions"`
	Parameters      []Parameter `json:"parameters"`
	ReturnType      string      `json:"return_type,omitempty"`
	QualifiedName   string      `json:"qualified_name"`
	File            string      `json:"-"`
}

// Method is a function owned by a class. Its qualified name is
// "ClassName.methodName".
type Method struct {
	Function
	ClassName string `json:"class_name"`
}

// Class groups the methods declared on it, in declaration order.
type Class struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Methods     []*Method `json:"methods"`
}

// Global is a file-level variable or constant.
type Global struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
}

// File owns its members. Imports lists the names of other files this file
// declares a dependency on, as reported by the analysis.
type File struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Functions   []*Function `json:"functions"`
	Classes     []*Class    `json:"classes"`
	Globals     []*Global   `json:"globals"`
	Imports     []string    `json:"imports"`
}

// DependencyKind tags the three dependency variants.
type DependencyKind string

const (
	// DependencyConcrete points at a function or method registered in the index.
	DependencyConcrete DependencyKind = "concrete"
	// DependencyInferred is a synthetic target outside the scanned set,
	// populated from the oracle's best guess.
	DependencyInferred DependencyKind = "inferred"
	// DependencyUnknown is the degraded placeholder used when even inference
	// failed; Reason carries the failure.
	DependencyUnknown DependencyKind = "unknown"
)

// InferredFunction is the oracle's best guess for a call target that is not
// defined anywhere in the scanned repository.
type InferredFunction struct {
	Name             string      `json:"name"`
	Description      string      `json:"inferred_description"`
	LikelyParameters []Parameter `json:"likely_parameters,omitempty"`
	LikelyReturn     string      `json:"likely_return,omitempty"`
}

// Dependency is one resolved edge of the call graph. Exactly one variant is
// populated, selected by Kind:
//
//	concrete: QualifiedName + Target
//	inferred: QualifiedName ("inferred:<name>") + Inferred
//	unknown:  QualifiedName ("unknown:<name>") + Reason
type Dependency struct {
	Kind          DependencyKind    `json:"kind"`
	QualifiedName string            `json:"qualified_name"`
	Target        *Function         `json:"-"`
	Inferred      *InferredFunction `json:"inferred,omitempty"`
	Reason        string            `json:"reason,omitempty"`
}

// Concrete builds a concrete dependency on a registered function or method.
func Concrete(target *Function) Dependency {
	return Dependency{Kind: DependencyConcrete, QualifiedName: target.QualifiedName, Target: target}
}

// Inferred builds an inferred dependency from the oracle's guess.
func Inferred(fn InferredFunction) Dependency {
	return Dependency{Kind: DependencyInferred, QualifiedName: "inferred:" + fn.Name, Inferred: &fn}
}

// Unknown builds the placeholder dependency for a call that could not be
// resolved or inferred.
func Unknown(callName, reason string) Dependency {
	return Dependency{Kind: DependencyUnknown, QualifiedName: "unknown:" + callName, Reason: reason}
}
