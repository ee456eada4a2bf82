// Package index holds the process-scoped registries built during ingestion:
// file records, simple-name candidates, class methods and classes. It is the
// single shared-state object passed to intake, resolution and export.
package index

import (
	"fmt"
	"log"
	"strings"
	"sync"

	t "codegraph/internal/types"
)

// Index is safe for concurrent use; all registry writes are serialized.
type Index struct {
	mu        sync.RWMutex
	files     map[string]*t.File
	fileOrder []string

	// funcs preserves registration order per simple name so the deterministic
	// first-candidate fallback is reproducible across runs.
	funcs map[string][]*t.Function

	methods map[string]*t.Method
	classes map[string]*t.Class
}

func New() *Index {
	return &Index{
		files:   map[string]*t.File{},
		funcs:   map[string][]*t.Function{},
		methods: map[string]*t.Method{},
		classes: map[string]*t.Class{},
	}
}

// AddFile validates one file's facts, constructs the File entity and registers
// its members. On validation failure nothing is registered and the error is
// returned for the caller to log; ingestion continues with the next file.
func (ix *Index) AddFile(name string, facts t.FileFacts) error {
	if name == "" {
		return fmt.Errorf("%w: empty file name", t.ErrMalformedFacts)
	}
	if err := facts.Validate(); err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, dup := ix.files[name]; dup {
		return fmt.Errorf("file %q already registered", name)
	}

	file := &t.File{
		Name:        name,
		Description: facts.Description(),
		Imports:     append([]string(nil), facts.Imports...),
	}

	for _, ff := range facts.Functions {
		fn := ff.Build()
		fn.File = name
		fn.QualifiedName = name + ":" + fn.Name
		if ix.lookupLocked(fn.Name, name) != nil {
			log.Printf("index: duplicate function %s, keeping first registration", fn.QualifiedName)
			continue
		}
		file.Functions = append(file.Functions, fn)
		ix.funcs[fn.Name] = append(ix.funcs[fn.Name], fn)
	}

	for _, cf := range facts.Classes {
		cls := cf.BuildClass()
		for _, mf := range cf.Methods {
			m := mf.BuildMethod(cls.Name)
			m.File = name
			m.QualifiedName = cls.Name + "." + m.Name
			if _, dup := ix.methods[m.QualifiedName]; dup {
				log.Printf("index: duplicate method %s, keeping first registration", m.QualifiedName)
				continue
			}
			cls.Methods = append(cls.Methods, m)
			ix.methods[m.QualifiedName] = m
		}
		file.Classes = append(file.Classes, cls)
		if _, dup := ix.classes[cls.Name]; !dup {
			ix.classes[cls.Name] = cls
		}
	}

	for _, gf := range facts.Globals {
		file.Globals = append(file.Globals, gf.BuildGlobal())
	}

	ix.files[name] = file
	ix.fileOrder = append(ix.fileOrder, name)
	return nil
}

func (ix *Index) lookupLocked(name, file string) *t.Function {
	for _, fn := range ix.funcs[name] {
		if fn.File == file {
			return fn
		}
	}
	return nil
}

// File returns the registered file record, if any.
func (ix *Index) File(name string) (*t.File, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	f, ok := ix.files[name]
	return f, ok
}

// Files returns every registered file in registration order.
func (ix *Index) Files() []*t.File {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]*t.File, 0, len(ix.fileOrder))
	for _, name := range ix.fileOrder {
		out = append(out, ix.files[name])
	}
	return out
}

// Candidates returns every function carrying the simple name, in registration
// order. Sharing a simple name across files is expected, not an error.
func (ix *Index) Candidates(name string) []*t.Function {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]*t.Function(nil), ix.funcs[name]...)
}

// FunctionIn returns the function with the given simple name declared in file.
func (ix *Index) FunctionIn(name, file string) (*t.Function, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	fn := ix.lookupLocked(name, file)
	return fn, fn != nil
}

// Method resolves a "Class.method" key.
func (ix *Index) Method(key string) (*t.Method, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	m, ok := ix.methods[key]
	return m, ok
}

// Class resolves a class by name.
func (ix *Index) Class(name string) (*t.Class, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	c, ok := ix.classes[name]
	return c, ok
}

// ImportedDefiners returns, among the candidate functions for name, those
// declared in files the caller imports, in the caller's import order.
func (ix *Index) ImportedDefiners(name, callerFile string) []*t.Function {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	caller, ok := ix.files[callerFile]
	if !ok {
		return nil
	}
	var out []*t.Function
	for _, imp := range caller.Imports {
		for _, fn := range ix.funcs[name] {
			if fn.File == imp {
				out = append(out, fn)
			}
		}
	}
	return out
}

// IsMethodRef reports whether a raw call reference is class-qualified.
func IsMethodRef(callName string) bool {
	return strings.Contains(callName, ".")
}
