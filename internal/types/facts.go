package types

import (
	"errors"
	"fmt"
)

// ErrMalformedFacts reports analysis output that fails validation. Ingestion
// treats it as a per-file failure: the file is skipped and the scan continues.
var ErrMalformedFacts = errors.New("malformed analysis facts")

// Fact records mirror the JSON the understanding oracle returns for one file.
// They are validated at the ingestion boundary; entities are only constructed
// from facts that passed validation.

type FunctionFact struct {
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	CalledFunctions []string    `json:"called_functions"`
	Parameters      []Parameter `json:"parameters"`
	ReturnType      string      `json:"return_type"`
}

type ClassFact struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Methods     []FunctionFact `json:"methods"`
}

type GlobalFact struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

type FileFacts struct {
	FileDescription string         `json:"file_description"`
	Imports         []string       `json:"imports"`
	Functions       []FunctionFact `json:"functions"`
	Classes         []ClassFact    `json:"classes"`
	Globals         []GlobalFact   `json:"globals"`
}

const noDescription = "No description available"

// Validate checks the required name fields. A missing name anywhere makes the
// whole record unusable because qualified names could not be assigned.
func (f FileFacts) Validate() error {
	for i, fn := range f.Functions {
		if fn.Name == "" {
			return fmt.Errorf("%w: functions[%d] has no name", ErrMalformedFacts, i)
		}
	}
	for i, cls := range f.Classes {
		if cls.Name == "" {
			return fmt.Errorf("%w: classes[%d] has no name", ErrMalformedFacts, i)
		}
		for j, m := range cls.Methods {
			if m.Name == "" {
				return fmt.Errorf("%w: classes[%d] (%s) methods[%d] has no name", ErrMalformedFacts, i, cls.Name, j)
			}
		}
	}
	for i, g := range f.Globals {
		if g.Name == "" {
			return fmt.Errorf("%w: globals[%d] has no name", ErrMalformedFacts, i)
		}
	}
	return nil
}

// Description returns the file description with the historical default applied.
func (f FileFacts) Description() string {
	if f.FileDescription == "" {
		return noDescription
	}
	return f.FileDescription
}

func (f FunctionFact) description() string {
	if f.Description == "" {
		return noDescription
	}
	return f.Description
}

func (c ClassFact) description() string {
	if c.Description == "" {
		return noDescription
	}
	return c.Description
}

func (g GlobalFact) description() string {
	if g.Description == "" {
		return noDescription
	}
	return g.Description
}

// Build constructs the Function entity for a fact. Registration assigns the
// qualified name afterwards.
func (f FunctionFact) Build() *Function {
	return &Function{
		Name:            f.Name,
		Description:     f.description(),
		CalledFunctions: append([]string(nil), f.CalledFunctions...),
		Parameters:      append([]Parameter(nil), f.Parameters...),
		ReturnType:      f.ReturnType,
	}
}

// BuildMethod constructs the Method entity for a fact owned by className.
func (f FunctionFact) BuildMethod(className string) *Method {
	return &Method{Function: *f.Build(), ClassName: className}
}

// BuildClass constructs the Class entity without its methods; the caller
// registers methods one by one so it can detect qualified-name collisions.
func (c ClassFact) BuildClass() *Class {
	return &Class{Name: c.Name, Description: c.description()}
}

// BuildGlobal constructs the Global entity for a fact.
func (g GlobalFact) BuildGlobal() *Global {
	return &Global{Name: g.Name, Description: g.description(), Value: g.Value}
}
