package syntax

import "fmt"

// Stmt is a host statement. The set of implementations is closed.
type Stmt interface {
	stmt()
}

// VarDecl declares and initializes a local variable.
type VarDecl struct {
	Final bool
	Type  TypeDesc
	Name  string
	Init  Expr
}

// Assign assigns Value to Target.
type Assign struct {
	Target Expr
	Value  Expr
}

// If is a conditional with an optional else block.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// Do is a do-block. A check failure inside the block propagates to the
// enclosing function.
type Do struct {
	Body []Stmt
}

// Return returns from a function; a nil Value renders a bare return.
type Return struct {
	Value Expr
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Expr Expr
}

func (VarDecl) stmt()  {}
func (Assign) stmt()   {}
func (If) stmt()       {}
func (Do) stmt()       {}
func (Return) stmt()   {}
func (ExprStmt) stmt() {}

// RecordField is one field of a record type.
type RecordField struct {
	Name string
	Type TypeDesc
	// Default is the default value; nil means the field has none
	Default Expr
	// Optional marks the field as optional (name?). It cannot be combined with Default.
	Optional bool
	Doc      string
}

// RecordType is a record type descriptor. Closed records only admit the
// declared fields.
type RecordType struct {
	Closed   bool
	Includes []TypeDesc
	Fields   []RecordField
}

// Validate checks the field list for empty or duplicate names, missing or
// empty union types, and fields that are both optional and defaulted.
func (r *RecordType) Validate() error {
	seen := make(map[string]bool, len(r.Fields))
	for _, f := range r.Fields {
		if f.Name == "" {
			return fmt.Errorf("syntax: record field with empty name")
		}
		if f.Type == nil {
			return fmt.Errorf("syntax: record field %q has no type", f.Name)
		}
		if u, ok := f.Type.(Union); ok && len(u.Members) == 0 {
			return fmt.Errorf("syntax: record field %q has an empty union type", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("syntax: duplicate record field %q", f.Name)
		}
		seen[f.Name] = true
		if f.Optional && f.Default != nil {
			return fmt.Errorf("syntax: record field %q cannot be both optional and defaulted", f.Name)
		}
	}
	return nil
}

// Lookup returns the field called name.
func (r *RecordType) Lookup(name string) (RecordField, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return RecordField{}, false
}

// Decl is a module-level declaration.
type Decl interface {
	decl()
}

// TypeDefinition is a named type. Exactly one of Record and Alias is set.
type TypeDefinition struct {
	Name   string
	Public bool
	Doc    string
	Record *RecordType
	Alias  TypeDesc
}

// Param is a function parameter. A parameter with a Default is defaultable;
// otherwise it is required.
type Param struct {
	Name    string
	Type    TypeDesc
	Default Expr
	Doc     string
}

// Required reports whether the parameter has no default.
func (p Param) Required() bool { return p.Default == nil }

// ValidateParams checks that every required parameter precedes every
// defaultable one and that names are unique.
func ValidateParams(params []Param) error {
	seen := make(map[string]bool, len(params))
	defaultable := ""
	for _, p := range params {
		if seen[p.Name] {
			return fmt.Errorf("syntax: duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true
		if !p.Required() {
			if defaultable == "" {
				defaultable = p.Name
			}
			continue
		}
		if defaultable != "" {
			return fmt.Errorf("syntax: required parameter %q follows defaultable parameter %q", p.Name, defaultable)
		}
	}
	return nil
}

// ClassField is a field of a class.
type ClassField struct {
	Final bool
	Name  string
	Type  TypeDesc
	Doc   string
}

// Function is a function or method definition.
type Function struct {
	Qualifiers []string
	Name       string
	Doc        string
	Params     []Param
	ReturnType TypeDesc
	ReturnDoc  string
	Body       []Stmt
}

// Class is a class definition.
type Class struct {
	Qualifiers []string
	Name       string
	Doc        string
	Fields     []ClassField
	Methods    []*Function
}

// Import is a module import.
type Import struct {
	Org    string
	Module string
}

// File is one generated source file.
type File struct {
	Imports []Import
	Decls   []Decl
}

func (*TypeDefinition) decl() {}
func (*Function) decl()       {}
func (*Class) decl()          {}
