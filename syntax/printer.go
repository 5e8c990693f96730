package syntax

import (
	"bytes"
	"fmt"
	"strings"
)

const indentUnit = "    "

// printer renders declarations and statements with four-space indentation.
type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) line(format string, args ...any) {
	if format == "" {
		p.buf.WriteByte('\n')
		return
	}
	p.buf.WriteString(strings.Repeat(indentUnit, p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) doc(text string) {
	if text == "" {
		return
	}
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if l == "" {
			p.line("#")
			continue
		}
		p.line("# %s", l)
	}
}

func (p *printer) stmts(list []Stmt) {
	p.indent++
	for _, s := range list {
		p.stmt(s)
	}
	p.indent--
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case VarDecl:
		prefix := ""
		if s.Final {
			prefix = "final "
		}
		if s.Init == nil {
			p.line("%s%s %s;", prefix, s.Type, s.Name)
			return
		}
		p.line("%s%s %s = %s;", prefix, s.Type, s.Name, s.Init)
	case Assign:
		p.line("%s = %s;", s.Target, s.Value)
	case If:
		p.line("if %s {", s.Cond)
		p.stmts(s.Then)
		if len(s.Else) > 0 {
			p.line("} else {")
			p.stmts(s.Else)
		}
		p.line("}")
	case Do:
		p.line("do {")
		p.stmts(s.Body)
		p.line("}")
	case Return:
		if s.Value == nil {
			p.line("return;")
			return
		}
		p.line("return %s;", s.Value)
	case ExprStmt:
		p.line("%s;", s.Expr)
	}
}

func (p *printer) typeDefinition(td *TypeDefinition) {
	p.doc(td.Doc)
	prefix := ""
	if td.Public {
		prefix = "public "
	}
	if td.Record == nil {
		p.line("%stype %s %s;", prefix, td.Name, td.Alias)
		return
	}
	open, closing := "record {", "};"
	if td.Record.Closed {
		open, closing = "record {|", "|};"
	}
	p.line("%stype %s %s", prefix, td.Name, open)
	p.indent++
	for _, inc := range td.Record.Includes {
		p.line("*%s;", inc)
	}
	for _, f := range td.Record.Fields {
		p.doc(f.Doc)
		p.line("%s;", renderRecordField(f))
	}
	p.indent--
	p.line("%s", closing)
}

func renderRecordField(f RecordField) string {
	switch {
	case f.Optional:
		return fmt.Sprintf("%s %s?", f.Type, f.Name)
	case f.Default != nil:
		return fmt.Sprintf("%s %s = %s", f.Type, f.Name, f.Default)
	default:
		return fmt.Sprintf("%s %s", f.Type, f.Name)
	}
}

func (p *printer) function(fn *Function) {
	var doc []string
	if fn.Doc != "" {
		doc = append(doc, fn.Doc)
	}
	var paramDocs []string
	for _, prm := range fn.Params {
		if prm.Doc != "" {
			paramDocs = append(paramDocs, fmt.Sprintf("+ %s - %s", prm.Name, prm.Doc))
		}
	}
	if fn.ReturnDoc != "" {
		paramDocs = append(paramDocs, "+ return - "+fn.ReturnDoc)
	}
	if len(doc) > 0 && len(paramDocs) > 0 {
		doc = append(doc, "")
	}
	doc = append(doc, paramDocs...)
	p.doc(strings.Join(doc, "\n"))

	header := strings.Join(append(append([]string{}, fn.Qualifiers...), "function"), " ")
	sig := fmt.Sprintf("%s %s(%s)", header, fn.Name, RenderParams(fn.Params))
	if fn.ReturnType != nil {
		sig += " returns " + fn.ReturnType.String()
	}
	p.line("%s {", sig)
	p.stmts(fn.Body)
	p.line("}")
}

func (p *printer) class(c *Class) {
	p.doc(c.Doc)
	header := strings.Join(append(append([]string{}, c.Qualifiers...), "class"), " ")
	p.line("%s %s {", header, c.Name)
	p.indent++
	for _, f := range c.Fields {
		p.doc(f.Doc)
		p.line("%s;", renderClassField(f))
	}
	for _, m := range c.Methods {
		p.line("")
		p.function(m)
	}
	p.indent--
	p.line("}")
}

func renderClassField(f ClassField) string {
	prefix := ""
	if f.Final {
		prefix = "final "
	}
	return fmt.Sprintf("%s%s %s", prefix, f.Type, f.Name)
}

// RenderParams renders a parameter list without the surrounding parentheses.
func RenderParams(params []Param) string {
	parts := make([]string, len(params))
	for i, prm := range params {
		if prm.Default == nil {
			parts[i] = fmt.Sprintf("%s %s", prm.Type, prm.Name)
			continue
		}
		parts[i] = fmt.Sprintf("%s %s = %s", prm.Type, prm.Name, prm.Default)
	}
	return strings.Join(parts, ", ")
}

// RenderTypeDefinition renders a single type definition.
func RenderTypeDefinition(td *TypeDefinition) string {
	var p printer
	p.typeDefinition(td)
	return p.buf.String()
}

// RenderRecordField renders a record field declaration without its doc comment.
func RenderRecordField(f RecordField) string {
	return renderRecordField(f) + ";"
}

// RenderClassField renders a class field declaration.
func RenderClassField(f ClassField) string {
	return renderClassField(f) + ";"
}

// RenderStmts renders statements at the top indentation level.
func RenderStmts(list []Stmt) string {
	var p printer
	for _, s := range list {
		p.stmt(s)
	}
	return p.buf.String()
}

// RenderFunction renders a function definition.
func RenderFunction(fn *Function) string {
	var p printer
	p.function(fn)
	return p.buf.String()
}

// RenderFile renders a complete source file.
func RenderFile(f *File) []byte {
	var p printer
	for _, imp := range f.Imports {
		p.line("import %s/%s;", imp.Org, imp.Module)
	}
	for i, d := range f.Decls {
		if i > 0 || len(f.Imports) > 0 {
			p.line("")
		}
		switch d := d.(type) {
		case *TypeDefinition:
			p.typeDefinition(d)
		case *Function:
			p.function(d)
		case *Class:
			p.class(d)
		}
	}
	return p.buf.Bytes()
}
