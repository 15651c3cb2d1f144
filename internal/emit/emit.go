// Package emit translates a transformed and monomorphized ast.Builder
// program into the four kinds of C-family source text written to the
// output directory — a shared header, a type and
// constant declaration file, one or more function-body files (split by
// --num-c-files), and a small runner file wiring a --run target into a
// main(). It consumes a finished internal/xform.Unit; it never mutates the
// tree itself.
package emit

import (
	"fmt"
	"strconv"
	"strings"

	"asli/internal/ast"
	"asli/internal/backend"
	"asli/internal/diag"
	"asli/internal/sema"
	"asli/internal/source"
	"asli/internal/symbols"
)

// Kind discriminates the four output file roles.
type Kind uint8

const (
	KindHeader Kind = iota
	KindTypes
	KindFuncs
	KindMain
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindTypes:
		return "types"
	case KindFuncs:
		return "funcs"
	case KindMain:
		return "main"
	default:
		return "unknown"
	}
}

// File is one emitted translation unit: a relative filename and its body.
type File struct {
	Kind Kind
	Name string
	Body string
}

// Options configures how Emit shapes the output tree.
type Options struct {
	Basename    string
	NumCFiles   int
	LineInfo    bool
	RunFunction string // empty when no runner file should be emitted
	Exports     []string

	// ThreadLocalPointer, when set, gathers every global variable into one
	// state struct reached through a thread-local pointer of this name.
	// Accesses route through the pointer via a self-referential macro per
	// global (the preprocessor does not re-expand a macro inside its own
	// expansion), so the body printer needs no per-reference rewrite.
	ThreadLocalPointer string
}

// Input is the finished state emit reads: the shared arenas, the checker's
// per-expression types, the declaration list the transform pipeline left
// behind, and the backend variant to render primitives through.
type Input struct {
	B       *ast.Builder
	Str     *source.Interner
	FS      *source.FileSet // needed when Options.LineInfo is set
	Table   *symbols.Table
	Sema    sema.Result
	Diags   *diag.Bag
	Decls   []ast.DeclID
	Runtime backend.Runtime
}

// Emit renders Input into the four file kinds.
func Emit(in Input, opts Options) ([]File, error) {
	e := &emitter{in: in, opts: opts}
	var files []File

	header := e.emitHeader()
	files = append(files, File{Kind: KindHeader, Name: opts.Basename + ".h", Body: header})

	types := e.emitTypesFile()
	files = append(files, File{Kind: KindTypes, Name: opts.Basename + "_types.c", Body: types})

	funcFiles, err := e.emitFuncFiles()
	if err != nil {
		return nil, err
	}
	files = append(files, funcFiles...)

	if opts.RunFunction != "" {
		files = append(files, File{Kind: KindMain, Name: opts.Basename + "_main.c", Body: e.emitMain()})
	}
	return files, nil
}

type emitter struct {
	in   Input
	opts Options
}

func (e *emitter) rt() backend.Runtime { return e.in.Runtime }

func (e *emitter) emitHeader() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s_H\n#define %s_H\n\n", strings.ToUpper(e.opts.Basename), strings.ToUpper(e.opts.Basename))
	b.WriteString(e.rt().FileHeader())
	b.WriteString("\n")
	for _, id := range e.in.Decls {
		if e.wrappedGlobal(id) {
			continue
		}
		if proto := e.declPrototype(id); proto != "" {
			b.WriteString(proto)
			b.WriteString(";\n")
		}
	}
	if tlp := e.opts.ThreadLocalPointer; tlp != "" {
		fmt.Fprintf(&b, "\nstruct %s_state {\n", tlp)
		for _, id := range e.in.Decls {
			if !e.wrappedGlobal(id) {
				continue
			}
			d, _ := e.in.B.Decls.Variable(id)
			fmt.Fprintf(&b, "    %s %s%s;\n", e.cType(d.Type), e.cName(e.lookupString(d.Name)), e.arraySuffix(d.Type))
		}
		fmt.Fprintf(&b, "};\nextern _Thread_local struct %s_state *%s;\n", tlp, tlp)
		for _, id := range e.in.Decls {
			if !e.wrappedGlobal(id) {
				continue
			}
			d, _ := e.in.B.Decls.Variable(id)
			name := e.cName(e.lookupString(d.Name))
			fmt.Fprintf(&b, "#define %s ((%s)->%s)\n", name, tlp, name)
		}
	}
	b.WriteString("\n#endif\n")
	return b.String()
}

// wrappedGlobal reports whether id is a global variable gathered into the
// thread-local state struct instead of being emitted as its own global.
func (e *emitter) wrappedGlobal(id ast.DeclID) bool {
	if e.opts.ThreadLocalPointer == "" {
		return false
	}
	decl := e.in.B.Decls.Get(id)
	return decl != nil && decl.Kind == ast.DeclVariable
}

func (e *emitter) emitTypesFile() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#include \"%s.h\"\n\n", e.opts.Basename)
	for _, id := range e.in.Decls {
		if e.wrappedGlobal(id) {
			continue
		}
		e.emitTypeOrGlobalDecl(&b, id)
	}
	if tlp := e.opts.ThreadLocalPointer; tlp != "" {
		fmt.Fprintf(&b, "static struct %s_state %s_root;\n", tlp, tlp)
		fmt.Fprintf(&b, "_Thread_local struct %s_state *%s = &%s_root;\n", tlp, tlp, tlp)
	}
	return b.String()
}

// emitFuncFiles splits function definitions across opts.NumCFiles files,
// round-robin by declaration order, per the --num-c-files option
// (splitting keeps any one translation unit from growing unboundedly large
// when a program monomorphizes into thousands of specialized functions).
func (e *emitter) emitFuncFiles() ([]File, error) {
	n := e.opts.NumCFiles
	if n < 1 {
		n = 1
	}
	bodies := make([]strings.Builder, n)
	for i := range bodies {
		fmt.Fprintf(&bodies[i], "#include \"%s.h\"\n\n", e.opts.Basename)
	}
	idx := 0
	for _, id := range e.in.Decls {
		body, ok, err := e.functionBody(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		bodies[idx%n].WriteString(body)
		bodies[idx%n].WriteString("\n")
		idx++
	}
	var files []File
	for i := range bodies {
		name := fmt.Sprintf("%s_%d.c", e.opts.Basename, i)
		if n == 1 {
			name = e.opts.Basename + ".c"
		}
		files = append(files, File{Kind: KindFuncs, Name: name, Body: bodies[i].String()})
	}
	return files, nil
}

func (e *emitter) emitMain() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#include \"%s.h\"\n#include <stdio.h>\n\nint main(void) {\n", e.opts.Basename)
	fmt.Fprintf(&b, "    %s();\n    return 0;\n}\n", e.cName(e.opts.RunFunction))
	return b.String()
}

func (e *emitter) cName(aslName string) string {
	if reserved[aslName] {
		return "asl_" + aslName
	}
	return aslName
}

// reserved lists the C keywords and standard-library macro names an ASL
// identifier might collide with; only colliding names are renamed, with an
// asl_ prefix. The rename happens at name-printing time and never touches
// the AST.
var reserved = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true,
	"_Bool": true, "_Complex": true, "_Imaginary": true, "main": true,
	"NULL": true, "exit": true, "printf": true, "bool": true, "true": true, "false": true,
}

func (e *emitter) lookupString(id source.StringID) string {
	s, _ := e.in.Str.Lookup(id)
	return s
}

// literalUint reads a folded integer literal expression's decimal text,
// the shape every width expression has after internal/xform's constant
// propagation and monomorphization passes run.
func (e *emitter) literalUint(id ast.ExprID) (uint32, bool) {
	if !id.IsValid() {
		return 0, false
	}
	lit, ok := e.in.B.Exprs.Literal(id)
	if !ok {
		return 0, false
	}
	text := e.lookupString(lit.Text)
	v, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
