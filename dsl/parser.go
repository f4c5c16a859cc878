package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "RawString", Pattern: "`[^`]*`"},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokNewline = tokenType("Newline")
	tokLBrace  = tokenType("LBrace")
	tokRBrace  = tokenType("RBrace")
	tokSymbol  = tokenType("Symbol")

	argKinds = map[lexer.TokenType]ArgKind{
		tokenType("String"):    ArgString,
		tokenType("RawString"): ArgString,
		tokenType("Number"):    ArgNumber,
		tokenType("Ident"):     ArgIdent,
		tokSymbol:              ArgSymbol,
	}

	reportParser = participle.MustBuild[Report](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.UseLookahead(2),
	)
)

// Report is the root AST node of a report source file.
type Report struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Title StringLiteral  `parser:"Newline* 'report' @(String | RawString)"`
	Body  *Block         `parser:"@@ Newline*"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block: `key: value` or a command.
type Statement struct {
	Field   *Field   `parser:"  @@"`
	Command *Command `parser:"| @@"`
}

// Field uses colon syntax (key: value).
type Field struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command is a named statement with positional arguments and an optional body,
// such as a code listing or a version block.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Arg         `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// Value is a field value.
type Value struct {
	String *StringLiteral `parser:"  @(String | RawString)"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value as plain text.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Fields returns the field statements of the block in source order.
func (b *Block) Fields() []*Field {
	if b == nil {
		return nil
	}
	var out []*Field
	for _, st := range b.Statements {
		if st.Field != nil {
			out = append(out, st.Field)
		}
	}
	return out
}

// Commands returns the command statements of the block in source order.
func (b *Block) Commands() []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, st := range b.Statements {
		if st.Command != nil {
			out = append(out, st.Command)
		}
	}
	return out
}

// ArgKind 区分命令参数的词法类别。
type ArgKind string

const (
	ArgString ArgKind = "string"
	ArgNumber ArgKind = "number"
	ArgIdent  ArgKind = "ident"
	ArgSymbol ArgKind = "symbol"
)

// Arg 是命令的一个位置参数。字符串参数的 Value 已去掉引号并处理转义，Raw 保留源码原文。
type Arg struct {
	Kind  ArgKind        `json:"kind"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// IsString 判断参数是否为字符串字面量（含反引号原样字符串）。
func (a *Arg) IsString() bool {
	return a != nil && a.Kind == ArgString
}

// Parse 实现 participle.Parseable：逐个吃掉参数，遇到行尾、分号或花括号时交还给语法。
func (a *Arg) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if tok == nil || tok.EOF() || endsArgs(tok) {
		return participle.NextMatch
	}
	tok = lex.Next()

	kind, ok := argKinds[tok.Type]
	if !ok {
		return fmt.Errorf("%s: 无法作为参数的记号 %q", tok.Pos, tok.Value)
	}
	*a = Arg{Kind: kind, Value: tok.Value, Raw: tok.Value, Pos: tok.Pos}
	if kind == ArgString {
		v, err := strconv.Unquote(tok.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", tok.Pos, err)
		}
		a.Value = v
	}
	return nil
}

// StringLiteral 在捕获时去掉引号。
type StringLiteral string

func (s *StringLiteral) Capture(values []string) error {
	v, err := strconv.Unquote(strings.Join(values, ""))
	if err != nil {
		return err
	}
	*s = StringLiteral(v)
	return nil
}

// Parse parses a report from an io.Reader.
func Parse(r io.Reader) (*Report, error) {
	return reportParser.Parse("", r)
}

// ParseString parses a report from a string.
func ParseString(input string) (*Report, error) {
	return reportParser.ParseString("", input)
}

func endsArgs(tok *lexer.Token) bool {
	switch tok.Type {
	case tokNewline, tokLBrace, tokRBrace:
		return true
	case tokSymbol:
		return tok.Value == ";"
	}
	return false
}

func tokenType(name string) lexer.TokenType {
	tt, ok := dslLexer.Symbols()[name]
	if !ok {
		panic("dsl: 未定义的记号 " + name)
	}
	return tt
}
