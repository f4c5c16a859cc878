package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/codedoc/dsl"
)

const sampleReport = "\n" +
	"// release documentation\n" +
	"report \"Inventory Service\" {\n" +
	"  author: \"QA Team\"\n" +
	"  max-line-length: 65\n" +
	"\n" +
	"  version \"1.0.0\" {\n" +
	"    interpreter: \"Python 3.9\"\n" +
	"    framework: Flask\n" +
	"    note \"Regression Notes: login flow verified\"\n" +
	"    test \"4 passed in 0.12s\"; terminal `$ python main.py\n" +
	"Traceback (most recent call last):\n" +
	"  ZeroDivisionError`\n" +
	"    # hash comments are ignored\n" +
	"    code \"main.py\" `def main():\n" +
	"    print(\"hi\")`\n" +
	"    suggestion \"main.py\" \"Use logging instead of print.\" accepted\n" +
	"    notes-file \"notes/1.0.0.md\"\n" +
	"  }\n" +
	"\n" +
	"  version \"1.1.0\" {\n" +
	"  }\n" +
	"}\n"

func TestParseReport(t *testing.T) {
	rep, err := dsl.ParseString(sampleReport)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rep.Title != "Inventory Service" {
		t.Fatalf("expected title Inventory Service, got %q", rep.Title)
	}

	fields := rep.Body.Fields()
	if len(fields) != 2 || fields[0].Key != "author" || fields[0].Value.Text() != "QA Team" {
		t.Fatalf("unexpected report fields: %+v", fields)
	}
	if fields[1].Key != "max-line-length" || fields[1].Value.Number == nil || *fields[1].Value.Number != "65" {
		t.Fatalf("number field not captured: %+v", fields[1].Value)
	}

	versions := rep.Body.Commands()
	if len(versions) != 2 {
		t.Fatalf("expected 2 version commands, got %d", len(versions))
	}
	v1 := versions[0]
	if v1.Name != "version" || len(v1.Args) != 1 || v1.Args[0].Value != "1.0.0" {
		t.Fatalf("unexpected version header: %+v", v1)
	}
	if v1.Block == nil {
		t.Fatalf("version body missing")
	}
	if versions[1].Block == nil || len(versions[1].Block.Statements) != 0 {
		t.Fatalf("empty version body should parse")
	}

	vFields := v1.Block.Fields()
	if len(vFields) != 2 || vFields[1].Key != "framework" || vFields[1].Value.Text() != "Flask" {
		t.Fatalf("unexpected version fields: %+v", vFields)
	}

	cmds := v1.Block.Commands()
	var names []string
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	if got := strings.Join(names, ","); got != "note,test,terminal,code,suggestion,notes-file" {
		t.Fatalf("unexpected command order: %s", got)
	}

	terminal := cmds[2]
	if len(terminal.Args) != 1 || !terminal.Args[0].IsString() {
		t.Fatalf("terminal should carry one string argument: %+v", terminal.Args)
	}
	if got := terminal.Args[0].Value; !strings.HasPrefix(got, "$ python main.py\nTraceback") || !strings.HasSuffix(got, "ZeroDivisionError") {
		t.Fatalf("raw string not preserved: %q", got)
	}

	code := cmds[3]
	if code.Args[0].Value != "main.py" || code.Args[1].Value != "def main():\n    print(\"hi\")" {
		t.Fatalf("unexpected code args: %+v", code.Args)
	}

	suggestion := cmds[4]
	if len(suggestion.Args) != 3 || suggestion.Args[2].Kind != dsl.ArgIdent || suggestion.Args[2].Value != "accepted" {
		t.Fatalf("suggestion decision not captured: %+v", suggestion.Args)
	}
	if suggestion.Args[1].IsString() != true || suggestion.Args[2].IsString() {
		t.Fatalf("argument kinds mixed up")
	}
	if suggestion.Pos.Line != 17 {
		t.Fatalf("expected suggestion on line 17, got %d", suggestion.Pos.Line)
	}
}

func TestParseReportErrors(t *testing.T) {
	cases := map[string]string{
		"missing title":    "report {\n}\n",
		"unclosed block":   "report \"x\" {\n  version \"1\" {\n}\n",
		"bad escape":       "report \"x\\q\" {}\n",
		"wrong root":       "doc \"x\" {}\n",
		"unterminated raw": "report \"x\" {\n  code \"a.go\" `oops\n}\n",
	}
	for name, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}
