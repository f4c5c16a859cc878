package project

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/codedoc/layout"
)

func TestAddVersionKeepsOrderAndDedups(t *testing.T) {
	p := New("demo")
	a, err := p.AddVersion("1.0.0")
	require.NoError(t, err)
	_, err = p.AddVersion("0.9.0")
	require.NoError(t, err)
	again, err := p.AddVersion(" 1.0.0 ")
	require.NoError(t, err)

	assert.Same(t, a, again)
	require.Len(t, p.Versions, 2)
	assert.Equal(t, "1.0.0", p.Versions[0].Name)
	assert.Equal(t, "0.9.0", p.Versions[1].Name)

	_, err = p.AddVersion("  ")
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
	_, err = p.MustVersion("2.0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetFieldAndAddCodeReplaceInPlace(t *testing.T) {
	v := &Version{Name: "1"}
	require.NoError(t, v.SetField("interpreter", "Python 3.8"))
	require.NoError(t, v.SetField("framework", "Flask"))
	require.NoError(t, v.SetField("interpreter", "Python 3.9"))
	assert.Equal(t, []Field{{"interpreter", "Python 3.9"}, {"framework", "Flask"}}, v.Fields)
	assert.ErrorIs(t, v.SetField("", "x"), layout.ErrInvalidArgument)

	require.NoError(t, v.AddCode("a.py", "old"))
	require.NoError(t, v.AddCode("b.py", "b"))
	require.NoError(t, v.AddCode("a.py", "new"))
	assert.Equal(t, []CodeSection{{"a.py", "new"}, {"b.py", "b"}}, v.Code)
	assert.ErrorIs(t, v.AddCode(" ", "x"), layout.ErrInvalidArgument)
}

func TestReviewWorkflow(t *testing.T) {
	v := &Version{Name: "1"}
	require.NoError(t, v.AddCode("main.py", "print 'hi'"))
	require.NoError(t, v.AddCode("util.py", "x=1"))
	v.SetSuggestion("main.py", "print('hi')", false)
	v.SetSuggestion("util.py", "x = 1", false)
	v.SetSuggestion("gone.py", "Error: Could not connect to the API.", true)

	assert.Equal(t, []string{"main.py", "util.py", "gone.py"}, v.Pending())

	require.NoError(t, v.Review("main.py", DecisionAccepted))
	require.NoError(t, v.Review("util.py", DecisionRejected))
	assert.ErrorIs(t, v.Review("gone.py", DecisionAccepted), layout.ErrInvalidArgument)
	assert.ErrorIs(t, v.Review("nope.py", DecisionAccepted), ErrNotFound)
	assert.ErrorIs(t, v.Review("main.py", Decision("maybe")), layout.ErrInvalidArgument)

	applied := v.Finalize()
	assert.Equal(t, []string{"main.py"}, applied)
	code, _ := v.CodeFor("main.py")
	assert.Equal(t, "print('hi')", code)
	code, _ = v.CodeFor("util.py")
	assert.Equal(t, "x=1", code)

	// 重新生成建议后回到待审阅状态
	v.SetSuggestion("main.py", "print(\"hi\")", false)
	assert.Equal(t, DecisionPending, v.Suggestion("main.py").Decision)
	assert.Len(t, v.Suggestions, 3)
}

func TestParseDecision(t *testing.T) {
	cases := map[string]Decision{
		"Apply AI Suggestion": DecisionAccepted,
		"accepted":            DecisionAccepted,
		"Keep Original":       DecisionRejected,
		"reject":              DecisionRejected,
		"":                    DecisionPending,
	}
	for in, want := range cases {
		got, err := ParseDecision(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDecision("later")
	assert.True(t, errors.Is(err, layout.ErrInvalidArgument))
}

func TestProjectValidate(t *testing.T) {
	require.NoError(t, New("ok").Validate())

	cases := map[string]*Project{
		"nil version":       {Title: "x", Versions: []*Version{nil}},
		"blank version":     {Title: "x", Versions: []*Version{{Name: " "}}},
		"duplicate version": {Title: "x", Versions: []*Version{{Name: "1"}, {Name: "1"}}},
		"nil suggestion":    {Title: "x", Versions: []*Version{{Name: "1", Suggestions: []*Suggestion{nil}}}},
		"duplicate code": {Title: "x", Versions: []*Version{{Name: "1", Code: []CodeSection{
			{File: "a.go"}, {File: "a.go"},
		}}}},
		"blank suggestion file": {Title: "x", Versions: []*Version{{Name: "1", Suggestions: []*Suggestion{{File: ""}}}}},
		"unknown decision": {Title: "x", Versions: []*Version{{Name: "1", Suggestions: []*Suggestion{
			{File: "a.go", Decision: "maybe"},
		}}}},
		"failed accepted": {Title: "x", Versions: []*Version{{Name: "1", Suggestions: []*Suggestion{
			{File: "a.go", Decision: DecisionAccepted, Failed: true},
		}}}},
		"bad attachment":  {Title: "x", Versions: []*Version{{Name: "1", Attachments: []layout.Block{layout.Heading("h", 7)}}}},
		"negative length": {Title: "x", MaxLineLength: -1},
	}
	for name, p := range cases {
		assert.ErrorIs(t, p.Validate(), layout.ErrInvalidArgument, name)
		_, err := Compose(p, DefaultComposeOptions())
		assert.ErrorIs(t, err, layout.ErrInvalidArgument, name)
	}
	var nilProject *Project
	assert.ErrorIs(t, nilProject.Validate(), layout.ErrInvalidArgument)
}

func TestPendingTreatsMissingDecisionAsPending(t *testing.T) {
	v := &Version{Name: "1", Suggestions: []*Suggestion{{File: "a.go", Text: "x"}}}
	assert.Equal(t, []string{"a.go"}, v.Pending())
}
