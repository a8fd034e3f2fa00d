package tagrules

import (
	"testing"

	"ClipSync/internal/cli/model"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateRules_URLContains(t *testing.T) {
	rules := []model.TagRule{{Type: model.RuleURLContains, Pattern: "GitHub", Tags: []string{"code"}}}

	assert.Equal(t, []string{"code"}, EvaluateRules(rules, "any", "https://github.com/x/y"))
	assert.Empty(t, EvaluateRules(rules, "github", "https://example.com"))
}

func TestEvaluateRules_TextRegex(t *testing.T) {
	rules := []model.TagRule{{Type: model.RuleTextRegex, Pattern: `\bbug\b`, Tags: []string{" bug ", ""}}}

	assert.Equal(t, []string{"bug"}, EvaluateRules(rules, "Fix the urgent BUG", ""))
	assert.Empty(t, EvaluateRules(rules, "debugging", ""))
}

func TestEvaluateRules_InvalidRegexIsolated(t *testing.T) {
	rules := []model.TagRule{
		{Type: model.RuleTextRegex, Pattern: "([", Tags: []string{"broken"}},
		{Type: model.RuleURLContains, Pattern: "docs", Tags: []string{"docs"}},
		{Type: model.RuleTextRegex, Pattern: "todo", Tags: []string{"task"}},
	}

	var got []string
	assert.NotPanics(t, func() {
		got = EvaluateRules(rules, "TODO: write docs", "https://docs.example.com")
	})
	assert.Equal(t, []string{"docs", "task"}, got)
}

func TestEvaluateRules_InertAndUnknown(t *testing.T) {
	rules := []model.TagRule{
		{Type: model.RuleURLContains, Pattern: "", Tags: []string{"empty-pattern"}},
		{Type: model.RuleURLContains, Pattern: "x", Tags: nil},
		{Type: model.RuleURLContains, Pattern: "x", Tags: []string{"  "}},
		{Type: "domain-equals", Pattern: "x", Tags: []string{"unknown"}},
	}
	assert.Empty(t, EvaluateRules(rules, "x", "x"))
	assert.Empty(t, EvaluateRules(nil, "x", "x"))
	assert.Len(t, Compile(rules), 0)
}

func TestEvaluateRules_OrderedUnion(t *testing.T) {
	rules := []model.TagRule{
		{Type: model.RuleURLContains, Pattern: "github", Tags: []string{"code", "dev"}},
		{Type: model.RuleTextRegex, Pattern: "go", Tags: []string{"golang", "code"}},
	}
	assert.Equal(t, []string{"code", "dev", "golang"}, EvaluateRules(rules, "Go generics", "https://github.com"))
}

func TestFromModel_Variants(t *testing.T) {
	r, ok := FromModel(model.TagRule{Type: model.RuleTextRegex, Pattern: "(", Tags: []string{"t"}})
	assert.True(t, ok)
	tr, isRegex := r.(TextRegex)
	if assert.True(t, isRegex) {
		assert.False(t, tr.Valid())
		assert.False(t, tr.Match("(", ""))
	}

	r, ok = FromModel(model.TagRule{Type: model.RuleURLContains, Pattern: "a", Tags: []string{"t"}})
	assert.True(t, ok)
	_, isURL := r.(URLContains)
	assert.True(t, isURL)
}

func TestRecomputeTagsForClip(t *testing.T) {
	rules := []model.TagRule{{Type: model.RuleURLContains, Pattern: "github", Tags: []string{"code"}}}

	assert.Equal(t, []string{}, RecomputeTagsForClip(nil, rules))
	assert.Equal(t, []string{"code"}, RecomputeTagsForClip(&model.Clip{Text: "x", URL: "https://github.com"}, rules))
	assert.Equal(t, []string{}, RecomputeTagsForClip(&model.Clip{Text: "x"}, nil))
}

func TestTagsNeedUpdate(t *testing.T) {
	assert.False(t, TagsNeedUpdate(nil, []string{}))
	assert.False(t, TagsNeedUpdate([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, TagsNeedUpdate([]string{"a", "a", ""}, []string{"a"}))
	assert.True(t, TagsNeedUpdate([]string{"a"}, []string{"a", "b"}))
	assert.True(t, TagsNeedUpdate([]string{"a", "c"}, []string{"a", "b"}))
	assert.True(t, TagsNeedUpdate([]string{"code"}, nil))
}

func TestValidateRule(t *testing.T) {
	assert.NoError(t, ValidateRule(model.TagRule{Type: model.RuleURLContains, Pattern: "github", Tags: []string{"code"}}))
	assert.ErrorIs(t, ValidateRule(model.TagRule{Type: "x", Pattern: "a", Tags: []string{"t"}}), ErrUnknownType)
	assert.ErrorIs(t, ValidateRule(model.TagRule{Type: model.RuleURLContains, Pattern: " ", Tags: []string{"t"}}), ErrEmptyPattern)
	assert.ErrorIs(t, ValidateRule(model.TagRule{Type: model.RuleURLContains, Pattern: "a", Tags: []string{" "}}), ErrNoTags)
	assert.Error(t, ValidateRule(model.TagRule{Type: model.RuleTextRegex, Pattern: "([", Tags: []string{"t"}}))
}
