package view

import (
	"testing"

	"ClipSync/internal/cli/model"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func sample() []*model.Clip {
	return []*model.Clip{
		{ID: "a", Text: "Deploy notes", CreatedAt: 1, FolderID: strp("f1"), Tags: []string{"ops"}},
		nil,
		{ID: "b", Text: "go snippet", URL: "https://GitHub.com/x", CreatedAt: 3, Starred: true, Tags: []string{"code", "go"}},
		{ID: "c", Text: "recipe", Title: "Dinner", CreatedAt: 2, FolderID: strp("f1")},
	}
}

func ids(clips []*model.Clip) []string {
	out := make([]string, 0, len(clips))
	for _, c := range clips {
		out = append(out, c.ID)
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	clips := sample()
	assert.Equal(t, []string{"a", "b", "c"}, ids(Filter{}.Apply(clips)))
	assert.Equal(t, []string{"a", "c"}, ids(Filter{FolderID: "f1"}.Apply(clips)))
	assert.Equal(t, []string{"b"}, ids(Filter{Tag: "go"}.Apply(clips)))
	assert.Equal(t, []string{"b"}, ids(Filter{Query: " github "}.Apply(clips)), "url match ignores case")
	assert.Equal(t, []string{"c"}, ids(Filter{Query: "dinner", FolderID: "f1"}.Apply(clips)))
	assert.Empty(t, Filter{Tag: "ops", FolderID: "zzz"}.Apply(clips))
}

func TestSortForCopy_StarredFirstThenNewest(t *testing.T) {
	in := Filter{}.Apply(sample())
	sorted := SortForCopy(in)
	assert.Equal(t, []string{"b", "c", "a"}, ids(sorted))
	// исходный срез не меняется
	assert.Equal(t, []string{"a", "b", "c"}, ids(in))
}

func TestFormatClips(t *testing.T) {
	clips := []*model.Clip{{Text: "one"}, {Text: "two"}}
	assert.Equal(t, "- one\n- two", FormatClips(clips, model.CopyBullets))
	assert.Equal(t, "1. one\n2. two", FormatClips(clips, model.CopyNumbers))
	assert.Equal(t, "one\ntwo", FormatClips(clips, model.CopyLines))
	assert.Equal(t, "- one\n- two", FormatClips(clips, model.CopyFormat("weird")))
	assert.Equal(t, "", FormatClips(nil, model.CopyBullets))
}

func TestUniqueTags(t *testing.T) {
	assert.Equal(t, []string{"code", "go", "ops"}, UniqueTags(sample()))
	assert.Empty(t, UniqueTags(nil))
}
