package view

import (
	"fmt"
	"sort"
	"strings"

	"ClipSync/internal/cli/model"
)

// Filter: критерии отбора клипов для списка и копирования.
type Filter struct {
	FolderID string // пусто: все папки
	Query    string // подстрока в text/title/url без учёта регистра
	Tag      string
}

// Apply возвращает клипы, подходящие под фильтр, в исходном порядке.
func (f Filter) Apply(clips []*model.Clip) []*model.Clip {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]*model.Clip, 0, len(clips))
	for _, c := range clips {
		if c == nil {
			continue
		}
		if f.FolderID != "" && !c.InFolder(f.FolderID) {
			continue
		}
		if f.Tag != "" && !hasTag(c.Tags, f.Tag) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Text), q) &&
			!strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.URL), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SortForCopy упорядочивает копию среза: сначала помеченные звёздочкой, затем новые.
func SortForCopy(clips []*model.Clip) []*model.Clip {
	out := append([]*model.Clip(nil), clips...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Starred != out[j].Starred {
			return out[i].Starred
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// FormatClips собирает текст для буфера обмена.
func FormatClips(clips []*model.Clip, format model.CopyFormat) string {
	lines := make([]string, 0, len(clips))
	for i, c := range clips {
		switch format {
		case model.CopyNumbers:
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, c.Text))
		case model.CopyLines:
			lines = append(lines, c.Text)
		default:
			lines = append(lines, "- "+c.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// UniqueTags возвращает отсортированный список всех тегов коллекции.
func UniqueTags(clips []*model.Clip) []string {
	set := map[string]struct{}{}
	for _, c := range clips {
		if c == nil {
			continue
		}
		for _, t := range c.Tags {
			if t != "" {
				set[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
