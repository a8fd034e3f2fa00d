// Package tagrules вычисляет автотеги клипа по пользовательским правилам.
//
// Правило хранится как model.TagRule (type/pattern/tags), а вычисляется через
// закрытый набор вариантов Rule: URLContains и TextRegex. Новый тип правила
// добавляется новым вариантом и веткой в FromModel.
package tagrules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ClipSync/internal/cli/model"
)

// Rule: вариант правила с собственной логикой сопоставления.
type Rule interface {
	// Match сообщает, срабатывает ли правило на текст/URL клипа.
	Match(text, url string) bool
	// Tags: очищенные теги правила (без пустых).
	Tags() []string
	rule()
}

// URLContains срабатывает, если URL содержит подстроку (без учёта регистра).
type URLContains struct {
	Pattern string
	tags    []string
}

func (r URLContains) Match(_, url string) bool {
	return strings.Contains(strings.ToLower(url), strings.ToLower(r.Pattern))
}
func (r URLContains) Tags() []string { return r.tags }
func (URLContains) rule()            {}

// TextRegex срабатывает, если текст совпадает с регулярным выражением (без учёта регистра).
// Невалидное выражение никогда не срабатывает.
type TextRegex struct {
	Pattern string
	re      *regexp.Regexp
	tags    []string
}

func (r TextRegex) Match(text, _ string) bool {
	if r.re == nil {
		return false
	}
	return r.re.MatchString(text)
}
func (r TextRegex) Tags() []string { return r.tags }
func (TextRegex) rule()            {}

// Valid сообщает, скомпилировалось ли выражение.
func (r TextRegex) Valid() bool { return r.re != nil }

func compileInsensitive(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

// cleanTags обрезает пробелы и отбрасывает пустые теги.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FromModel превращает сохранённое правило в вариант Rule.
// Возвращает false для инертных правил: пустой pattern, нет тегов, неизвестный тип.
func FromModel(tr model.TagRule) (Rule, bool) {
	tags := cleanTags(tr.Tags)
	if len(tags) == 0 || tr.Pattern == "" {
		return nil, false
	}
	switch tr.Type {
	case model.RuleURLContains:
		return URLContains{Pattern: tr.Pattern, tags: tags}, true
	case model.RuleTextRegex:
		re, err := compileInsensitive(tr.Pattern)
		if err != nil {
			// остаётся в наборе, но никогда не срабатывает
			return TextRegex{Pattern: tr.Pattern, tags: tags}, true
		}
		return TextRegex{Pattern: tr.Pattern, re: re, tags: tags}, true
	default:
		return nil, false
	}
}

// Set: скомпилированный набор правил в порядке их хранения.
type Set []Rule

// Compile компилирует правила один раз для многократного применения.
func Compile(rules []model.TagRule) Set {
	set := make(Set, 0, len(rules))
	for _, tr := range rules {
		if r, ok := FromModel(tr); ok {
			set = append(set, r)
		}
	}
	return set
}

// Evaluate возвращает объединение тегов сработавших правил
// в порядке первого появления.
func (s Set) Evaluate(text, url string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range s {
		if !r.Match(text, url) {
			continue
		}
		for _, t := range r.Tags() {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// EvaluateRules: вычисление тегов для одного захвата.
func EvaluateRules(rules []model.TagRule, text, url string) []string {
	return Compile(rules).Evaluate(text, url)
}

// RecomputeTagsForClip пересчитывает теги клипа; для nil возвращает пустой список.
func RecomputeTagsForClip(clip *model.Clip, rules []model.TagRule) []string {
	if clip == nil {
		return []string{}
	}
	return EvaluateRules(rules, clip.Text, clip.URL)
}

// TagsNeedUpdate сравнивает наборы тегов как множества (порядок и повторы не важны,
// пустые значения игнорируются).
func TagsNeedUpdate(oldTags, newTags []string) bool {
	a, b := tagSet(oldTags), tagSet(newTags)
	if len(a) != len(b) {
		return true
	}
	for t := range a {
		if _, ok := b[t]; !ok {
			return true
		}
	}
	return false
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

var (
	ErrUnknownType  = errors.New("unknown rule type")
	ErrEmptyPattern = errors.New("pattern is required")
	ErrNoTags       = errors.New("at least one tag is required")
)

// ValidateRule проверяет правило перед сохранением из настроек.
// Сам движок принимает любые правила; проверка нужна только для ввода пользователя.
func ValidateRule(tr model.TagRule) error {
	if tr.Type != model.RuleURLContains && tr.Type != model.RuleTextRegex {
		return fmt.Errorf("%w: %q", ErrUnknownType, tr.Type)
	}
	if strings.TrimSpace(tr.Pattern) == "" {
		return ErrEmptyPattern
	}
	if len(cleanTags(tr.Tags)) == 0 {
		return ErrNoTags
	}
	if tr.Type == model.RuleTextRegex {
		if _, err := compileInsensitive(tr.Pattern); err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
	}
	return nil
}
