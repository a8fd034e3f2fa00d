package service

import (
	"context"
	"strings"

	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/repo"
	"ClipSync/internal/cli/tagrules"
)

func (s *ClipService) TagRules(ctx context.Context) ([]model.TagRule, error) {
	return repo.TagRules(ctx, s.store)
}

// AddTagRule проверяет и добавляет правило, затем планирует пересчёт тегов.
func (s *ClipService) AddTagRule(ctx context.Context, rule model.TagRule) error {
	if err := tagrules.ValidateRule(rule); err != nil {
		return err
	}
	rules, err := repo.TagRules(ctx, s.store)
	if err != nil {
		return err
	}
	tags := make([]string, 0, len(rule.Tags))
	for _, t := range rule.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	rule.Tags = tags
	return s.saveRules(ctx, append(rules, rule))
}

// DeleteTagRule удаляет правило по индексу в списке.
func (s *ClipService) DeleteTagRule(ctx context.Context, index int) error {
	rules, err := repo.TagRules(ctx, s.store)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(rules) {
		return ErrInvalidIndex
	}
	return s.saveRules(ctx, append(rules[:index], rules[index+1:]...))
}

// ReplaceTagRules записывает набор правил целиком (импорт настроек).
func (s *ClipService) ReplaceTagRules(ctx context.Context, rules []model.TagRule) error {
	return s.saveRules(ctx, rules)
}

func (s *ClipService) saveRules(ctx context.Context, rules []model.TagRule) error {
	if err := repo.SetTagRules(ctx, s.store, rules); err != nil {
		return err
	}
	if s.recompute != nil {
		s.recompute.Schedule()
	}
	return nil
}
