package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ClipSync/internal/cli/bootstrap"
	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/model/view"
	"ClipSync/internal/config"
)

type rulesCmd struct{}

func (rulesCmd) Name() string        { return "rules" }
func (rulesCmd) Description() string { return "Список правил автотегирования" }
func (rulesCmd) Usage() string       { return "rules" }

func (rulesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		rules, err := svc.Clips.TagRules(ctx)
		if err != nil {
			return err
		}
		if len(rules) == 0 {
			fmt.Fprintln(Out, "Нет правил")
			return nil
		}
		for i, r := range rules {
			fmt.Fprintf(Out, "%d. %-12s %q → %s\n", i+1, r.Type, r.Pattern, strings.Join(r.Tags, ", "))
		}
		return nil
	})
}

type ruleAddCmd struct{}

func (ruleAddCmd) Name() string { return "rule-add" }
func (ruleAddCmd) Description() string {
	return "Добавить правило и пересчитать теги всех клипов"
}
func (ruleAddCmd) Usage() string { return "rule-add url-contains|text-regex <pattern> <tag[,tag...]>" }

func (ruleAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	rule := model.TagRule{Type: args[0], Pattern: args[1], Tags: strings.Split(args[2], ",")}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		if err := svc.Clips.AddTagRule(ctx, rule); err != nil {
			return err
		}
		fmt.Fprintln(Out, "✓ Правило добавлено")
		return nil
	})
}

type ruleDeleteCmd struct{}

func (ruleDeleteCmd) Name() string        { return "rule-delete" }
func (ruleDeleteCmd) Description() string { return "Удалить правило по номеру из списка rules" }
func (ruleDeleteCmd) Usage() string       { return "rule-delete <n>" }

func (ruleDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		if err := svc.Clips.DeleteTagRule(ctx, n-1); err != nil {
			return err
		}
		fmt.Fprintln(Out, "✓ Правило удалено")
		return nil
	})
}

type recomputeCmd struct{}

func (recomputeCmd) Name() string        { return "recompute" }
func (recomputeCmd) Description() string { return "Пересчитать теги всех клипов по текущим правилам" }
func (recomputeCmd) Usage() string       { return "recompute" }

func (recomputeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		n := svc.Clips.RecomputeAllTags(ctx)
		fmt.Fprintf(Out, "✓ Обновлено клипов: %d\n", n)
		return nil
	})
}

type tagsCmd struct{}

func (tagsCmd) Name() string        { return "tags" }
func (tagsCmd) Description() string { return "Все теги, встречающиеся в клипах" }
func (tagsCmd) Usage() string       { return "tags" }

func (tagsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		clips, err := svc.Clips.ListClips(ctx, view.Filter{})
		if err != nil {
			return err
		}
		tags := view.UniqueTags(clips)
		if len(tags) == 0 {
			fmt.Fprintln(Out, "Нет тегов")
			return nil
		}
		fmt.Fprintln(Out, strings.Join(tags, "\n"))
		return nil
	})
}

func init() {
	RegisterCmd(tagsCmd{})
	RegisterCmd(rulesCmd{})
	RegisterCmd(ruleAddCmd{})
	RegisterCmd(ruleDeleteCmd{})
	RegisterCmd(recomputeCmd{})
}
