package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"ClipSync/internal/cli/bootstrap"
	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/model/view"
	"ClipSync/internal/cli/service"
	"ClipSync/internal/config"
)

type saveCmd struct{}

func (saveCmd) Name() string        { return "save" }
func (saveCmd) Description() string { return "Сохранить текст (аргументы или stdin) с дедупликацией и автотегами" }
func (saveCmd) Usage() string {
	return "save [--title T] [--url U] [--source web|native] [--folder F] [<text>...]"
}

func (saveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "заголовок страницы")
	url := fs.String("url", "", "адрес источника")
	source := fs.String("source", model.SourceNative, "источник: web|native")
	folder := fs.String("folder", "", "папка (id или имя); по умолчанию активная")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if *source != model.SourceWeb && *source != model.SourceNative {
		return ErrUsage
	}
	text := strings.Join(fs.Args(), " ")
	if fs.NArg() == 0 {
		b, err := io.ReadAll(In)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimRight(string(b), "\r\n")
	}
	if strings.TrimSpace(text) == "" {
		return ErrUsage
	}

	return withServices(cfg, func(svc *bootstrap.Services) error {
		in := &service.ClipInput{Text: text, Title: *title, URL: *url, Source: *source}
		if *folder != "" {
			f, err := svc.Clips.ResolveFolder(ctx, *folder)
			if err != nil {
				return err
			}
			in.FolderID = model.StringPtr(f.ID)
		} else if active, err := svc.Clips.ActiveFolder(ctx); err == nil && active != "" {
			in.FolderID = model.StringPtr(active)
		}
		if !svc.Clips.SaveWithDedup(ctx, in) {
			return errors.New("clip was not saved")
		}
		fmt.Fprintln(Out, "✓ Клип сохранён")
		return nil
	})
}

type clipsCmd struct{}

func (clipsCmd) Name() string        { return "clips" }
func (clipsCmd) Description() string { return "Показать клипы (активная папка, поиск, тег)" }
func (clipsCmd) Usage() string {
	return "clips [--all] [--folder F] [--query Q] [--tag T]"
}

func (clipsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("clips", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	all := fs.Bool("all", false, "игнорировать активную папку")
	folder := fs.String("folder", "", "папка (id или имя)")
	query := fs.String("query", "", "подстрока в тексте, заголовке или url")
	tag := fs.String("tag", "", "тег")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		f := view.Filter{Query: *query, Tag: *tag}
		switch {
		case *folder != "":
			fo, err := svc.Clips.ResolveFolder(ctx, *folder)
			if err != nil {
				return err
			}
			f.FolderID = fo.ID
		case !*all:
			active, err := svc.Clips.ActiveFolder(ctx)
			if err != nil {
				return err
			}
			f.FolderID = active
		}
		clips, err := svc.Clips.ListClips(ctx, f)
		if err != nil {
			return err
		}
		if len(clips) == 0 {
			fmt.Fprintln(Out, "Нет клипов")
			return nil
		}
		for _, c := range clips {
			printClip(c)
		}
		fmt.Fprintf(Out, "Всего: %d\n", len(clips))
		return nil
	})
}

type starCmd struct{}

func (starCmd) Name() string        { return "star" }
func (starCmd) Description() string { return "Переключить отметку звёздочкой" }
func (starCmd) Usage() string       { return "star <clip-id>" }

func (starCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		starred, err := svc.Clips.ToggleStar(ctx, args[0])
		if err != nil {
			return err
		}
		if starred {
			fmt.Fprintln(Out, "★ Отмечен")
		} else {
			fmt.Fprintln(Out, "• Отметка снята")
		}
		return nil
	})
}

type removeCmd struct{}

func (removeCmd) Name() string        { return "remove" }
func (removeCmd) Description() string { return "Удалить клип только локально" }
func (removeCmd) Usage() string       { return "remove <clip-id>" }

func (removeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		removed, err := svc.Clips.RemoveClip(ctx, args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("clip %q: %w", args[0], service.ErrNotFound)
		}
		fmt.Fprintln(Out, "✓ Удалён локально")
		return nil
	})
}

type editCmd struct{}

func (editCmd) Name() string        { return "edit" }
func (editCmd) Description() string { return "Заменить текст клипа" }
func (editCmd) Usage() string       { return "edit <clip-id> <text>..." }

func (editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	text := strings.Join(args[1:], " ")
	return withServices(cfg, func(svc *bootstrap.Services) error {
		if err := svc.Clips.EditClip(ctx, args[0], text); err != nil {
			return err
		}
		fmt.Fprintln(Out, "✓ Сохранено")
		return nil
	})
}

type moveCmd struct{}

func (moveCmd) Name() string        { return "move" }
func (moveCmd) Description() string { return "Переместить клип в папку (без папки — убрать из папки)" }
func (moveCmd) Usage() string       { return "move <clip-id> [<folder>]" }

func (moveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		folderID := ""
		if len(args) == 2 {
			f, err := svc.Clips.ResolveFolder(ctx, args[1])
			if err != nil {
				return err
			}
			folderID = f.ID
		}
		if err := svc.Clips.MoveClip(ctx, args[0], folderID); err != nil {
			return err
		}
		fmt.Fprintln(Out, "✓ Перемещён")
		return nil
	})
}

func init() {
	RegisterCmd(saveCmd{})
	RegisterCmd(clipsCmd{})
	RegisterCmd(starCmd{})
	RegisterCmd(removeCmd{})
	RegisterCmd(editCmd{})
	RegisterCmd(moveCmd{})
}
