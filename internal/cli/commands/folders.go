package commands

import (
	"context"
	"fmt"
	"strings"

	"ClipSync/internal/cli/bootstrap"
	"ClipSync/internal/config"
)

type foldersCmd struct{}

func (foldersCmd) Name() string        { return "folders" }
func (foldersCmd) Description() string { return "Список папок (* — активная)" }
func (foldersCmd) Usage() string       { return "folders" }

func (foldersCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		folders, err := svc.Clips.Folders(ctx)
		if err != nil {
			return err
		}
		if len(folders) == 0 {
			fmt.Fprintln(Out, "Нет папок")
			return nil
		}
		active, _ := svc.Clips.ActiveFolder(ctx)
		for _, f := range folders {
			mark := " "
			if f.ID == active {
				mark = "*"
			}
			fmt.Fprintf(Out, "%s %s  %s\n", mark, f.ID, f.Name)
		}
		return nil
	})
}

type folderAddCmd struct{}

func (folderAddCmd) Name() string        { return "folder-add" }
func (folderAddCmd) Description() string { return "Создать папку и сделать её активной" }
func (folderAddCmd) Usage() string       { return "folder-add <name>..." }

func (folderAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		f, err := svc.Clips.AddFolder(ctx, name)
		if err != nil {
			return err
		}
		if err := svc.Clips.SetActiveFolder(ctx, f.ID); err != nil {
			return err
		}
		fmt.Fprintf(Out, "✓ Папка создана: %s (%s)\n", f.Name, f.ID)
		return nil
	})
}

type folderDeleteCmd struct{}

func (folderDeleteCmd) Name() string { return "folder-delete" }
func (folderDeleteCmd) Description() string {
	return "Удалить папку; клипы остаются без папки"
}
func (folderDeleteCmd) Usage() string { return "folder-delete <folder>" }

func (folderDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		f, err := svc.Clips.ResolveFolder(ctx, args[0])
		if err != nil {
			return err
		}
		if err := svc.Clips.DeleteFolder(ctx, f.ID); err != nil {
			return err
		}
		fmt.Fprintf(Out, "✓ Папка удалена: %s\n", f.Name)
		return nil
	})
}

type folderUseCmd struct{}

func (folderUseCmd) Name() string        { return "folder-use" }
func (folderUseCmd) Description() string { return "Выбрать активную папку (без аргумента — все клипы)" }
func (folderUseCmd) Usage() string       { return "folder-use [<folder>]" }

func (folderUseCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		if len(args) == 0 {
			if err := svc.Clips.SetActiveFolder(ctx, ""); err != nil {
				return err
			}
			fmt.Fprintln(Out, "• Все клипы")
			return nil
		}
		f, err := svc.Clips.ResolveFolder(ctx, args[0])
		if err != nil {
			return err
		}
		if err := svc.Clips.SetActiveFolder(ctx, f.ID); err != nil {
			return err
		}
		fmt.Fprintf(Out, "• Папка: %s\n", f.Name)
		return nil
	})
}

func init() {
	RegisterCmd(foldersCmd{})
	RegisterCmd(folderAddCmd{})
	RegisterCmd(folderDeleteCmd{})
	RegisterCmd(folderUseCmd{})
}
