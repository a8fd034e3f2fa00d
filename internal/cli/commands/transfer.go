package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"ClipSync/internal/cli/bootstrap"
	"ClipSync/internal/cli/model"
	"ClipSync/internal/config"
)

type copyCmd struct{}

func (copyCmd) Name() string { return "copy" }
func (copyCmd) Description() string {
	return "Вывести все клипы папки одним текстом (звёздочки первыми)"
}
func (copyCmd) Usage() string {
	return "copy [--all] [--format bullets|numbers|lines] [--save-format]"
}

func (copyCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("copy", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	all := fs.Bool("all", false, "все клипы, а не только активная папка")
	format := fs.String("format", "", "формат: bullets|numbers|lines (по умолчанию сохранённый)")
	save := fs.Bool("save-format", false, "запомнить формат")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		f := model.CopyFormat("")
		if *format != "" {
			parsed, err := parseFormat(*format)
			if err != nil {
				return err
			}
			f = parsed
			if *save {
				if _, err := svc.Clips.SetCopyFormat(ctx, *format); err != nil {
					return err
				}
			}
		}
		folderID := ""
		if !*all {
			active, err := svc.Clips.ActiveFolder(ctx)
			if err != nil {
				return err
			}
			folderID = active
		}
		text, n, err := svc.Clips.CopyAll(ctx, folderID, f)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(Out, "Нет клипов")
			return nil
		}
		fmt.Fprintln(Out, text)
		return nil
	})
}

func parseFormat(s string) (model.CopyFormat, error) {
	f := model.ParseCopyFormat(s)
	if string(f) != s {
		return "", fmt.Errorf("unknown copy format %q (bullets|numbers|lines)", s)
	}
	return f, nil
}

type exportCmd struct{}

func (exportCmd) Name() string        { return "export" }
func (exportCmd) Description() string { return "Экспорт клипов, папок и правил в JSON" }
func (exportCmd) Usage() string       { return "export [<file>]" }

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		data, err := svc.Clips.Export(ctx)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			_, err := fmt.Fprintln(Out, string(data))
			return err
		}
		if err := os.WriteFile(args[0], data, 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(Out, "✓ Экспортировано в %s\n", args[0])
		return nil
	})
}

type importCmd struct{}

func (importCmd) Name() string        { return "import" }
func (importCmd) Description() string { return "Импорт JSON-экспорта (слияние по id)" }
func (importCmd) Usage() string       { return "import <file>" }

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		n, err := svc.Clips.Import(ctx, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "✓ Импортировано клипов: %d\n", n)
		return nil
	})
}

func init() {
	RegisterCmd(copyCmd{})
	RegisterCmd(exportCmd{})
	RegisterCmd(importCmd{})
}
