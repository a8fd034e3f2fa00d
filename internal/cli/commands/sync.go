package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"ClipSync/internal/cli/bootstrap"
	"ClipSync/internal/cli/service"
	"ClipSync/internal/config"
)

type syncCmd struct{}

func (syncCmd) Name() string { return "sync" }
func (syncCmd) Description() string {
	return "Синхронизировать клипы с сервером"
}
func (syncCmd) Usage() string { return "sync" }

func (syncCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		fmt.Fprintln(Out, "→ Синхронизация…")
		printSyncResult(svc.Sync.SyncClips(ctx))
		return nil
	})
}

func printSyncResult(res service.SyncResult) {
	if !res.Success {
		fmt.Fprintf(Out, "× Ошибка синхронизации: %s\n", res.Error)
		return
	}
	if res.Uploaded > 0 {
		fmt.Fprintf(Out, "✓ Отправлено на сервер: %d\n", res.Uploaded)
	}
	if res.Downloaded > 0 {
		fmt.Fprintf(Out, "✓ Получено с сервера: %d\n", res.Downloaded)
	}
	if res.Uploaded == 0 && res.Downloaded == 0 {
		fmt.Fprintln(Out, "• Синхронизация завершена: изменений нет")
	}
}

type syncFullCmd struct{}

func (syncFullCmd) Name() string { return "sync-full" }
func (syncFullCmd) Description() string {
	return "Заменить локальные клипы полной копией с сервера"
}
func (syncFullCmd) Usage() string { return "sync-full" }

func (syncFullCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		res := svc.Sync.ForceFullSync(ctx)
		if !res.Success {
			fmt.Fprintf(Out, "× Ошибка полной синхронизации: %s\n", res.Error)
			return nil
		}
		fmt.Fprintf(Out, "✓ Полная синхронизация: %d клипов\n", res.Downloaded)
		return nil
	})
}

type deleteCmd struct{}

func (deleteCmd) Name() string { return "delete" }
func (deleteCmd) Description() string {
	return "Удалить клип локально и на сервере"
}
func (deleteCmd) Usage() string { return "delete <clip-id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		if err := svc.Sync.DeleteClip(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(Out, "✓ Удалён")
		return nil
	})
}

type registerCmd struct{}

func (registerCmd) Name() string { return "register" }
func (registerCmd) Description() string {
	return "Зарегистрировать устройство на сервере и сохранить токен"
}
func (registerCmd) Usage() string { return "register [<sync-secret>]" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	secret := ""
	if len(args) == 1 {
		secret = args[0]
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		id, err := svc.Sync.RegisterDevice(ctx, secret)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "✓ Устройство зарегистрировано: %s\n", id)
		return nil
	})
}

type watchCmd struct{}

func (watchCmd) Name() string { return "watch" }
func (watchCmd) Description() string {
	return "Синхронизировать периодически до Ctrl+C"
}
func (watchCmd) Usage() string { return "watch [--interval <seconds>]" }

func (watchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	interval := fs.Int("interval", cfg.SyncIntervalSeconds, "интервал в секундах")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 || *interval <= 0 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		fmt.Fprintf(Out, "→ Синхронизация каждые %ds, Ctrl+C для выхода\n", *interval)
		svc.Sync.Run(ctx, time.Duration(*interval)*time.Second, printSyncResult)
		fmt.Fprintln(Out, "• Остановлено")
		return nil
	})
}

func init() {
	RegisterCmd(syncCmd{})
	RegisterCmd(syncFullCmd{})
	RegisterCmd(deleteCmd{})
	RegisterCmd(registerCmd{})
	RegisterCmd(watchCmd{})
}
