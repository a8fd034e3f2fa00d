package commands

import (
	"context"
	"fmt"

	"ClipSync/internal/cli/bootstrap"
	"ClipSync/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Состояние синхронизации и доступность сервера" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withServices(cfg, func(svc *bootstrap.Services) error {
		st, err := svc.Sync.GetSyncStatus(ctx)
		if err != nil {
			return err
		}
		reachable := svc.Sync.CheckBackend(ctx)

		fmt.Fprintf(Out, "Профиль:        %s\n", cfg.Profile)
		fmt.Fprintf(Out, "Устройство:     %s\n", st.DeviceID)
		fmt.Fprintf(Out, "Сервер:         %s\n", st.BackendURL)
		if reachable {
			fmt.Fprintln(Out, "Доступность:    ✓ доступен")
		} else {
			fmt.Fprintln(Out, "Доступность:    × недоступен")
		}
		if st.Registered {
			fmt.Fprintln(Out, "Регистрация:    ✓")
		} else {
			fmt.Fprintln(Out, "Регистрация:    • нет токена (см. register)")
		}
		if st.LastSync > 0 {
			fmt.Fprintf(Out, "Последняя синхронизация: %s\n", st.LastSyncDate)
		} else {
			fmt.Fprintln(Out, "Последняя синхронизация: никогда")
		}
		fmt.Fprintf(Out, "Ожидают отправки: %d\n", st.UnsyncedCount)
		return nil
	})
}

func init() { RegisterCmd(statusCmd{}) }
