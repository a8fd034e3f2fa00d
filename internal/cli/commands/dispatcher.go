package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"ClipSync/internal/cli/repo"
	"ClipSync/internal/config"
)

// aliases: короткие имена для частых команд.
var aliases = map[string]string{
	"ls": "clips",
	"rm": "remove",
	"cp": "copy",
	"st": "status",
}

// resolve находит команду по имени или алиасу без учёта регистра.
func resolve(name string) (Command, bool) {
	name = strings.ToLower(name)
	if full, ok := aliases[name]; ok {
		name = full
	}
	return Get(name)
}

// Dispatch is the single entry point to execute CLI commands.
// It prints help and usage messages and returns a process exit code:
// 0 on success, 1 when the command failed, 2 on usage errors.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	for _, a := range os.Args[1:] {
		if a == "--help" || a == "-h" {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
	}
	if !flag.Parsed() {
		flag.Parse()
	}
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	if strings.EqualFold(args[0], "help") {
		return helpFor(args[1:])
	}

	c, ok := resolve(args[0])
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[0])
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}
	return report(cfg, c, c.Run(ctx, cfg, args[1:]))
}

// helpFor печатает справку по команде или общий список.
func helpFor(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 0
	}
	if c, ok := resolve(args[0]); ok {
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return 0
	}
	fmt.Fprintf(Out, "Unknown command: %s\n\n", args[0])
	fmt.Fprint(Out, FormatGlobalUsage())
	return 2
}

func report(cfg *config.Config, c Command, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return 2
	case errors.Is(err, repo.ErrCorrupt):
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
		fmt.Fprintf(Out, "Данные профиля %q повреждены: восстановите их командой import или смените --profile\n", cfg.Profile)
		return 1
	default:
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
		return 1
	}
}
