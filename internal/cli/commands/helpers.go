package commands

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ClipSync/internal/cli/bootstrap"
	"ClipSync/internal/cli/model"
	"ClipSync/internal/config"
)

// withServices открывает сервисы профиля на время выполнения fn.
func withServices(cfg *config.Config, fn func(*bootstrap.Services) error) error {
	svc, done, err := openServices(cfg)
	if err != nil {
		return err
	}
	defer done()
	return fn(svc)
}

// preview укорачивает текст клипа до одной строки для вывода в списке.
func preview(text string, max int) string {
	s := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

func printClip(c *model.Clip) {
	star := " "
	if c.Starred {
		star = "★"
	}
	line := fmt.Sprintf("%s %s  %s", star, c.ID, preview(c.Text, 60))
	if n := c.Count(); n > 1 {
		line += fmt.Sprintf("  (x%d)", n)
	}
	if len(c.Tags) > 0 {
		line += "  [" + strings.Join(c.Tags, ", ") + "]"
	}
	fmt.Fprintln(Out, line)
}
