package commands

import (
	"bytes"
	"strings"
	"testing"

	"ClipSync/internal/config"
)

// withTempProfile возвращает конфиг с профилем в temp-каталоге,
// чтобы база клиента создавалась в temp.
func withTempProfile(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	t.Setenv("CLIENT_DB_PATH", "")
	return &config.Config{
		ClientStore:         config.StoreSQLite,
		ClientDBPath:        t.TempDir(),
		Profile:             "test",
		ServerURL:           serverURL,
		SyncIntervalSeconds: 300,
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// withStdin подменяет поток ввода команд.
func withStdin(t *testing.T, s string) {
	t.Helper()
	old := In
	In = strings.NewReader(s)
	t.Cleanup(func() { In = old })
}
