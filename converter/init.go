package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

var initFiles = map[string]string{
	"sysctl.conf": `# sysctl.conf — пример конфига
# Ключи через точку складываются во вложенные таблицы

endpoint = localhost:3000
debug = false

log.file = /var/log/console.log
log.level = info
`,

	"sysctl.schema": `endpoint -> string
debug -> bool
`,

	"sysctl.schema.toml": `# sysctl.schema.toml — та же схема в TOML

[fields]
endpoint = "string"
debug = "bool"
`,
}

// Init создаёт примеры конфига и схемы в указанной директории.
// Существующие файлы не перезаписываются.
func Init(dir string, logger *log.Logger) ([]string, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("создание директории %s: %w", dir, err)
	}

	var created []string
	for _, name := range sortedKeys(initFiles) {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			logger.Info("skip (already exists)", "file", name)
			continue
		}
		if err := os.WriteFile(path, []byte(initFiles[name]), 0o644); err != nil {
			return created, fmt.Errorf("запись %s: %w", name, err)
		}
		logger.Info("created", "file", name)
		created = append(created, path)
	}

	return created, nil
}

// sortedKeys возвращает отсортированные ключи map
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
