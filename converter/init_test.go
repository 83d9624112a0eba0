package converter

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestInitCreatesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "configs")

	created, err := Init(dir, quietLogger())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(created) != len(initFiles) {
		t.Fatalf("создано %d файлов, ожидалось %d", len(created), len(initFiles))
	}

	for name := range initFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("файл %s не создан: %v", name, err)
		}
	}
}

func TestInitSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "sysctl.conf")
	if err := os.WriteFile(existing, []byte("mine = 1\n"), 0o644); err != nil {
		t.Fatalf("не удалось создать тестовый файл: %v", err)
	}

	created, err := Init(dir, quietLogger())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(created) != len(initFiles)-1 {
		t.Errorf("создано %d файлов, ожидалось %d", len(created), len(initFiles)-1)
	}

	content, _ := os.ReadFile(existing)
	if string(content) != "mine = 1\n" {
		t.Error("существующий файл перезаписан")
	}
}

func TestInitSamplesValidate(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir, quietLogger()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, schemaName := range []string{"sysctl.schema", "sysctl.schema.toml"} {
		t.Run(schemaName, func(t *testing.T) {
			err := Convert(context.Background(), Options{
				Inputs: []string{filepath.Join(dir, "sysctl.conf")},
				Schema: filepath.Join(dir, schemaName),
				Stdout: io.Discard,
				Logger: quietLogger(),
			})
			if err != nil {
				t.Errorf("пример не проходит свою схему: %v", err)
			}
		})
	}
}
