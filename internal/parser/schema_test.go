package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovanwin/sysctlconf/internal/model"
)

func TestParseSchemaLine(t *testing.T) {
	tests := []struct {
		input string
		want  model.SchemaField
	}{
		{"is_active -> bool", model.SchemaField{Name: "is_active", Type: model.FieldBool}},
		{"username->string", model.SchemaField{Name: "username", Type: model.FieldString}},
		{"flag\t->\tbool", model.SchemaField{Name: "flag", Type: model.FieldBool}},
		{"имя -> string", model.SchemaField{Name: "имя", Type: model.FieldString}},
		{"v2 -> bool  ", model.SchemaField{Name: "v2", Type: model.FieldBool}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSchemaLine(tt.input)
			if err != nil {
				t.Fatalf("ParseSchemaLine(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSchemaLine(%q) = %+v, ожидалось %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSchemaLineErrors(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{"invalid line", "missing '->'"},
		{"-> bool", "empty identifier"},
		{"  name -> bool", "empty identifier"},
		{"", "empty identifier"},
		{"name -> int", "unknown type"},
		{"name ->", "unknown type"},
		{"name -> Bool", "unknown type"},
		{"name -> bool # comment", "unknown type"},
		{"na-me -> bool", "missing '->'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseSchemaLine(tt.input)
			if err == nil {
				t.Fatalf("ParseSchemaLine(%q): ожидалась ошибка", tt.input)
			}
			if !errors.Is(err, ErrMalformedSchema) {
				t.Errorf("ошибка должна оборачивать ErrMalformedSchema: %v", err)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("ошибка %q не содержит %q", err, tt.reason)
			}
		})
	}
}

func TestParseSchemaMultipleLines(t *testing.T) {
	input := "enable_feature -> bool\ndisplay_name -> string\nanother_flag->bool\n"

	fields, err := ParseSchema(input)
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}

	expected := []model.SchemaField{
		{Name: "enable_feature", Type: model.FieldBool},
		{Name: "display_name", Type: model.FieldString},
		{Name: "another_flag", Type: model.FieldBool},
	}
	if len(fields) != len(expected) {
		t.Fatalf("получено %d полей, ожидалось %d", len(fields), len(expected))
	}
	for i := range expected {
		if fields[i] != expected[i] {
			t.Errorf("fields[%d] = %+v, ожидалось %+v", i, fields[i], expected[i])
		}
	}
}

func TestParseSchemaCRLF(t *testing.T) {
	fields, err := ParseSchema("a -> bool\r\nb -> string\r\n")
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}
	if len(fields) != 2 || fields[1].Name != "b" {
		t.Errorf("неожиданный результат: %+v", fields)
	}
}

func TestParseSchemaEmpty(t *testing.T) {
	for _, input := range []string{"", "\n", "\r\n"} {
		fields, err := ParseSchema(input)
		if err != nil {
			t.Errorf("ParseSchema(%q): %v", input, err)
		}
		if len(fields) != 0 {
			t.Errorf("ParseSchema(%q) = %+v, ожидалось пусто", input, fields)
		}
	}
}

func TestParseSchemaFailsOnFirstBadLine(t *testing.T) {
	input := "ok -> bool\nbroken line\nalso bad\n"

	fields, err := ParseSchema(input)
	if err == nil {
		t.Fatal("ожидалась ошибка")
	}
	if fields != nil {
		t.Errorf("при ошибке не должно быть частичного результата: %+v", fields)
	}

	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("ожидалась *SchemaError, получено %T", err)
	}
	if se.Line != 2 || se.Content != "broken line" {
		t.Errorf("SchemaError = %+v, ожидалась строка 2", se)
	}
}

func TestParseSchemaRejectsBlankLines(t *testing.T) {
	_, err := ParseSchema("a -> bool\n\nb -> string\n")
	if err == nil {
		t.Error("пустая строка в середине схемы должна быть ошибкой")
	}
	_, err = ParseSchema("a -> bool\n\n")
	if err == nil {
		t.Error("две завершающие пустые строки должны быть ошибкой")
	}
}

func TestParseSchemaTOML(t *testing.T) {
	content := `
[fields]
username = "string"
is_active = "bool"
`
	fields, err := ParseSchemaTOML(content)
	if err != nil {
		t.Fatalf("ParseSchemaTOML: %v", err)
	}

	expected := []model.SchemaField{
		{Name: "is_active", Type: model.FieldBool},
		{Name: "username", Type: model.FieldString},
	}
	if len(fields) != len(expected) {
		t.Fatalf("получено %d полей, ожидалось %d", len(fields), len(expected))
	}
	for i := range expected {
		if fields[i] != expected[i] {
			t.Errorf("fields[%d] = %+v, ожидалось %+v", i, fields[i], expected[i])
		}
	}
}

func TestParseSchemaTOMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"неизвестный тип", "[fields]\nport = \"int\"\n"},
		{"не строка", "[fields]\nport = 1\n"},
		{"лишняя секция", "[fields]\na = \"bool\"\n[other]\nb = \"x\"\n"},
		{"невалидный toml", "[[[ это не toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSchemaTOML(tt.content); err == nil {
				t.Errorf("ожидалась ошибка для %q", tt.content)
			}
		})
	}
}

func TestParseSchemaFile(t *testing.T) {
	tmpDir := t.TempDir()

	dslPath := filepath.Join(tmpDir, "app.schema")
	if err := os.WriteFile(dslPath, []byte("is_active -> bool\nusername -> string\n"), 0o644); err != nil {
		t.Fatalf("не удалось создать тестовый файл: %v", err)
	}
	tomlPath := filepath.Join(tmpDir, "schema.toml")
	if err := os.WriteFile(tomlPath, []byte("[fields]\nusername = \"string\"\nis_active = \"bool\"\n"), 0o644); err != nil {
		t.Fatalf("не удалось создать тестовый файл: %v", err)
	}

	fromDSL, err := ParseSchemaFile(dslPath)
	if err != nil {
		t.Fatalf("ParseSchemaFile(dsl): %v", err)
	}
	fromTOML, err := ParseSchemaFile(tomlPath)
	if err != nil {
		t.Fatalf("ParseSchemaFile(toml): %v", err)
	}
	if len(fromDSL) != 2 || len(fromTOML) != 2 {
		t.Fatalf("dsl=%+v toml=%+v", fromDSL, fromTOML)
	}

	if _, err := ParseSchemaFile(filepath.Join(tmpDir, "missing.schema")); err == nil {
		t.Error("ожидалась ошибка для несуществующего файла")
	}
}
