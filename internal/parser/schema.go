package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vovanwin/sysctlconf/internal/model"
)

// ErrMalformedSchema — корневая ошибка для всех ошибок разбора схемы
var ErrMalformedSchema = errors.New("malformed schema line")

// SchemaError указывает на первую строку схемы, которая не разобралась
type SchemaError struct {
	Line    int    // Номер строки с 1, 0 если неизвестен
	Content string // Содержимое строки
	Reason  string
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s %d: %q: %s", ErrMalformedSchema, e.Line, e.Content, e.Reason)
	}
	return fmt.Sprintf("%s: %q: %s", ErrMalformedSchema, e.Content, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrMalformedSchema }

// identifier -> type, пробелы и табы вокруг стрелки
var schemaLineRe = regexp.MustCompile(`^([\p{L}\p{N}_]*)[ \t]*(->)?[ \t]*(.*?)[ \t]*$`)

// ParseSchemaLine разбирает одну строку вида `name -> bool`
func ParseSchemaLine(line string) (model.SchemaField, error) {
	m := schemaLineRe.FindStringSubmatch(line)
	if m == nil {
		return model.SchemaField{}, &SchemaError{Content: line, Reason: "unexpected input"}
	}

	name, arrow, typ := m[1], m[2], m[3]
	if name == "" {
		return model.SchemaField{}, &SchemaError{Content: line, Reason: "empty identifier"}
	}
	if arrow == "" {
		return model.SchemaField{}, &SchemaError{Content: line, Reason: "missing '->'"}
	}

	ft, err := model.ParseFieldType(typ)
	if err != nil {
		return model.SchemaField{}, &SchemaError{Content: line, Reason: fmt.Sprintf("unknown type %q", typ)}
	}
	return model.SchemaField{Name: name, Type: ft}, nil
}

// ParseSchema разбирает схему целиком. Первая же плохая строка
// проваливает весь разбор, частичный результат не возвращается.
// Допускается один завершающий перевод строки.
func ParseSchema(text string) ([]model.SchemaField, error) {
	switch {
	case strings.HasSuffix(text, "\r\n"):
		text = text[:len(text)-2]
	case strings.HasSuffix(text, "\n"):
		text = text[:len(text)-1]
	}
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	fields := make([]model.SchemaField, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		f, err := ParseSchemaLine(line)
		if err != nil {
			var se *SchemaError
			if errors.As(err, &se) {
				se.Line = i + 1
			}
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// schemaFile корневая структура schema.toml
type schemaFile struct {
	Fields map[string]string `toml:"fields"`
}

// ParseSchemaTOML читает схему из TOML таблицы [fields], поля сортируются по имени
func ParseSchemaTOML(text string) ([]model.SchemaField, error) {
	var sf schemaFile
	md, err := toml.Decode(text, &sf)
	if err != nil {
		return nil, fmt.Errorf("декодирование toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, &SchemaError{Content: undecoded[0].String(), Reason: "unexpected key"}
	}

	names := make([]string, 0, len(sf.Fields))
	for name := range sf.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]model.SchemaField, 0, len(names))
	for _, name := range names {
		ft, err := model.ParseFieldType(sf.Fields[name])
		if err != nil {
			return nil, &SchemaError{
				Content: fmt.Sprintf("%s = %q", name, sf.Fields[name]),
				Reason:  fmt.Sprintf("unknown type %q", sf.Fields[name]),
			}
		}
		fields = append(fields, model.SchemaField{Name: name, Type: ft})
	}
	return fields, nil
}

// ParseSchemaFile читает схему из файла: .toml через TOML, остальное через DSL
func ParseSchemaFile(path string) ([]model.SchemaField, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение схемы %s: %w", path, err)
	}

	var fields []model.SchemaField
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		fields, err = ParseSchemaTOML(string(b))
	} else {
		fields, err = ParseSchema(string(b))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fields, nil
}
