package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vovanwin/sysctlconf/internal/parser"
	"github.com/vovanwin/sysctlconf/pkg/types"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Format — формат вывода документа
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatSysctl Format = "sysctl"
	FormatGo     Format = "go"
)

// Formats перечисляет поддерживаемые форматы
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatSysctl, FormatGo}

var (
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrAmbiguousKey — сегмент ключа содержит разделитель, и плоский ключ
	// нельзя однозначно разобрать обратно
	ErrAmbiguousKey = errors.New("key segment contains separator")
)

// ParseFormat проверяет имя формата
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options настройки рендера
type Options struct {
	Format  Format
	Package string // Имя пакета для FormatGo
}

// Render сериализует документ в выбранный формат
func Render(doc *types.Value, opts Options) ([]byte, error) {
	if doc == nil {
		doc = types.NewTable()
	}

	switch opts.Format {
	case FormatJSON, "":
		return renderJSON(doc)
	case FormatYAML:
		return renderYAML(doc)
	case FormatTOML:
		return renderTOML(doc)
	case FormatSysctl:
		return renderSysctl(doc)
	case FormatGo:
		pkg := opts.Package
		if pkg == "" {
			pkg = "config"
		}
		return renderGo(doc, pkg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

func renderJSON(doc *types.Value) ([]byte, error) {
	b, err := json.MarshalIndentWithOption(doc.ToAny(), "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return nil, fmt.Errorf("сериализация json: %w", err)
	}
	return append(b, '\n'), nil
}

func renderYAML(doc *types.Value) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("сериализация yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("сериализация yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func renderTOML(doc *types.Value) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := toml.NewEncoder(buf).Encode(doc.ToAny()); err != nil {
		return nil, fmt.Errorf("сериализация toml: %w", err)
	}
	return buf.Bytes(), nil
}

// flatSettings разворачивает дерево в плоские ключи для sysctl и go форматов
func flatSettings(doc *types.Value) ([]parser.Setting, error) {
	if err := checkSegments(doc, ""); err != nil {
		return nil, err
	}
	return parser.Flatten(doc), nil
}

func checkSegments(v *types.Value, prefix string) error {
	for _, k := range v.Keys() {
		path := k
		if prefix != "" {
			path = prefix + " -> " + k
		}
		if strings.Contains(k, types.Separator) {
			return fmt.Errorf("%w: %q", ErrAmbiguousKey, path)
		}
		if child := v.Table[k]; child.IsTable() {
			if err := checkSegments(child, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderSysctl возвращает документ в исходный плоский формат
func renderSysctl(doc *types.Value) ([]byte, error) {
	settings, err := flatSettings(doc)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	for _, s := range settings {
		buf.WriteString(s.Key)
		buf.WriteString(" = ")
		buf.WriteString(s.Value)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

type keyData struct {
	Const string
	Key   string
	Value string
}

// renderGo генерирует Go файл с константой на каждый ключ
func renderGo(doc *types.Value, pkg string) ([]byte, error) {
	settings, err := flatSettings(doc)
	if err != nil {
		return nil, err
	}

	keys := make([]keyData, 0, len(settings))
	taken := make(map[string]bool)
	for _, s := range settings {
		base := toConstName(s.Key)
		name := base
		for n := 2; taken[name]; n++ {
			name = base + strconv.Itoa(n)
		}
		taken[name] = true
		keys = append(keys, keyData{Const: name, Key: s.Key, Value: s.Value})
	}

	data := map[string]any{
		"Package": pkg,
		"Keys":    keys,
	}
	return generateFromTemplate("keys", "templates/keys.go.tmpl", data)
}

func generateFromTemplate(tmplName, tmplFile string, data map[string]any) ([]byte, error) {
	tmplB, err := templatesFS.ReadFile(tmplFile)
	if err != nil {
		return nil, fmt.Errorf("чтение шаблона %s: %w", tmplName, err)
	}

	tmpl, err := template.New(tmplName).Parse(string(tmplB))
	if err != nil {
		return nil, fmt.Errorf("парсинг шаблона %s: %w", tmplName, err)
	}

	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("выполнение шаблона %s: %w", tmplName, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("форматирование %s: %w", tmplName, err)
	}
	return formatted, nil
}

// toConstName конвертирует составной ключ в экспортируемое Go имя
func toConstName(key string) string {
	parts := strings.Split(key, types.Separator)
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(toGoName(p))
	}

	name := sb.String()
	first, _ := firstRune(name)
	if !unicode.IsUpper(first) {
		name = "Key" + name
	}
	return name
}

// toGoName конвертирует snake_case в CamelCase, отбрасывая символы,
// недопустимые в идентификаторе
func toGoName(s string) string {
	out := make([]rune, 0, len(s))
	capNext := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			capNext = true
			continue
		}
		if capNext {
			r = unicode.ToUpper(r)
			capNext = false
		}
		out = append(out, r)
	}
	return string(out)
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
