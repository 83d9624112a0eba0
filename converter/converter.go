package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovanwin/sysctlconf/internal/parser"
	"github.com/vovanwin/sysctlconf/internal/render"
	"github.com/vovanwin/sysctlconf/internal/schema"
	"github.com/vovanwin/sysctlconf/pkg/types"
)

// Stdio — имя входа/выхода, означающее stdin/stdout
const Stdio = "-"

// Options настройки конвертации
type Options struct {
	Inputs   []string      // Файлы конфига, пусто или "-" — stdin
	Schema   string        // Файл схемы (опционально)
	Output   string        // Файл вывода, пусто или "-" — stdout
	Format   string        // json, yaml, toml, sysctl, go
	Package  string        // Имя пакета для формата go
	Debounce time.Duration // Задержка перезапуска в режиме watch

	Stdin  io.Reader
	Stdout io.Writer
	Logger *log.Logger
}

// DefaultOptions настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		Output:   Stdio,
		Format:   string(render.FormatJSON),
		Package:  "config",
		Debounce: 200 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Output == "" {
		o.Output = def.Output
	}
	if o.Format == "" {
		o.Format = def.Format
	}
	if o.Package == "" {
		o.Package = def.Package
	}
	if o.Debounce <= 0 {
		o.Debounce = def.Debounce
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "sysctlconf",
			Level:  log.WarnLevel,
		})
	}
	return o
}

// Convert читает входы, проверяет схему и пишет результат
func Convert(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()

	format, err := render.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	doc, err := load(ctx, opts)
	if err != nil {
		return err
	}

	out, err := render.Render(doc, render.Options{Format: format, Package: opts.Package})
	if err != nil {
		return fmt.Errorf("рендер: %w", err)
	}

	return writeOutput(opts, out)
}

// Check выполняет разбор и валидацию без вывода документа
func Check(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	_, err := load(ctx, opts)
	return err
}

// Load возвращает итоговый документ: настройки всех входов по порядку, проверенные схемой
func Load(ctx context.Context, opts Options) (*types.Value, error) {
	return load(ctx, opts.withDefaults())
}

func load(ctx context.Context, opts Options) (*types.Value, error) {
	settings, err := readInputs(ctx, opts)
	if err != nil {
		return nil, err
	}

	doc := parser.Assemble(settings)
	opts.Logger.Debug("документ собран", "settings", len(settings), "keys", doc.Len())

	if opts.Schema == "" {
		return doc, nil
	}

	fields, err := parser.ParseSchemaFile(opts.Schema)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(fields, doc); err != nil {
		return nil, fmt.Errorf("валидация: %w", err)
	}
	opts.Logger.Debug("схема пройдена", "schema", opts.Schema, "fields", len(fields))

	return doc, nil
}

func writeOutput(opts Options, out []byte) error {
	if opts.Output == Stdio {
		if _, err := opts.Stdout.Write(out); err != nil {
			return fmt.Errorf("запись: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("создание директории: %w", err)
		}
	}
	if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
		return fmt.Errorf("запись %s: %w", opts.Output, err)
	}
	opts.Logger.Info("записано", "output", opts.Output, "bytes", len(out))
	return nil
}
