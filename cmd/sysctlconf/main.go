package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vovanwin/sysctlconf/converter"
	"github.com/vovanwin/sysctlconf/internal/render"
	"github.com/vovanwin/sysctlconf/internal/schema"
)

const (
	exitError      = 1
	exitValidation = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Ошибка: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, schema.ErrMissingField) || errors.Is(err, schema.ErrWrongType) {
		return exitValidation
	}
	return exitError
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SYSCTLCONF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "sysctlconf [file...]",
		Short: "Конвертер sysctl-конфигов в JSON/YAML/TOML",
		Long: `sysctlconf превращает плоский конфиг вида key.sub.key = value
во вложенный документ и опционально проверяет его схемой.

Без файлов читает stdin. Несколько файлов сливаются по порядку,
поздние значения побеждают.

Все флаги можно задать переменными окружения SYSCTLCONF_<FLAG>.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return converter.Convert(cmd.Context(), optionsFrom(v, cmd, args))
		},
	}

	formats := make([]string, 0, len(render.Formats))
	for _, f := range render.Formats {
		formats = append(formats, string(f))
	}

	pf := root.PersistentFlags()
	pf.String("schema", "", "файл схемы (DSL или .toml)")
	pf.StringP("format", "f", string(render.FormatJSON), "формат вывода: "+strings.Join(formats, ", "))
	pf.StringP("output", "o", converter.Stdio, "файл вывода, - для stdout")
	pf.String("package", "config", "имя пакета для формата go")
	pf.Duration("debounce", converter.DefaultOptions().Debounce, "задержка перед повторной конвертацией в режиме watch")
	pf.BoolP("verbose", "v", false, "подробный лог")
	if err := v.BindPFlags(pf); err != nil {
		panic(err)
	}

	root.AddCommand(newValidateCmd(v), newWatchCmd(v), newInitCmd(v))
	return root
}

func newValidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Проверить конфиг схемой без вывода документа",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFrom(v, cmd, args)
			if opts.Schema == "" {
				return errors.New("для validate нужен --schema")
			}
			if err := converter.Check(cmd.Context(), opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ конфиг соответствует схеме")
			return nil
		},
	}
}

func newWatchCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "watch file...",
		Short: "Конвертировать заново при каждом изменении файлов",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFrom(v, cmd, args)
			if !v.GetBool("verbose") {
				opts.Logger.SetLevel(log.InfoLevel)
			}
			return converter.Watch(cmd.Context(), opts)
		},
	}
}

func newInitCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Создать примеры конфига и схемы",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			logger := newLogger(v, cmd.ErrOrStderr())
			logger.SetLevel(log.InfoLevel)
			_, err := converter.Init(dir, logger)
			return err
		},
	}
}

func optionsFrom(v *viper.Viper, cmd *cobra.Command, args []string) converter.Options {
	return converter.Options{
		Inputs:   args,
		Schema:   v.GetString("schema"),
		Output:   v.GetString("output"),
		Format:   v.GetString("format"),
		Package:  v.GetString("package"),
		Debounce: v.GetDuration("debounce"),
		Stdin:    cmd.InOrStdin(),
		Stdout:   cmd.OutOrStdout(),
		Logger:   newLogger(v, cmd.ErrOrStderr()),
	}
}

func newLogger(v *viper.Viper, w io.Writer) *log.Logger {
	level := log.WarnLevel
	if v.GetBool("verbose") {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "sysctlconf",
		Level:  level,
	})
}
