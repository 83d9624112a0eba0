package converter

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovanwin/sysctlconf/internal/parser"
)

// readInputs читает настройки каждого входа по порядку и склеивает их,
// чтобы несколько файлов собирались так же, как один длинный файл.
// stdin читается не больше одного раза.
func readInputs(ctx context.Context, opts Options) ([]parser.Setting, error) {
	inputs := opts.Inputs
	if len(inputs) == 0 {
		inputs = []string{Stdio}
	}

	var all []parser.Setting
	stdinUsed := false
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if in == Stdio {
			if stdinUsed {
				return nil, errors.New("stdin указан несколько раз")
			}
			stdinUsed = true

			settings, err := parser.ReadSettings(opts.Stdin)
			if err != nil {
				return nil, fmt.Errorf("stdin: %w", err)
			}
			all = append(all, settings...)
			opts.Logger.Debug("прочитан stdin", "settings", len(settings))
			continue
		}

		settings, err := parser.ReadSettingsFile(in)
		if err != nil {
			return nil, err
		}
		all = append(all, settings...)
		opts.Logger.Debug("прочитан файл", "path", in, "settings", len(settings))
	}
	return all, nil
}
