package converter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch выполняет Convert сразу и затем при каждом изменении входов или схемы.
// Ошибки конвертации пишутся в лог и не останавливают наблюдение.
// Возвращает nil после отмены ctx.
func Watch(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()

	files, err := watchedFiles(opts)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: создание fsnotify: %w", err)
	}
	defer fsw.Close() //nolint:errcheck

	// Следим за директориями: редакторы часто заменяют файл через rename
	dirs := make(map[string]struct{})
	for f := range files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for _, d := range sortedKeys(dirs) {
		if err := fsw.Add(d); err != nil {
			return fmt.Errorf("watch: %s: %w", d, err)
		}
	}

	run := func() {
		if err := Convert(ctx, opts); err != nil {
			opts.Logger.Error("конвертация не удалась", "err", err)
			return
		}
		opts.Logger.Info("конвертация выполнена", "inputs", len(opts.Inputs))
	}
	run()

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(evt.Name)
			if err != nil {
				continue
			}
			if _, watched := files[abs]; !watched || evt.Op == fsnotify.Chmod {
				continue
			}
			opts.Logger.Debug("изменение", "file", evt.Name, "op", evt.Op.String())
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Reset(opts.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			run()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}

// watchedFiles возвращает абсолютные пути входов и схемы
func watchedFiles(opts Options) (map[string]struct{}, error) {
	files := make(map[string]struct{})
	add := func(p string) error {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch: %s: %w", p, err)
		}
		files[abs] = struct{}{}
		return nil
	}

	for _, in := range opts.Inputs {
		if in == Stdio {
			return nil, errors.New("watch: stdin нельзя отслеживать")
		}
		if err := add(in); err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, errors.New("watch: не указаны файлы конфига")
	}
	if opts.Schema != "" {
		if err := add(opts.Schema); err != nil {
			return nil, err
		}
	}
	return files, nil
}
