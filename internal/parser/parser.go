package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/vovanwin/sysctlconf/pkg/types"
)

// MaxLineSize — предел длины одной физической строки
const MaxLineSize = 1 << 20

// ErrParse возвращается, если вход не удалось разбить на строки
var ErrParse = errors.New("parse error")

// Setting — пара ключ/значение в порядке появления во входе
type Setting struct {
	Line  int
	Key   string
	Value string
}

// Parse разбирает текст конфига в дерево
func Parse(text string) (*types.Value, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseBytes — Parse для []byte
func ParseBytes(b []byte) (*types.Value, error) {
	return ParseReader(bytes.NewReader(b))
}

// ParseReader читает конфиг построчно и складывает настройки в дерево.
// При ошибке частичный документ не возвращается.
func ParseReader(r io.Reader) (*types.Value, error) {
	settings, err := ReadSettings(r)
	if err != nil {
		return nil, err
	}
	return Assemble(settings), nil
}

// ParseFile читает файл и возвращает дерево конфига
func ParseFile(path string) (*types.Value, error) {
	settings, err := ReadSettingsFile(path)
	if err != nil {
		return nil, err
	}
	return Assemble(settings), nil
}

// ReadSettingsFile читает настройки файла в порядке появления.
// Настройки нескольких файлов можно склеить и собрать одним Assemble.
func ReadSettingsFile(path string) ([]Setting, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение файла %s: %w", path, err)
	}

	settings, err := ReadSettings(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// ReadSettings классифицирует каждую строку и оставляет только настройки.
// Разделитель строк — \n или \r\n, завершающий перевод строки не дает
// лишней записи.
func ReadSettings(r io.Reader) ([]Setting, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	var settings []Setting
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: строка %d: некорректный UTF-8", ErrParse, lineNo)
		}

		line := ClassifyLine(string(raw))
		if line.Kind != LineSetting {
			continue
		}
		settings = append(settings, Setting{Line: lineNo, Key: line.Key, Value: line.Value})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: строка %d: %v", ErrParse, lineNo+1, err)
	}
	return settings, nil
}

// Assemble складывает настройки в новое дерево в порядке входа
func Assemble(settings []Setting) *types.Value {
	root := types.NewTable()
	for _, s := range settings {
		root.Insert(s.Key, s.Value)
	}
	return root
}
