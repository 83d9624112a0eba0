package parser

import (
	"strings"
	"unicode"
)

// LineKind — класс физической строки конфига
type LineKind int

const (
	LineEmpty LineKind = iota
	LineComment
	LineSetting
)

func (k LineKind) String() string {
	switch k {
	case LineEmpty:
		return "empty"
	case LineComment:
		return "comment"
	case LineSetting:
		return "setting"
	default:
		return "unknown"
	}
}

// Line — результат классификации одной строки
type Line struct {
	Kind    LineKind
	Comment string // Текст комментария без '#'
	Key     string // Для LineSetting: ключ до первого '='
	Value   string // Для LineSetting: значение после первого '='
}

// ClassifyLine определяет тип строки. Строка без '#' и без '=' считается
// пустой и молча пропускается, ошибок здесь не бывает.
func ClassifyLine(raw string) Line {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if trimmed == "" {
		return Line{Kind: LineEmpty}
	}

	if rest, ok := strings.CutPrefix(trimmed, "#"); ok {
		return Line{Kind: LineComment, Comment: strings.TrimSpace(rest)}
	}

	if key, value, ok := strings.Cut(trimmed, "="); ok {
		return Line{
			Kind:  LineSetting,
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		}
	}

	return Line{Kind: LineEmpty}
}
