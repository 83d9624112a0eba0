package model

import "fmt"

// FieldType представляет тип поля схемы
type FieldType int

const (
	FieldBool FieldType = iota
	FieldString
)

func (t FieldType) String() string {
	switch t {
	case FieldBool:
		return "bool"
	case FieldString:
		return "string"
	default:
		return "unknown"
	}
}

// ParseFieldType разбирает литерал типа из схемы
func ParseFieldType(s string) (FieldType, error) {
	switch s {
	case "bool":
		return FieldBool, nil
	case "string":
		return FieldString, nil
	default:
		return 0, fmt.Errorf("неподдерживаемый тип %q (допустимы: bool, string)", s)
	}
}

// SchemaField описывает одно поле схемы верхнего уровня
type SchemaField struct {
	Name string    // Имя ключа в корне документа
	Type FieldType // Ожидаемый тип
}

func (f SchemaField) String() string {
	return f.Name + " -> " + f.Type.String()
}
