package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Separator разделяет сегменты в составном ключе (log.file)
const Separator = "."

type Kind int

const (
	KindString Kind = iota
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Value — узел дерева конфига: либо строка (лист), либо таблица
type Value struct {
	Kind  Kind
	Str   string
	Table map[string]*Value
}

// NewString создает лист
func NewString(s string) *Value {
	return &Value{Kind: KindString, Str: s}
}

// NewTable создает пустую таблицу
func NewTable() *Value {
	return &Value{Kind: KindTable, Table: make(map[string]*Value)}
}

func (v *Value) IsTable() bool { return v != nil && v.Kind == KindTable }

func (v *Value) IsString() bool { return v != nil && v.Kind == KindString }

// Len возвращает число ключей таблицы (0 для листа)
func (v *Value) Len() int {
	if !v.IsTable() {
		return 0
	}
	return len(v.Table)
}

// Keys возвращает ключи таблицы в лексикографическом порядке
func (v *Value) Keys() []string {
	if !v.IsTable() {
		return nil
	}
	keys := make([]string, 0, len(v.Table))
	for k := range v.Table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Insert раскладывает составной ключ по сегментам и записывает значение.
// Поздняя запись всегда побеждает: лист на промежуточном сегменте
// заменяется новой таблицей, а последний сегмент перезаписывается целиком.
func (v *Value) Insert(key, val string) {
	if !v.IsTable() {
		*v = *NewTable()
	}
	insertRecursive(v.Table, strings.Split(key, Separator), val)
}

func insertRecursive(m map[string]*Value, parts []string, val string) {
	head := parts[0]
	if len(parts) == 1 {
		m[head] = NewString(val)
		return
	}

	next, ok := m[head]
	if !ok || !next.IsTable() {
		next = NewTable()
		m[head] = next
	}
	insertRecursive(next.Table, parts[1:], val)
}

// Get спускается по сегментам пути. Пустой путь возвращает сам узел.
func (v *Value) Get(path ...string) (*Value, bool) {
	cur := v
	for _, p := range path {
		if !cur.IsTable() {
			return nil, false
		}
		next, ok := cur.Table[p]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// Lookup — Get для составного ключа (a.b.c)
func (v *Value) Lookup(key string) (*Value, bool) {
	return v.Get(strings.Split(key, Separator)...)
}

// Clone делает глубокую копию
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	if v.Kind == KindString {
		return NewString(v.Str)
	}
	out := NewTable()
	for k, child := range v.Table {
		out.Table[k] = child.Clone()
	}
	return out
}

// Equal сравнивает два дерева структурно
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindString {
		return a.Str == b.Str
	}
	if len(a.Table) != len(b.Table) {
		return false
	}
	for k, av := range a.Table {
		bv, ok := b.Table[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

// ToAny переводит дерево в map[string]any / string для сериализаторов
func (v *Value) ToAny() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindString:
		return v.Str
	case KindTable:
		m := make(map[string]any, len(v.Table))
		for k, child := range v.Table {
			m[k] = child.ToAny()
		}
		return m
	default:
		return nil
	}
}

// FromAny строит дерево из результата декодирования JSON/YAML.
// Допустимы только строки и объекты со строковыми ключами.
func FromAny(in any) (*Value, error) {
	switch x := in.(type) {
	case string:
		return NewString(x), nil
	case map[string]any:
		out := NewTable()
		for k, child := range x {
			cv, err := FromAny(child)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out.Table[k] = cv
		}
		return out, nil
	case map[string]string:
		out := NewTable()
		for k, s := range x {
			out.Table[k] = NewString(s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("неподдерживаемый тип значения %T", in)
	}
}

func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.Kind == KindString {
		return v.Str
	}
	b, err := json.Marshal(v.ToAny())
	if err != nil {
		return fmt.Sprintf("<table %d>", len(v.Table))
	}
	return string(b)
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.MarshalWithOption(v.ToAny(), json.DisableHTMLEscape())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

func (v Value) MarshalYAML() (any, error) {
	return v.ToAny(), nil
}
