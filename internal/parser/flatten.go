package parser

import (
	"strings"

	"github.com/vovanwin/sysctlconf/pkg/types"
)

// Flatten возвращает листья дерева как настройки с составными ключами.
// Обход идет по отсортированным сегментам, поэтому порядок детерминирован.
func Flatten(doc *types.Value) []Setting {
	var out []Setting
	flatten(doc, nil, &out)
	return out
}

func flatten(v *types.Value, prefix []string, out *[]Setting) {
	for _, k := range v.Keys() {
		child := v.Table[k]
		path := append(prefix[:len(prefix):len(prefix)], k)
		if child.IsTable() {
			flatten(child, path, out)
			continue
		}
		*out = append(*out, Setting{Key: strings.Join(path, types.Separator), Value: child.Str})
	}
}
