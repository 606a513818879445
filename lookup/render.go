package lookup

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render pretty-prints an arbitrary decoded JSON value as an indented
// text block: objects become "key: value" lines with nested structures
// indented under their key, arrays become "- value" / "- [index]"
// items. Object keys are sorted so the same payload always renders the
// same text.
func Render(v any) string {
	var b strings.Builder
	renderValue(&b, v, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func renderValue(b *strings.Builder, v any, indent int) {
	pad := strings.Repeat("  ", indent)

	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch child := val[k].(type) {
			case map[string]any, []any:
				fmt.Fprintf(b, "%s%s:\n", pad, k)
				renderValue(b, child, indent+1)
			default:
				fmt.Fprintf(b, "%s%s: %s\n", pad, k, scalar(child))
			}
		}
	case []any:
		for i, item := range val {
			switch child := item.(type) {
			case map[string]any, []any:
				fmt.Fprintf(b, "%s- [%d]\n", pad, i+1)
				renderValue(b, child, indent+1)
			default:
				fmt.Fprintf(b, "%s- %s\n", pad, scalar(child))
			}
		}
	default:
		fmt.Fprintf(b, "%s%s\n", pad, scalar(val))
	}
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// isEmpty reports whether a decoded payload carries no data: null,
// empty object/array/string, zero, or false. Such responses mean the
// service worked but found nothing.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case string:
		return val == ""
	case bool:
		return !val
	case json.Number:
		n, err := val.Float64()
		return err == nil && n == 0
	}
	return false
}
