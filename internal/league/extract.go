package league

import (
	"strconv"
	"strings"
)

// The provider nests entities behind variable paths, so lookups descend the
// decoded document instead of assuming fixed shapes. Depth is capped to keep
// a malformed payload from recursing forever.
const maxWalkDepth = 32

// firstNode returns the value of the first occurrence of key anywhere in the
// document tree.
func firstNode(node any, key string) (any, bool) {
	return firstNodeDepth(node, key, 0)
}

func firstNodeDepth(node any, key string, depth int) (any, bool) {
	if depth > maxWalkDepth {
		return nil, false
	}
	switch typed := node.(type) {
	case map[string]any:
		if value, ok := typed[key]; ok {
			return value, true
		}
		for _, child := range typed {
			if value, ok := firstNodeDepth(child, key, depth+1); ok {
				return value, true
			}
		}
	case []any:
		for _, child := range typed {
			if value, ok := firstNodeDepth(child, key, depth+1); ok {
				return value, true
			}
		}
	}
	return nil, false
}

// collectNodes gathers every value stored under key, preserving list order.
func collectNodes(node any, key string) []any {
	var out []any
	collectNodesDepth(node, key, 0, &out)
	return out
}

func collectNodesDepth(node any, key string, depth int, out *[]any) {
	if depth > maxWalkDepth {
		return
	}
	switch typed := node.(type) {
	case map[string]any:
		if value, ok := typed[key]; ok {
			*out = append(*out, value)
		}
		for k, child := range typed {
			if k == key {
				continue
			}
			collectNodesDepth(child, key, depth+1, out)
		}
	case []any:
		for _, child := range typed {
			collectNodesDepth(child, key, depth+1, out)
		}
	}
}

// indexedItems walks an indexed container ({"0": ..., "1": ..., "count": N})
// in ascending index order. Iterating by numeric key keeps extraction
// deterministic regardless of map ordering.
func indexedItems(container map[string]any) []any {
	if container == nil {
		return nil
	}
	var out []any
	for i := 0; ; i++ {
		item, ok := container[strconv.Itoa(i)]
		if !ok {
			break
		}
		out = append(out, item)
	}
	return out
}

// foldFragments flattens the provider's fragment lists (lists whose elements
// are small maps, or nested lists of such maps) into a single record.
// Earlier fragments win on key collisions.
func foldFragments(fragments any) map[string]any {
	out := make(map[string]any)
	foldInto(out, fragments, 0)
	return out
}

func foldInto(dst map[string]any, node any, depth int) {
	if depth > maxWalkDepth {
		return
	}
	switch typed := node.(type) {
	case map[string]any:
		for k, v := range typed {
			if _, exists := dst[k]; !exists {
				dst[k] = v
			}
		}
	case []any:
		for _, child := range typed {
			foldInto(dst, child, depth+1)
		}
	}
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch typed := m[key].(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case bool:
		return strconv.FormatBool(typed)
	}
	return ""
}

func getInt(m map[string]any, key string) int {
	value, _ := asInt(m[key])
	return value
}

func asInt(value any) (int, bool) {
	switch typed := value.(type) {
	case float64:
		return int(typed), true
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func asFloat64(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
