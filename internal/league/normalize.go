package league

// statValue keeps numeric-looking stat values as float64 and leaves everything
// else (dashes, fractions like "2/4") as strings.
func statValue(value any) any {
	if parsed, ok := asFloat64(value); ok {
		return parsed
	}
	return value
}

// mergeRecord copies keys from src into dst unless already present or named
// in exclude.
func mergeRecord(dst, src map[string]any, exclude ...string) {
	if dst == nil || src == nil {
		return
	}
	for k, v := range src {
		if _, exists := dst[k]; exists {
			continue
		}
		if containsString(exclude, k) {
			continue
		}
		dst[k] = v
	}
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
