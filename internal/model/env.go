package model

// EnvEntry is one environment variable produced from an item field.
type EnvEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`

	// SourceItemTitle is the title of the item the entry came from, if any.
	SourceItemTitle string `json:"item,omitempty" yaml:"item,omitempty"`
}

// IsValidEnvKey reports whether key is a valid environment variable name:
// letters, digits and underscore, not starting with a digit.
func IsValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// EnvMap converts entries to a map. Later entries win.
func EnvMap(entries []EnvEntry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Value
	}
	return m
}
