package driven

// ConfigStore holds settings under flat, dot-separated keys such as
// "llm.provider" or "rag.chunk_size".
type ConfigStore interface {
	// Lookup returns the raw value under key and whether it is set.
	Lookup(key string) (any, bool)

	// String returns the value under key, or "" when it is unset or not a string.
	String(key string) string

	// Int returns the value under key, or 0 when it is unset or not a number.
	Int(key string) int

	// Update stores every entry of values and persists them in one write.
	// Keys not present in values are left untouched.
	Update(values map[string]any) error

	// Path describes where the configuration is persisted.
	Path() string
}
