package models

// RawProduct is one record of the search response as delivered by wb.ru.
// The payload shape is not under our control, so every field is read
// defensively with a typed default instead of assuming presence.
type RawProduct map[string]interface{}

// Int64 reads an integer-valued field. JSON numbers arrive as float64;
// integers encoded as floats are accepted as long as they are whole.
func (p RawProduct) Int64(key string) (int64, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

func (p RawProduct) Int64Or(key string, defaultValue int64) int64 {
	if n, ok := p.Int64(key); ok {
		return n
	}
	return defaultValue
}

func (p RawProduct) Float64Or(key string, defaultValue float64) float64 {
	v, ok := p[key]
	if !ok || v == nil {
		return defaultValue
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return defaultValue
}

func (p RawProduct) StringOr(key string, defaultValue string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return defaultValue
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultValue
}

// ID extracts the product identifier. A missing or null id makes the
// record unusable as a store key, so the caller must reject it.
func (p RawProduct) ID() (int64, bool) {
	return p.Int64("id")
}
