package websocket

import (
	"encoding/json"
	"strconv"
)

// Socket.IO hands event arguments over as []any with JSON-decoded payloads.
// Clients are not trusted to send well-typed fields, so every accessor
// coerces defensively and falls back to a zero value.

func payloadOf(datas []any) map[string]any {
	if len(datas) == 0 {
		return nil
	}
	m, _ := datas[0].(map[string]any)
	return m
}

func stringField(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	s, _ := data[key].(string)
	return s
}

func floatField(data map[string]any, key string) (float64, bool) {
	if data == nil {
		return 0, false
	}
	switch v := data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func boolField(data map[string]any, key string, fallback bool) bool {
	if data == nil {
		return fallback
	}
	if v, ok := data[key].(bool); ok {
		return v
	}
	return fallback
}
