package conv

import (
	"reflect"
	"testing"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{3.14, 3.14, true},
		{float32(2), 2, true},
		{int(5), 5, true},
		{int64(6), 6, true},
		{int32(7), 7, true},
		{true, 1, true},
		{false, 0, true},
		{"1.5", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToFloat64(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		in   any
		want int64
		ok   bool
	}{
		{int(5), 5, true},
		{int64(6), 6, true},
		{int32(7), 7, true},
		{3.9, 3, true},
		{float32(2), 2, true},
		{"42", 42, true},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToInt64(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToInt64(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSliceAnyToInt64(t *testing.T) {
	got := SliceAnyToInt64([]any{1, "2", 3.0, "x", nil})
	want := []int64{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SliceAnyToInt64 = %v, want %v", got, want)
	}

	if got := SliceAnyToInt64(nil); got != nil {
		t.Errorf("SliceAnyToInt64(nil) = %v", got)
	}
	if got := SliceAnyToInt64("not a slice"); got != nil {
		t.Errorf("SliceAnyToInt64(string) = %v", got)
	}
}

func TestConfigGet(t *testing.T) {
	cfg := map[string]any{"name": "hybrid", "dedup": true}

	if got := ConfigGet(cfg, "name", ""); got != "hybrid" {
		t.Errorf("name = %q", got)
	}
	if got := ConfigGet(cfg, "missing", "fallback"); got != "fallback" {
		t.Errorf("missing = %q", got)
	}
	if got := ConfigGet(cfg, "name", 7); got != 7 {
		t.Errorf("type mismatch = %v, want default", got)
	}
	if got := ConfigGet[string](nil, "name", "d"); got != "d" {
		t.Errorf("nil map = %q", got)
	}
}

func TestConfigGetInt(t *testing.T) {
	cfg := map[string]any{"a": 1, "b": int64(2), "c": 3.0, "d": "x"}

	tests := []struct {
		key  string
		want int
	}{
		{"a", 1},
		{"b", 2},
		{"c", 3}, // JSON 解析出的数值是 float64
		{"d", 9}, // 无法转换时取默认值
		{"missing", 9},
	}
	for _, tt := range tests {
		if got := ConfigGetInt(cfg, tt.key, 9); got != tt.want {
			t.Errorf("ConfigGetInt(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}
