package toml

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
)

// Unmarshal parses TOML data and stores the result in the value pointed to by v.
func Unmarshal(data []byte, v any) error {
	_, err := unmarshal(data, v, false)
	return err
}

// UnmarshalStrict behaves like Unmarshal and additionally returns the dotted
// paths of keys present in data that no struct field consumed, sorted.
// Unknown keys are not an error; callers decide whether to warn or reject.
func UnmarshalStrict(data []byte, v any) ([]string, error) {
	return unmarshal(data, v, true)
}

// DecodeFile reads path and decodes it strictly into v
func DecodeFile(path string, v any) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	undecoded, err := UnmarshalStrict(data, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return undecoded, nil
}

func unmarshal(data []byte, v any, strict bool) ([]string, error) {
	p := NewParser(data)
	parsed, err := p.Parse()
	if err != nil {
		return nil, err
	}

	d := &decoder{strict: strict}
	if err := d.decode(parsed, v); err != nil {
		return nil, err
	}
	sort.Strings(d.undecoded)
	return d.undecoded, nil
}

// Decode maps a generic map[string]any to a struct/slice/etc using reflection.
// It prioritizes `toml` tags and falls back to field names.
func Decode(data any, v any) error {
	d := &decoder{}
	return d.decode(data, v)
}

type decoder struct {
	strict    bool
	undecoded []string
}

func (d *decoder) decode(data any, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	return d.decodeValue(data, val.Elem(), "")
}

func (d *decoder) decodeValue(data any, val reflect.Value, path string) error {
	if data == nil {
		return nil
	}

	switch val.Kind() {
	case reflect.Ptr:
		newVal := reflect.New(val.Type().Elem())
		if err := d.decodeValue(data, newVal.Elem(), path); err != nil {
			return err
		}
		val.Set(newVal)

	case reflect.Struct:
		dataMap, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected table for struct, got %T", data)
		}
		return d.decodeStruct(dataMap, val, path)

	case reflect.Slice:
		dataSlice, ok := data.([]any)
		if !ok {
			return fmt.Errorf("expected array, got %T", data)
		}

		newSlice := reflect.MakeSlice(val.Type(), len(dataSlice), len(dataSlice))
		for i := range dataSlice {
			if err := d.decodeValue(dataSlice[i], newSlice.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		val.Set(newSlice)

	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("only map[string]T is supported")
		}
		dataMap, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected table, got %T", data)
		}

		newMap := reflect.MakeMap(val.Type())
		elemType := val.Type().Elem()
		for k, vData := range dataMap {
			newVal := reflect.New(elemType).Elem()
			if err := d.decodeValue(vData, newVal, join(path, k)); err != nil {
				return wrapField(join(path, k), err)
			}
			newMap.SetMapIndex(reflect.ValueOf(k), newVal)
		}
		val.Set(newMap)

	case reflect.Interface:
		val.Set(reflect.ValueOf(data))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := toFloat(data)
		if !ok {
			return fmt.Errorf("cannot convert %T to int", data)
		}
		if val.OverflowInt(int64(f)) {
			return fmt.Errorf("value %v overflows %s", data, val.Type())
		}
		val.SetInt(int64(f))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f, ok := toFloat(data)
		if !ok {
			return fmt.Errorf("cannot convert %T to uint", data)
		}
		if f < 0 || val.OverflowUint(uint64(f)) {
			return fmt.Errorf("value %v out of range for %s", data, val.Type())
		}
		val.SetUint(uint64(f))

	case reflect.Float32, reflect.Float64:
		f, ok := toFloat(data)
		if !ok {
			return fmt.Errorf("cannot convert %T to float", data)
		}
		val.SetFloat(f)

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return fmt.Errorf("cannot convert %T to string", data)
		}
		val.SetString(s)

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return fmt.Errorf("cannot convert %T to bool", data)
		}
		val.SetBool(b)
	}

	return nil
}

func (d *decoder) decodeStruct(data map[string]any, val reflect.Value, path string) error {
	typ := val.Type()
	consumed := make(map[string]bool, len(data))

	for i := 0; i < val.NumField(); i++ {
		fieldType := typ.Field(i)
		if !fieldType.IsExported() {
			continue
		}

		key := fieldType.Name
		if tag := fieldType.Tag.Get("toml"); tag != "" {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			key = name
		}

		vData, ok := data[key]
		if !ok {
			continue
		}
		consumed[key] = true
		if err := d.decodeValue(vData, val.Field(i), join(path, key)); err != nil {
			return wrapField(join(path, key), err)
		}
	}

	if d.strict {
		for key := range data {
			if !consumed[key] {
				d.undecoded = append(d.undecoded, join(path, key))
			}
		}
	}
	return nil
}

// FieldError reports the dotted path of the value that failed to decode
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// wrapField attaches path once, at the innermost failing field
func wrapField(path string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return err
	}
	return &FieldError{Path: path, Err: err}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func toFloat(v any) (float64, bool) {
	switch i := v.(type) {
	case int:
		return float64(i), true
	case int64:
		return float64(i), true
	case float64:
		return i, true
	}
	return 0, false
}
