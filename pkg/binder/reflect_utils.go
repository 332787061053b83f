package binder

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// formField is one settable struct field and the form key it reads.
type formField struct {
	index int
	key   string
	name  string
}

// plans caches the fields of each bound struct type per tag name.
var plans sync.Map // planKey -> []formField

type planKey struct {
	typ reflect.Type
	tag string
}

func fieldsOf(t reflect.Type, tag string) []formField {
	k := planKey{typ: t, tag: tag}
	if cached, ok := plans.Load(k); ok {
		return cached.([]formField)
	}

	var fields []formField
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := sf.Tag.Get(tag)
		switch key {
		case "-":
			continue
		case "":
			key = strings.ToLower(sf.Name)
		default:
			key, _, _ = strings.Cut(key, ",")
			if key == "" {
				continue
			}
		}
		fields = append(fields, formField{index: i, key: key, name: sf.Name})
	}

	actual, _ := plans.LoadOrStore(k, fields)
	return actual.([]formField)
}

// bindToStruct copies values into the struct pointed to by v. Fields with
// no submitted value keep what they had.
func bindToStruct(v any, tag string, values map[string][]string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a non-nil pointer to struct, got %T", bindErr, v)
	}
	rv = rv.Elem()

	for _, f := range fieldsOf(rv.Type(), tag) {
		submitted := values[f.key]
		if len(submitted) == 0 {
			continue
		}
		if err := decodeInto(rv.Field(f.index), submitted); err != nil {
			return fmt.Errorf("%w: field %s: %w", bindErr, f.name, err)
		}
	}
	return nil
}

var errUnsupportedKind = errors.New("unsupported field kind")

// decodeInto sets dst from the submitted values. Slices take every value,
// everything else the first one.
func decodeInto(dst reflect.Value, submitted []string) error {
	switch dst.Kind() {
	case reflect.Pointer:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return decodeInto(dst.Elem(), submitted)

	case reflect.Slice:
		out := reflect.MakeSlice(dst.Type(), len(submitted), len(submitted))
		for i, s := range submitted {
			if err := decodeInto(out.Index(i), []string{s}); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	}

	s := submitted[0]
	switch dst.Kind() {
	case reflect.String:
		dst.SetString(s)
	case reflect.Bool:
		b, err := parseCheckbox(s)
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not an integer", s)
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not a non-negative integer", s)
		}
		dst.SetUint(n)
	default:
		return fmt.Errorf("%w: %s", errUnsupportedKind, dst.Kind())
	}
	return nil
}

// parseCheckbox accepts what browsers and hand-written forms send for a
// checkbox. An unchecked box is usually absent rather than empty.
func parseCheckbox(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "1", "true":
		return true, nil
	case "", "off", "no", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a checkbox value", s)
}
