package config

import (
	"reflect"
	"strings"
)

// dropReplacedMaps walks the struct behind v alongside the decoded document
// and resets every map field the document sets. Both codecs merge decoded
// keys into an existing map, so without this a default entry could never be
// removed from the file.
func dropReplacedMaps(v reflect.Value, doc map[string]any, tag string) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct || len(doc) == 0 {
		return
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, inline, skip := fieldKey(field, tag)
		if skip {
			continue
		}
		fv := v.Field(i)
		if inline || (field.Anonymous && name == "") {
			dropReplacedMaps(fv, doc, tag)
			continue
		}
		if name == "" {
			name = field.Name
		}
		val, ok := lookupKey(doc, name)
		if !ok {
			continue
		}
		switch indirectKind(fv) {
		case reflect.Map:
			fv.Set(reflect.Zero(fv.Type()))
		case reflect.Struct:
			if sub, ok := val.(map[string]any); ok {
				dropReplacedMaps(fv, sub, tag)
			}
		}
	}
}

// fieldKey reads the document key for field from its struct tag.
func fieldKey(field reflect.StructField, tag string) (name string, inline, skip bool) {
	raw, ok := field.Tag.Lookup(tag)
	if !ok {
		return "", false, false
	}
	if raw == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(raw, ",")
	for _, o := range strings.Split(opts, ",") {
		if o == "inline" {
			inline = true
		}
	}
	return name, inline, false
}

// lookupKey finds key in doc, preferring an exact match and falling back to a
// case-insensitive one the way the decoders do.
func lookupKey(doc map[string]any, key string) (any, bool) {
	if v, ok := doc[key]; ok {
		return v, true
	}
	for k, v := range doc {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func indirectKind(v reflect.Value) reflect.Kind {
	t := v.Type()
	if t.Kind() == reflect.Pointer {
		return t.Elem().Kind()
	}
	return t.Kind()
}
