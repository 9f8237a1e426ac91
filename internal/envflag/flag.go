// Copyright 2026 The update-test-checks Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package envflag reads debugging knobs from a comma-separated
// environment variable into the fields of a struct.
package envflag

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// ErrInvalid indicates a value that cannot be parsed for its field.
var ErrInvalid = errors.New("invalid value")

// Init calls Parse with the value of the environment variable envVar.
func Init[T any](flags *T, envVar string) error {
	if err := Parse(flags, os.Getenv(envVar)); err != nil {
		return fmt.Errorf("cannot parse %s: %w", envVar, err)
	}
	return nil
}

// Parse sets the fields of flags from env, a comma-separated list of
// name[=value] elements. Names are the lower-cased field names. A bare
// name sets a bool field to true; other kinds need a value. Fields not
// named in env keep the value of their `envflag:"default:X"` tag, or
// the zero value.
//
// Parse reports all bad elements, not just the first one.
func Parse[T any](flags *T, env string) error {
	v := reflect.ValueOf(flags).Elem()
	fields, err := fieldsOf(v)
	if err != nil {
		return err
	}

	var errs []error
	for _, elem := range strings.Split(env, ",") {
		if elem == "" {
			continue
		}
		name, s, hasValue := strings.Cut(elem, "=")
		f, ok := fields[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown flag %q", elem))
			continue
		}
		switch {
		case hasValue:
		case f.Kind() == reflect.Bool:
			s = "true"
		default:
			errs = append(errs, fmt.Errorf("value needed for %s flag %q", f.Kind(), name))
			continue
		}
		if err := set(f, name, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// fieldsOf returns the fields of the struct v by flag name, with their
// default values set.
func fieldsOf(v reflect.Value) (map[string]reflect.Value, error) {
	t := v.Type()
	fields := make(map[string]reflect.Value, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		name := strings.ToLower(sf.Name)
		f := v.Field(i)
		f.SetZero()
		if tag, ok := sf.Tag.Lookup("envflag"); ok {
			def, ok := strings.CutPrefix(tag, "default:")
			if !ok {
				return nil, fmt.Errorf("unknown envflag tag %q", tag)
			}
			if err := set(f, name, def); err != nil {
				return nil, err
			}
		}
		fields[name] = f
	}
	return fields, nil
}

func set(f reflect.Value, name, s string) error {
	switch f.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return invalid(f, name, err)
		}
		f.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return invalid(f, name, err)
		}
		f.SetInt(int64(n))
	case reflect.String:
		f.SetString(s)
	default:
		return fmt.Errorf("%w: unsupported kind %s", ErrInvalid, f.Kind())
	}
	return nil
}

func invalid(f reflect.Value, name string, err error) error {
	return fmt.Errorf("%w: %s value for %s: %v", ErrInvalid, f.Kind(), name, err)
}
