// Package yamlenv описывает значение конфигурации, которое можно переопределить переменной окружения.
package yamlenv

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Env — значение из YAML с необязательным переопределением из окружения.
//
// Допустимые формы в YAML:
//
//	port: 8080
//	port:
//	  value: 8080
//	  env: API_PORT
type Env[T any] struct {
	Value T
	Name  string
}

type envNode[T any] struct {
	Value T      `yaml:"value"`
	Env   string `yaml:"env"`
}

// New returns an Env holding value with no environment override.
func New[T any](value T) *Env[T] {
	return &Env[T]{Value: value}
}

func (e *Env[T]) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if err := node.Decode(&e.Value); err != nil {
			return fmt.Errorf("yamlenv: decode scalar: %w", err)
		}
	case yaml.MappingNode:
		var n envNode[T]
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("yamlenv: decode mapping: %w", err)
		}
		e.Value = n.Value
		e.Name = n.Env
	default:
		return fmt.Errorf("yamlenv: unsupported node kind %d at line %d", node.Kind, node.Line)
	}

	return e.resolve()
}

func (e *Env[T]) resolve() error {
	if e.Name == "" {
		return nil
	}

	raw, ok := os.LookupEnv(e.Name)
	if !ok || raw == "" {
		return nil
	}

	v, err := parse[T](raw)
	if err != nil {
		return fmt.Errorf("yamlenv: env %s=%q: %w", e.Name, raw, err)
	}
	e.Value = v

	return nil
}

func parse[T any](raw string) (T, error) {
	var out T

	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return out, err
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return out, err
		}
		*p = v
	case *time.Duration:
		v, err := time.ParseDuration(raw)
		if err != nil {
			return out, err
		}
		*p = v
	default:
		if err := yaml.Unmarshal([]byte(raw), &out); err != nil {
			return out, err
		}
	}

	return out, nil
}

// Get returns the value or def when e is nil.
func Get[T any](e *Env[T], def T) T {
	if e == nil {
		return def
	}
	return e.Value
}
