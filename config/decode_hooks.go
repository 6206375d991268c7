package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

func logLevelDecodeHookFunc(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(zerolog.Level(0)) {
		return data, nil
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(data.(string)))) // nolint: forcetypeassert
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return level, nil
}

func logFormatDecodeHookFunc(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(LogFormat(0)) {
		return data, nil
	}

	switch format := strings.ToLower(strings.TrimSpace(data.(string))); format { // nolint: forcetypeassert
	case "", "text":
		return LogTextFormat, nil
	case "json":
		return LogJSONFormat, nil
	default:
		return nil, fmt.Errorf("%w: unsupported log format %q", ErrConfiguration, format)
	}
}
