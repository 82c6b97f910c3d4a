package envutil

import (
	"fmt"
	"os"
)

func GetEnv(key string) string {
	return os.Getenv(key)
}

func GetEnvOrNil(key string) *string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return &value
	}
	return nil
}

func GetEnvOrDefault(key, defaultValue string) string {
	if value := GetEnvOrNil(key); value != nil {
		return *value
	}
	return defaultValue
}

func RequireEnv(key string) string {
	if value := GetEnvOrNil(key); value != nil {
		return *value
	}
	panic(fmt.Sprintf("required environment variable %v not set", key))
}

func RequireEnvParsed[T any](key string, parseFunc func(string) (T, error)) T {
	value, err := parseFunc(RequireEnv(key))
	if err != nil {
		panic(fmt.Sprintf("environment variable %v could not be parsed: %v", key, err))
	}
	return value
}

func GetEnvParsedOrNil[T any](key string, parseFunc func(string) (T, error)) *T {
	if value := GetEnvOrNil(key); value != nil {
		parsed, err := parseFunc(*value)
		if err != nil {
			panic(fmt.Sprintf("environment variable %v could not be parsed: %v", key, err))
		}
		return &parsed
	}
	return nil
}

func GetEnvParsedOrDefault[T any](key string, parseFunc func(string) (T, error), defaultValue T) T {
	if value := GetEnvParsedOrNil(key, parseFunc); value != nil {
		return *value
	}
	return defaultValue
}
