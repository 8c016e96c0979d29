package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type notConfiguredError struct {
	key  string
	flag string
}

func (e notConfiguredError) Error() string {
	return fmt.Sprintf("%s is not set (set it in config.json, DRAGLIST_%s, or pass %s)", e.key, envKey(e.key), e.flag)
}

func errNotConfigured(key, flag string) error {
	return notConfiguredError{key: key, flag: flag}
}
