package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/github/go-pipe/pipe"
)

type ConfigEntry struct {
	Key   string
	Value string
}

type Config struct {
	Entries []ConfigEntry
}

// Map returns the entries as a map. If a key appears more than once,
// the last value wins, as it does for single-valued git settings.
func (config *Config) Map() map[string]string {
	m := make(map[string]string, len(config.Entries))
	for _, entry := range config.Entries {
		m[entry.Key] = entry.Value
	}
	return m
}

// Config returns the entries from gitconfig. If `prefix` is provided,
// then only include entries in that section, which must match the at
// a component boundary (as defined by `configKeyMatchesPrefix()`),
// and strip off the prefix in the keys that are returned.
func (repo *Repository) Config(ctx context.Context, prefix string) (*Config, error) {
	p := pipe.New()
	p.Add(pipe.CommandStage("git-config", repo.GitCommand("config", "--list", "-z")))

	out, err := p.Output(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading git configuration: %w", err)
	}

	return parseConfig(out, prefix)
}

// parseConfig parses the output of `git config --list -z`.
func parseConfig(out []byte, prefix string) (*Config, error) {
	var config Config

	for len(out) > 0 {
		keyEnd := bytes.IndexByte(out, '\n')
		if keyEnd == -1 {
			return nil, errors.New("invalid output from 'git config'")
		}
		key := string(out[:keyEnd])
		out = out[keyEnd+1:]
		valueEnd := bytes.IndexByte(out, 0)
		if valueEnd == -1 {
			return nil, errors.New("invalid output from 'git config'")
		}
		value := string(out[:valueEnd])
		out = out[valueEnd+1:]

		ok, rest := configKeyMatchesPrefix(key, prefix)
		if !ok {
			continue
		}

		entry := ConfigEntry{
			Key:   rest,
			Value: value,
		}
		config.Entries = append(config.Entries, entry)
	}

	return &config, nil
}

// configKeyMatchesPrefix checks whether `key` starts with `prefix` at
// a component boundary (i.e., at a '.'). If yes, it returns `true`
// and the part of the key after the prefix; e.g.:
//
//	configKeyMatchesPrefix("foo.bar", "foo") → true, "bar"
//	configKeyMatchesPrefix("foo.bar", "foo.") → true, "bar"
//	configKeyMatchesPrefix("foo.bar", "foo.bar") → true, ""
//	configKeyMatchesPrefix("foo.bar", "foo.bar.") → false, ""
func configKeyMatchesPrefix(key, prefix string) (bool, string) {
	if prefix == "" {
		return true, key
	}
	if !strings.HasPrefix(key, prefix) {
		return false, ""
	}

	if prefix[len(prefix)-1] == '.' {
		return true, key[len(prefix):]
	}
	if len(key) == len(prefix) {
		return true, ""
	}
	if key[len(prefix)] == '.' {
		return true, key[len(prefix)+1:]
	}
	return false, ""
}
