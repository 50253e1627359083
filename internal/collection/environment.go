package collection

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/mark3labs/apib2postman/internal/metadata"
)

// Environments returns the default environment named after the collection,
// followed by one environment per child of the ENV metadata mapping.
func Environments(name string, tree *metadata.Tree, opts ...Option) []Environment {
	if tree == nil {
		tree = metadata.Build(nil)
	}
	s := newSettings(opts)
	ts := s.now().UnixMilli()

	defaults := Variables(tree)
	values := make([]EnvironmentValue, 0, len(defaults))
	for _, v := range defaults {
		values = append(values, textValue(v.Key, v.Value))
	}
	envs := []Environment{newEnvironment(name, ts, values)}

	env, ok := tree.Get(EnvKey)
	if !ok || env.Kind() != metadata.Mapping {
		return envs
	}
	for _, child := range env.Keys() {
		node, _ := env.Get(child)
		if node.Kind() != metadata.Mapping {
			continue
		}
		values := []EnvironmentValue{}
		for _, key := range node.Keys() {
			v, _ := node.Get(key)
			if !v.IsPrimitive() {
				continue
			}
			values = append(values, textValue(key, v.Value()))
		}
		envs = append(envs, newEnvironment(fmt.Sprintf("%s (%s)", name, child), ts, values))
	}
	return envs
}

func newEnvironment(name string, ts int64, values []EnvironmentValue) Environment {
	return Environment{
		ID:        EnvironmentID(name),
		Name:      name,
		Timestamp: ts,
		Synced:    false,
		Values:    values,
	}
}

func textValue(key string, value any) EnvironmentValue {
	return EnvironmentValue{Name: key, Key: key, Value: value, Type: "text"}
}

// EnvironmentID is the hex SHA-1 of the environment name, so ids are stable
// across runs.
func EnvironmentID(name string) string {
	sum := sha1.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}
