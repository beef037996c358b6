//go:build windows

package locate

import (
	"golang.org/x/sys/windows/registry"
)

type systemRegistry struct{}

// SystemRegistry returns a registry reading HKEY_LOCAL_MACHINE.
func SystemRegistry() Registry {
	return systemRegistry{}
}

func (systemRegistry) StringValue(key, name string) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, key, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer func() { _ = k.Close() }()

	v, _, err := k.GetStringValue(name)
	if err != nil {
		return "", err
	}
	return v, nil
}
