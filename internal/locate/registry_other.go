//go:build !windows

package locate

// SystemRegistry returns a registry that is always unavailable.
func SystemRegistry() Registry {
	return unavailableRegistry{}
}
