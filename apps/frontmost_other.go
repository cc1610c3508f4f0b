//go:build !darwin

package apps

import "context"

// systemProvider has no notion of bundle identifiers outside macOS
type systemProvider struct{}

func (systemProvider) FrontmostBundleID(context.Context) (string, error) {
	return "", nil
}
