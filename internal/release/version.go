package release

import (
	"fmt"
	"strconv"
	"strings"
)

// NextSnapshot computes the development version following a release: the
// last numeric component is incremented and "-SNAPSHOT" appended, so
// "1.2.3" becomes "1.2.4-SNAPSHOT".
func NextSnapshot(version string) (string, error) {
	parts := strings.Split(version, ".")
	last := parts[len(parts)-1]
	n, err := strconv.Atoi(last)
	if err != nil {
		return "", fmt.Errorf("unable to increment version component in %q", version)
	}
	parts[len(parts)-1] = strconv.Itoa(n + 1)
	return strings.Join(parts, ".") + "-SNAPSHOT", nil
}
