// Package specfile provides spec-PDF existence checks for the download gate.
package specfile

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/marvilon/leadgate/ports"
)

// Dir checks for spec files on the local filesystem under a root directory.
type Dir struct {
	root string
}

// NewDir creates a filesystem-backed spec checker rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Exists reports whether the spec file is present. The path is cleaned and
// confined to the root; traversal outside it reports false.
func (d *Dir) Exists(ctx context.Context, specPath string) (bool, error) {
	clean := path.Clean("/" + strings.TrimPrefix(specPath, "/specs"))
	full := filepath.Join(d.root, filepath.FromSlash(clean))

	rel, err := filepath.Rel(d.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false, nil
	}

	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat spec file: %w", err)
	}
	return !info.IsDir(), nil
}

// Ensure interface compliance.
var _ ports.SpecChecker = (*Dir)(nil)

// HTTPChecker checks spec availability with a HEAD request against the
// serving origin, the way the browser-side gate probes before downloading.
type HTTPChecker struct {
	baseURL string
	client  *http.Client
}

// NewHTTPChecker creates a HEAD-based spec checker.
// timeout bounds each probe; zero means 5 seconds.
func NewHTTPChecker(baseURL string, timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPChecker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Exists issues a HEAD request for the spec path; only 200 counts as present.
func (c *HTTPChecker) Exists(ctx context.Context, specPath string) (bool, error) {
	url := c.baseURL + "/" + strings.TrimLeft(specPath, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, fmt.Errorf("build spec probe: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("probe spec file: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

// Ensure interface compliance.
var _ ports.SpecChecker = (*HTTPChecker)(nil)
