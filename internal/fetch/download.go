package fetch

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/depforge/depforge/internal/errs"
	"github.com/depforge/depforge/internal/manifest"
)

// download streams url into dest while computing the digest, and fails
// hard on any transport error or digest mismatch. On failure dest is
// removed; no unverified bytes survive.
func (c *Cache) download(ctx context.Context, pkg, url, dest string, want manifest.Hash) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &errs.FetchError{Package: pkg, URL: url, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &errs.FetchError{Package: pkg, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &errs.FetchError{
			Package: pkg, URL: url,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}

	hasher := want.Hasher()
	_, err = io.Copy(io.MultiWriter(f, hasher), resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return &errs.FetchError{Package: pkg, URL: url, Err: err}
	}

	got := hex.EncodeToString(hasher.Sum(nil))
	if got != want.Hex {
		os.Remove(dest)
		return &errs.IntegrityError{
			Package: pkg, URL: url,
			Algo: want.Algo, Want: want.Hex, Got: got,
		}
	}
	return nil
}
