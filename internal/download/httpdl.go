package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

const copyChunkSize = 256 * 1024

// HTTPDirect downloads direct media URLs with a plain GET, for sources
// that need no extractor. The extension placeholder is resolved from the
// URL path, falling back to mp4.
type HTTPDirect struct {
	client *http.Client
}

func NewHTTPDirect() *HTTPDirect {
	return &HTTPDirect{
		client: &http.Client{
			Timeout: 30 * time.Minute, // videos can be large
		},
	}
}

func (d *HTTPDirect) Download(ctx context.Context, rawURL, outputTemplate string, events chan<- Event) error {
	out := ResolveTemplate(outputTemplate, rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output file %s: %w", out, err)
	}

	total := resp.ContentLength
	var written int64
	lastPct := -1

	buf := make([]byte, copyChunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				file.Close()
				os.Remove(out)
				return fmt.Errorf("write output file %s: %w", out, werr)
			}
			written += int64(n)

			ev := Event{Downloaded: written, Total: 0, Filename: out}
			if total > 0 {
				ev.Total = total
				ev.Percent = float64(written) / float64(total) * 100
			}
			// Only report whole-percent steps to keep the event
			// stream bounded.
			if pct := int(ev.Percent); total <= 0 || pct > lastPct {
				lastPct = pct
				events <- ev
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			file.Close()
			os.Remove(out)
			return fmt.Errorf("download %s: %w", rawURL, rerr)
		}
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file %s: %w", out, err)
	}
	events <- Event{Downloaded: written, Total: total, Percent: 100, Filename: out}
	return nil
}

// ResolveTemplate substitutes the %(ext)s placeholder with the extension
// taken from the source URL's path, defaulting to mp4.
func ResolveTemplate(outputTemplate, rawURL string) string {
	ext := "mp4"
	if u, err := url.Parse(rawURL); err == nil {
		if e := strings.TrimPrefix(path.Ext(u.Path), "."); e != "" {
			ext = e
		}
	}
	return strings.ReplaceAll(outputTemplate, "%(ext)s", ext)
}
