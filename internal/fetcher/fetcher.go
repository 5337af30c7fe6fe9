package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// MaxArchiveSize bounds downloaded archives (32MB)
const MaxArchiveSize = 32 << 20

var client = &http.Client{Timeout: 30 * time.Second}

// Fetch downloads an archive from a URL
func Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	// Validate URL
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" {
		// "www.example.com/x" parses as a bare path
		u, err = url.Parse("https://" + strings.TrimSpace(rawURL))
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "recipes/1.0 (archive import)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxArchiveSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > MaxArchiveSize {
		return nil, fmt.Errorf("archive larger than %d bytes", MaxArchiveSize)
	}

	// Share links often land on a download page instead of the file
	if isHTML(resp.Header.Get("Content-Type")) {
		if title := pageTitle(body); title != "" {
			return nil, fmt.Errorf("got an HTML page (%q), not an archive", title)
		}
		return nil, fmt.Errorf("got an HTML page, not an archive")
	}

	return body, nil
}

// IsURL checks if a string looks like a URL
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

func isHTML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "text/html"
}

// pageTitle returns the text of the first <title> element
func pageTitle(page []byte) string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	var title string
	var find func(*html.Node) bool
	find = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			title = strings.Join(strings.Fields(sb.String()), " ")
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if find(c) {
				return true
			}
		}
		return false
	}
	find(doc)

	return title
}
