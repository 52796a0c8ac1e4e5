// Package scrape locates document download links inside the publication
// pages that front each sanction list.
package scrape

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// LinkQuery describes the anchor to look for. Every set field must match.
// Href matching is case-insensitive.
type LinkQuery struct {
	// Class requires the anchor to carry this CSS class.
	Class string
	// Contains are substrings the href must all contain.
	Contains []string
	// NotSuffixes are suffixes the href must not end with.
	NotSuffixes []string
}

// FindLink parses page and returns the first matching anchor's href in
// document order, resolved against baseURL when one is given. The boolean
// reports whether any anchor matched; no match is not an error.
func FindLink(page []byte, baseURL string, q LinkQuery) (string, bool, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", false, fmt.Errorf("failed to parse page: %w", err)
	}

	href, ok := findAnchor(doc, q)
	if !ok {
		return "", false, nil
	}
	if baseURL == "" {
		return href, true, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false, fmt.Errorf("failed to parse base URL %s: %w", baseURL, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false, fmt.Errorf("failed to parse link %s: %w", href, err)
	}
	return base.ResolveReference(ref).String(), true, nil
}

func findAnchor(n *html.Node, q LinkQuery) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "a" && matches(n, q) {
		return attr(n, "href"), true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href, ok := findAnchor(c, q); ok {
			return href, true
		}
	}
	return "", false
}

func matches(n *html.Node, q LinkQuery) bool {
	href := strings.ToLower(attr(n, "href"))
	if href == "" {
		return false
	}
	if q.Class != "" && !hasClass(n, q.Class) {
		return false
	}
	for _, want := range q.Contains {
		if !strings.Contains(href, strings.ToLower(want)) {
			return false
		}
	}
	for _, suffix := range q.NotSuffixes {
		if strings.HasSuffix(href, strings.ToLower(suffix)) {
			return false
		}
	}
	return true
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
