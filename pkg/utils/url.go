package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildSearchURL joins base with the path-escaped "<category> in <location>" query.
func BuildSearchURL(base, category, location string) (string, error) {
	if _, err := url.Parse(base); err != nil {
		return "", fmt.Errorf("invalid search base url: %w", err)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	query := fmt.Sprintf("%s in %s", strings.TrimSpace(category), strings.TrimSpace(location))
	return base + url.PathEscape(query), nil
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// UnwrapRedirect returns the target of a "/url?q=<target>" redirect link, or
// raw unchanged when it is not one.
func UnwrapRedirect(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path != "/url" {
		return raw
	}
	for _, key := range []string{"q", "url"} {
		if target := u.Query().Get(key); target != "" {
			return target
		}
	}
	return raw
}

// NormalizeWebsite unwraps redirect links and resolves relative links against
// base. Empty input stays empty.
func NormalizeWebsite(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if base != nil {
		if abs, err := ToAbsoluteURL(base, raw); err == nil {
			raw = abs
		}
	}
	return UnwrapRedirect(raw)
}
