package services

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// RedemptionPath is the public path that resolves a token back to its invitation.
	RedemptionPath  = "/accountstatus"
	adminPathSuffix = "/admin"
)

// BuildInvitationLink returns the public redemption URL for token. baseURL is the
// absolute URL the service is mounted at. When fromAdmin is set, a trailing
// "/admin" path element is removed so the link never points into the
// administrative surface.
func BuildInvitationLink(baseURL string, fromAdmin bool, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("empty invitation token")
	}
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q must be absolute", baseURL)
	}

	path := strings.TrimRight(u.Path, "/")
	if fromAdmin {
		path = strings.TrimSuffix(path, adminPathSuffix)
	}

	u.Path = path + RedemptionPath
	u.RawPath = ""
	u.RawQuery = url.Values{"token": {token}}.Encode()
	u.Fragment = ""
	return u.String(), nil
}
