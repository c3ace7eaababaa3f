package proxy

import (
	"fmt"
	"net/url"
)

// Settings contains the upstream proxy shared by browsers and HTTP clients.
type Settings struct {
	Enabled  bool
	Hostname string
	Port     int
	Username string
	Password string
}

// HasProxy returns true if proxy is enabled and configured.
func (p Settings) HasProxy() bool {
	return p.Enabled && p.Hostname != "" && p.Port > 0
}

// HasCredentials reports whether the upstream requires authentication.
func (p Settings) HasCredentials() bool {
	return p.HasProxy() && p.Username != "" && p.Password != ""
}

// HostPort returns the proxy URL without credentials (e.g., "http://geo.example.com:12321").
func (p Settings) HostPort() string {
	if !p.HasProxy() {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", p.Hostname, p.Port)
}

// FullURL returns the proxy URL with escaped credentials, for HTTP clients.
func (p Settings) FullURL() string {
	if !p.HasProxy() {
		return ""
	}
	u := url.URL{Scheme: "http", Host: fmt.Sprintf("%s:%d", p.Hostname, p.Port)}
	if p.HasCredentials() {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u.String()
}
