package config

import (
	"net"
	"net/url"
	"strconv"
)

// UpstreamURL assembles the chat-completion endpoint from its parts.
// The port is omitted when it is the default for the scheme.
func (c *Config) UpstreamURL() string {
	host := c.AIHost
	switch {
	case c.AIScheme == "https" && c.AIPort == 443,
		c.AIScheme == "http" && c.AIPort == 80,
		c.AIPort == 0:
	default:
		host = net.JoinHostPort(c.AIHost, strconv.Itoa(c.AIPort))
	}

	u := url.URL{Scheme: c.AIScheme, Host: host, Path: c.AIPath}
	return u.String()
}
