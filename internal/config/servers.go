// internal/config/servers.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// GetServer retrieves a server by name
func (c *Config) GetServer(name string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Name == name {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server not found: %s", name)
}

// AddServer adds a new server to the config
func (c *Config) AddServer(s Server) error {
	if _, err := ParseURL(s.URL); err != nil {
		return err
	}
	for _, existing := range c.Servers {
		if existing.Name == s.Name {
			return fmt.Errorf("server already exists: %s", s.Name)
		}
	}
	c.Servers = append(c.Servers, s)
	return c.Save()
}

// DeleteServer removes a server from the config
func (c *Config) DeleteServer(name string) error {
	for i := range c.Servers {
		if c.Servers[i].Name == name {
			c.Servers = append(c.Servers[:i], c.Servers[i+1:]...)
			return c.Save()
		}
	}
	return fmt.Errorf("server not found: %s", name)
}

// ListServers returns all server names
func (c *Config) ListServers() []string {
	names := make([]string, len(c.Servers))
	for i, s := range c.Servers {
		names[i] = s.Name
	}
	return names
}

// Resolve picks the server to connect to. An explicit URL wins over a
// server name, which wins over default_server.
func (c *Config) Resolve(rawURL, name string) (*Server, error) {
	if rawURL != "" {
		if _, err := ParseURL(rawURL); err != nil {
			return nil, err
		}
		return &Server{Name: rawURL, URL: strings.TrimRight(rawURL, "/")}, nil
	}
	if name == "" {
		name = c.DefaultServer
	}
	if name == "" {
		if len(c.Servers) == 0 {
			return nil, fmt.Errorf("no servers configured")
		}
		return &c.Servers[0], nil
	}
	return c.GetServer(name)
}

// Origin identifies the server for locally stored state, e.g. "localhost:3000"
func (s *Server) Origin() string {
	u, err := ParseURL(s.URL)
	if err != nil {
		return s.URL
	}
	return u.Scheme + "://" + u.Host
}

// ParseURL validates a server base URL
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", raw)
	}
	return u, nil
}
