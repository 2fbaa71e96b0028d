package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// sessionFile is the on-disk form of the CLI's login.
type sessionFile struct {
	BaseURL string          `yaml:"base_url"`
	Cookies []sessionCookie `yaml:"cookies"`
}

type sessionCookie struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// loadSession returns the cookies saved for baseURL. A missing file or a file
// written for another server yields no cookies.
func loadSession(path, baseURL string) ([]*http.Cookie, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sf sessionFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	if sf.BaseURL != baseURL {
		return nil, nil
	}
	cookies := make([]*http.Cookie, 0, len(sf.Cookies))
	for _, c := range sf.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	return cookies, nil
}

// saveSession writes cookies for baseURL; no cookies removes the file.
func saveSession(path, baseURL string, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session: %w", err)
		}
		return nil
	}
	sf := sessionFile{BaseURL: baseURL}
	for _, c := range cookies {
		sf.Cookies = append(sf.Cookies, sessionCookie{Name: c.Name, Value: c.Value})
	}
	b, err := yaml.Marshal(sf)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir session dir: %w", err)
	}
	return os.WriteFile(path, b, 0o600)
}
