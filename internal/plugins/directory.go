// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package plugins fetches the remote plugin directory: a JSON index of
// highlight styles and converter extensions published alongside a
// MarkPress deployment. The directory is advisory — conversion works
// fully offline — so every failure surfaces as an error to the caller
// and never breaks the pipeline.
package plugins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/alecthomas/chroma/v2/styles"
)

// Plugin kinds known to the directory index.
const (
	KindStyle     = "style"
	KindExtension = "extension"
)

// Plugin describes one entry of the remote directory index.
type Plugin struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Directory is the decoded plugin index.
type Directory struct {
	Plugins []Plugin `json:"plugins"`
}

// Styles returns the names of style plugins listed in the directory.
func (d *Directory) Styles() []string {
	var names []string
	for _, p := range d.Plugins {
		if p.Kind == KindStyle {
			names = append(names, p.Name)
		}
	}
	return names
}

// Extensions returns the names of extension plugins listed in the directory.
func (d *Directory) Extensions() []string {
	var names []string
	for _, p := range d.Plugins {
		if p.Kind == KindExtension {
			names = append(names, p.Name)
		}
	}
	return names
}

// maxIndexSize bounds how much of the index response is read.
const maxIndexSize = 1 << 20

// Client fetches the plugin directory index over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a directory client for the given index URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch downloads and decodes the directory index.
func (c *Client) Fetch(ctx context.Context) (*Directory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch plugin directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("plugin directory returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexSize))
	if err != nil {
		return nil, fmt.Errorf("read plugin directory: %w", err)
	}

	var dir Directory
	if err := json.Unmarshal(body, &dir); err != nil {
		return nil, fmt.Errorf("decode plugin directory: %w", err)
	}
	return &dir, nil
}

// LocalStyles returns the highlight styles compiled into this binary,
// sorted by name. These are always available, directory or not.
func LocalStyles() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}
