/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
)

// Client is a minimal HTTP client for the shared tag store API.
// The desktop app uses it to pull and push tag groups under a feature flag.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// FetchToken requests a bearer token for subject and stores it on the client.
func (c *Client) FetchToken(ctx context.Context, subject string) (string, error) {
	var resp struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	body := map[string]any{"subject": subject}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/token", body, &resp); err != nil {
		return "", err
	}
	c.Token = resp.Token
	return resp.Token, nil
}

// ListTagGroups returns the shared tag groups (read-only).
func (c *Client) ListTagGroups(ctx context.Context) ([]TagGroupInfo, error) {
	var list []TagGroupInfo
	if err := c.doJSON(ctx, http.MethodGet, "/api/taggroups", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetTags fetches all tags of the named group.
func (c *Client) GetTags(ctx context.Context, group string) ([]domain.Tag, error) {
	var tags []domain.Tag
	path := fmt.Sprintf("/api/taggroups/%s/tags", url.PathEscape(group))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// PutTags replaces the named group's tags on the server.
func (c *Client) PutTags(ctx context.Context, group string, tags []domain.Tag) error {
	path := fmt.Sprintf("/api/taggroups/%s/tags", url.PathEscape(group))
	return c.doJSON(ctx, http.MethodPut, path, tags, nil)
}
