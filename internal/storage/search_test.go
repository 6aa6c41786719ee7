/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"testing"
	"time"
)

func TestSearchOverIndexedText(t *testing.T) {
	root := t.TempDir()
	proj := indexTestProject()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := UpdateIndex(ctx, root, proj); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}

	// FTS term matching the object label "station overview"
	res, err := Search(ctx, root, SearchQuery{Text: "overview"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("expected 1 result, got %d", len(res))
	}
	if res[0].Type != "object_label" {
		t.Fatalf("unexpected type: %q", res[0].Type)
	}
	if res[0].Snippet == "" {
		t.Fatalf("expected a snippet for FTS matches")
	}

	// Type filter narrows tag comments
	res, err = Search(ctx, root, SearchQuery{Text: "motor", Types: []string{"tag_comment"}})
	if err != nil {
		t.Fatalf("Search filtered: %v", err)
	}
	if len(res) != 1 || res[0].Type != "tag_comment" {
		t.Fatalf("type filter failed: %+v", res)
	}

	// Empty text falls back to a plain scan with filters
	res, err = Search(ctx, root, SearchQuery{Types: []string{"screen_title"}})
	if err != nil {
		t.Fatalf("Search scan: %v", err)
	}
	if len(res) != 1 || res[0].Path != "screen:scr-1" {
		t.Fatalf("scan filter failed: %+v", res)
	}

	// No match
	res, err = Search(ctx, root, SearchQuery{Text: "nonexistent"})
	if err != nil {
		t.Fatalf("Search miss: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("expected no results, got %d", len(res))
	}
}

func TestSearchPagination(t *testing.T) {
	root := t.TempDir()
	proj := indexTestProject()
	ctx := context.Background()
	if err := UpdateIndex(ctx, root, proj); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}
	all, err := Search(ctx, root, SearchQuery{})
	if err != nil {
		t.Fatalf("Search all: %v", err)
	}
	if len(all) < 3 {
		t.Fatalf("expected several indexed documents, got %d", len(all))
	}
	first, err := Search(ctx, root, SearchQuery{Limit: 1})
	if err != nil || len(first) != 1 {
		t.Fatalf("limit failed: %d err %v", len(first), err)
	}
	second, err := Search(ctx, root, SearchQuery{Limit: 1, Offset: 1})
	if err != nil || len(second) != 1 {
		t.Fatalf("offset failed: %d err %v", len(second), err)
	}
	if first[0].DocID == second[0].DocID {
		t.Fatalf("expected pagination to advance, both %d", first[0].DocID)
	}
}
