/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
)

// tagExchangeHeader is the fixed column layout shared by the CSV and XLSX
// tag exchange formats.
var tagExchangeHeader = []string{"TagName", "Address", "DataType", "Comment"}

// findTagGroup returns the named group or nil.
func findTagGroup(proj *domain.Project, name string) *domain.TagGroup {
	for i := range proj.TagGroups {
		if proj.TagGroups[i].Name == name {
			return &proj.TagGroups[i]
		}
	}
	return nil
}

// ensureTagGroup returns the named group, creating it when absent.
func ensureTagGroup(proj *domain.Project, name string) *domain.TagGroup {
	if g := findTagGroup(proj, name); g != nil {
		return g
	}
	proj.TagGroups = append(proj.TagGroups, domain.TagGroup{Name: name})
	return &proj.TagGroups[len(proj.TagGroups)-1]
}

// upsertTag replaces the tag with the same name or appends.
func upsertTag(group *domain.TagGroup, tag domain.Tag) {
	for i := range group.Tags {
		if group.Tags[i].Name == tag.Name {
			group.Tags[i] = tag
			return
		}
	}
	group.Tags = append(group.Tags, tag)
}

// ExportTagsCSV writes all tags of the named group to w in the tag exchange
// CSV format. The header row is always written, even for an empty group.
func ExportTagsCSV(w io.Writer, proj *domain.Project, groupName string) error {
	if proj == nil {
		return errors.New("nil project")
	}
	group := findTagGroup(proj, groupName)
	if group == nil {
		return fmt.Errorf("tag group %q not found", groupName)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(tagExchangeHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range group.Tags {
		t := &group.Tags[i]
		if err := cw.Write([]string{t.Name, t.Address, t.DataType, t.Comment}); err != nil {
			return fmt.Errorf("write tag %s: %w", t.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportTagsCSVFile is a convenience wrapper writing the group to a file.
func ExportTagsCSVFile(path string, proj *domain.Project, groupName string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return ExportTagsCSV(f, proj, groupName)
}

// ImportTagsCSV reads tags from r and merges them into the named group,
// creating the group if it does not exist. Rows whose TagName matches an
// existing tag replace it; other rows append. Blank TagName rows are skipped.
// Returns the number of tags imported.
func ImportTagsCSV(r io.Reader, proj *domain.Project, groupName string) (int, error) {
	if proj == nil {
		return 0, errors.New("nil project")
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate short rows from hand-edited files
	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	nameIdx, ok := col["TagName"]
	if !ok {
		return 0, errors.New("missing TagName column")
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	group := ensureTagGroup(proj, groupName)

	count := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read row: %w", err)
		}
		if nameIdx >= len(rec) {
			continue
		}
		name := strings.TrimSpace(rec[nameIdx])
		if name == "" {
			continue
		}
		tag := domain.Tag{
			Name:     name,
			Address:  field(rec, "Address"),
			DataType: field(rec, "DataType"),
			Comment:  field(rec, "Comment"),
		}
		if tag.DataType == "" {
			tag.DataType = "INT"
		}
		upsertTag(group, tag)
		count++
	}
	return count, nil
}

// ImportTagsCSVFile is a convenience wrapper reading the CSV from a file.
func ImportTagsCSVFile(path string, proj *domain.Project, groupName string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return ImportTagsCSV(f, proj, groupName)
}
