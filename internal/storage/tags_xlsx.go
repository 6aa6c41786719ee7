/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
)

// tagSheetName is the worksheet holding tag rows in the XLSX exchange format.
// The column layout matches the CSV format, so a workbook exported here can
// be saved as CSV from a spreadsheet program and re-imported.
const tagSheetName = "Tags"

// ExportTagsXLSXFile writes all tags of the named group to an .xlsx workbook.
// The header row is always written, even for an empty group.
func ExportTagsXLSXFile(path string, proj *domain.Project, groupName string) error {
	if proj == nil {
		return errors.New("nil project")
	}
	group := findTagGroup(proj, groupName)
	if group == nil {
		return fmt.Errorf("tag group %q not found", groupName)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName(f.GetSheetName(0), tagSheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	header := make([]any, len(tagExchangeHeader))
	for i, h := range tagExchangeHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(tagSheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range group.Tags {
		t := &group.Tags[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell for row %d: %w", i+2, err)
		}
		row := []any{t.Name, t.Address, t.DataType, t.Comment}
		if err := f.SetSheetRow(tagSheetName, cell, &row); err != nil {
			return fmt.Errorf("write tag %s: %w", t.Name, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ImportTagsXLSXFile reads tags from the first worksheet of an .xlsx workbook
// and merges them into the named group with the same rules as the CSV import:
// matching TagName replaces, others append, blank TagName rows are skipped.
// Returns the number of tags imported.
func ImportTagsXLSXFile(path string, proj *domain.Project, groupName string) (int, error) {
	if proj == nil {
		return 0, errors.New("nil project")
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return 0, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return 0, errors.New("missing header row")
	}
	col := map[string]int{}
	for i, h := range rows[0] {
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
	for _, rec := range rows[1:] {
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
