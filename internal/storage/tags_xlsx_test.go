/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
)

func TestTagXLSXRoundTrip(t *testing.T) {
	proj := domain.Project{
		Name: "Tags",
		TagGroups: []domain.TagGroup{{
			Name: "PLC1",
			Tags: []domain.Tag{
				{Name: "MotorRun", Address: "M100", DataType: "BOOL", Comment: "run bit"},
				{Name: "Speed", Address: "D200", DataType: "INT", Comment: "rpm setpoint"},
			},
		}},
	}

	path := filepath.Join(t.TempDir(), "plc1.xlsx")
	if err := ExportTagsXLSXFile(path, &proj, "PLC1"); err != nil {
		t.Fatalf("ExportTagsXLSXFile: %v", err)
	}

	// The workbook itself must carry the exchange header on the Tags sheet.
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	rows, err := f.GetRows(tagSheetName)
	_ = f.Close()
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count: got %d want 3", len(rows))
	}
	if rows[0][0] != "TagName" || rows[0][3] != "Comment" {
		t.Fatalf("bad header row: %v", rows[0])
	}
	if rows[1][0] != "MotorRun" || rows[1][1] != "M100" {
		t.Fatalf("bad tag row: %v", rows[1])
	}

	// Import into a fresh project; group should be created
	var fresh domain.Project
	n, err := ImportTagsXLSXFile(path, &fresh, "PLC1")
	if err != nil {
		t.Fatalf("ImportTagsXLSXFile: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported count: got %d want 2", n)
	}
	got, ok := fresh.FindTag("PLC1/Speed")
	if !ok || got.Address != "D200" || got.Comment != "rpm setpoint" {
		t.Fatalf("imported tag lookup failed: %+v", got)
	}
}

func TestTagXLSXImportReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge.xlsx")
	src := domain.Project{TagGroups: []domain.TagGroup{{
		Name: "PLC1",
		Tags: []domain.Tag{
			{Name: "Speed", Address: "D300", DataType: "DINT", Comment: "moved"},
			{Name: "Valve", Address: "M5", DataType: "BOOL"},
		},
	}}}
	if err := ExportTagsXLSXFile(path, &src, "PLC1"); err != nil {
		t.Fatalf("ExportTagsXLSXFile: %v", err)
	}

	proj := domain.Project{TagGroups: []domain.TagGroup{{
		Name: "PLC1",
		Tags: []domain.Tag{{Name: "Speed", Address: "D200", DataType: "INT"}},
	}}}
	n, err := ImportTagsXLSXFile(path, &proj, "PLC1")
	if err != nil {
		t.Fatalf("ImportTagsXLSXFile: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported count: got %d want 2", n)
	}
	if len(proj.TagGroups[0].Tags) != 2 {
		t.Fatalf("expected replace not append, have %d tags", len(proj.TagGroups[0].Tags))
	}
	if got, ok := proj.FindTag("PLC1/Speed"); !ok || got.Address != "D300" || got.DataType != "DINT" {
		t.Fatalf("replace failed: %+v", got)
	}
}

func TestTagXLSXExportUnknownGroup(t *testing.T) {
	var proj domain.Project
	path := filepath.Join(t.TempDir(), "nope.xlsx")
	if err := ExportTagsXLSXFile(path, &proj, "nope"); err == nil {
		t.Fatalf("expected error for unknown group")
	}
}
