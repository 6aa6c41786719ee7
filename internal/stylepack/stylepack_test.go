/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package stylepack

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestExportAndInstallPack(t *testing.T) {
	// Create temp project with styles
	projDir := t.TempDir()
	stylesDir := filepath.Join(projDir, "styles")
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		t.Fatalf("mkdir styles: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stylesDir, "alarm-button.json"), []byte("{\n  \"fill\": \"#c0392b\"\n}"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	sub := filepath.Join(stylesDir, "templates")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir templates: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "pump-station.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	zipPath := filepath.Join(projDir, "out.zip")
	if err := ExportProjectStyles(projDir, zipPath); err != nil {
		t.Fatalf("export pack: %v", err)
	}
	st, err := os.Stat(zipPath)
	if err != nil || st.Size() == 0 {
		t.Fatalf("zip not created or empty: %v", err)
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	_ = r.Close()
	if !names["stylepack.manifest.txt"] {
		t.Fatalf("manifest missing from archive: %v", names)
	}
	if !names["styles/alarm-button.json"] || !names["styles/templates/pump-station.json"] {
		t.Fatalf("style entries missing from archive: %v", names)
	}

	// Install into a new project
	proj2 := t.TempDir()
	installed, err := InstallPack(proj2, zipPath)
	if err != nil {
		t.Fatalf("install pack: %v", err)
	}
	if installed != 2 {
		t.Fatalf("expected 2 installed files, got %d", installed)
	}
	if _, err := os.Stat(filepath.Join(proj2, "styles", "alarm-button.json")); err != nil {
		t.Fatalf("expected alarm-button.json installed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(proj2, "styles", "templates", "pump-station.json")); err != nil {
		t.Fatalf("expected template installed: %v", err)
	}
}

func TestInstallPackSkipsExistingFiles(t *testing.T) {
	projDir := t.TempDir()
	stylesDir := filepath.Join(projDir, "styles")
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		t.Fatalf("mkdir styles: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stylesDir, "lamp.json"), []byte("{\"fill\":\"#2fa84f\"}"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	zipPath := filepath.Join(projDir, "pack.zip")
	if err := ExportProjectStyles(projDir, zipPath); err != nil {
		t.Fatalf("export pack: %v", err)
	}

	proj2 := t.TempDir()
	if err := os.MkdirAll(filepath.Join(proj2, "styles"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	local := []byte("{\"fill\":\"#111111\"}")
	if err := os.WriteFile(filepath.Join(proj2, "styles", "lamp.json"), local, 0o644); err != nil {
		t.Fatalf("write local: %v", err)
	}
	installed, err := InstallPack(proj2, zipPath)
	if err != nil {
		t.Fatalf("install pack: %v", err)
	}
	if installed != 0 {
		t.Fatalf("expected 0 installed (existing skipped), got %d", installed)
	}
	got, err := os.ReadFile(filepath.Join(proj2, "styles", "lamp.json"))
	if err != nil {
		t.Fatalf("read local: %v", err)
	}
	if string(got) != string(local) {
		t.Fatalf("local file overwritten: %q", got)
	}
}

func TestExportWithoutStylesDirCreatesManifestOnlyPack(t *testing.T) {
	projDir := t.TempDir()
	zipPath := filepath.Join(projDir, "empty.zip")
	if err := ExportProjectStyles(projDir, zipPath); err != nil {
		t.Fatalf("export pack: %v", err)
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer func() { _ = r.Close() }()
	if len(r.File) != 1 || r.File[0].Name != "stylepack.manifest.txt" {
		t.Fatalf("expected manifest-only archive, got %d entries", len(r.File))
	}
	// The styles dir should now exist for future exports.
	if st, err := os.Stat(filepath.Join(projDir, "styles")); err != nil || !st.IsDir() {
		t.Fatalf("styles dir not created: %v", err)
	}
}

func TestInstallPackRejectsEntriesOutsideProjectRoot(t *testing.T) {
	// Hand-build a pack whose entries try to climb out of the project root.
	packDir := t.TempDir()
	zipPath := filepath.Join(packDir, "evil.zip")
	zf, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(zf)
	for name, content := range map[string]string{
		"styles/good.json":          "{}",
		"../../evil.json":           "{}",
		"styles/../../evil2.json":   "{}",
		"styles/sub/../../../e.txt": "x",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	if err := zf.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	projDir := t.TempDir()
	installed, err := InstallPack(projDir, zipPath)
	if err != nil {
		t.Fatalf("install pack: %v", err)
	}
	if installed != 1 {
		t.Fatalf("expected only the safe entry installed, got %d", installed)
	}
	if _, err := os.Stat(filepath.Join(projDir, "styles", "good.json")); err != nil {
		t.Fatalf("safe entry missing: %v", err)
	}
	parent := filepath.Dir(projDir)
	for _, escaped := range []string{"evil.json", "evil2.json", "e.txt"} {
		if _, err := os.Stat(filepath.Join(parent, escaped)); err == nil {
			t.Fatalf("entry %s escaped the project root", escaped)
		}
	}
}

func TestArgumentValidation(t *testing.T) {
	if err := ExportProjectStyles("", "x.zip"); err == nil {
		t.Fatal("expected error for empty project root")
	}
	if err := ExportProjectStyles(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for empty zip path")
	}
	if _, err := InstallPack("", "x.zip"); err == nil {
		t.Fatal("expected error for empty project root")
	}
	if _, err := InstallPack(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for empty pack path")
	}
}
