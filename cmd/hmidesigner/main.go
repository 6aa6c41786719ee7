/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/avijitroydgp7/HMI-2.00/internal/crash"
	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
	"github.com/avijitroydgp7/HMI-2.00/internal/export"
	applog "github.com/avijitroydgp7/HMI-2.00/internal/log"
	"github.com/avijitroydgp7/HMI-2.00/internal/storage"
	"github.com/avijitroydgp7/HMI-2.00/internal/stylepack"
	"github.com/avijitroydgp7/HMI-2.00/internal/telemetry"
	"github.com/avijitroydgp7/HMI-2.00/internal/ui"
	"github.com/avijitroydgp7/HMI-2.00/internal/version"
)

func usage() {
	fmt.Println("HMI Designer — screen design tool for operator panels")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  hmidesigner version|-v|--version              Show version")
	fmt.Println("  hmidesigner init <dir> <name>                 Create a new project at <dir> with name <name>")
	fmt.Println("  hmidesigner open <dir>                        Open project at <dir> and print summary")
	fmt.Println("  hmidesigner save <dir>                        Save project at <dir> (creates backup)")
	fmt.Println("  hmidesigner search <dir> <text>               Full-text search over titles, labels and tag comments")
	fmt.Println("  hmidesigner where-used <dir> <group/tag>      List objects bound to a tag")
	fmt.Println("  hmidesigner tags-export <dir> <group> <file>  Export a tag group (.csv or .xlsx by extension)")
	fmt.Println("  hmidesigner tags-import <dir> <group> <file>  Import tags into a group (.csv or .xlsx)")
	fmt.Println("  hmidesigner styles-export <dir> <zip>         Export the project's style library as a pack")
	fmt.Println("  hmidesigner styles-install <dir> <zip>        Install a style pack into the project")
	fmt.Println("  hmidesigner export-pdf <dir> [out.pdf]        Export screen layouts as a PDF document")
	fmt.Println("  hmidesigner export-png <dir> [outdir]         Export screens as PNG images")
	fmt.Println("  hmidesigner ui [<dir>]                        Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("HMI Designer")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			name := args[3]
			l.Info("init project", slog.String("root", abs), slog.String("name", name))
			h, err := storage.InitProject(abs, domain.Project{Name: name})
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			fmt.Println("Created project at", abs)
			return
		case "open":
			h := mustOpen(l, args, 3, "open requires <dir>")
			ph = h
			telemetry.ProjectOpened(len(h.Project.Screens), len(h.Project.TagGroups))
			fmt.Printf("Opened project: %s\n", h.Project.Name)
			fmt.Printf("Screens: %d\n", len(h.Project.Screens))
			fmt.Printf("Tag groups: %d\n", len(h.Project.TagGroups))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			h := mustOpen(l, args, 3, "save requires <dir>")
			ph = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := storage.UpdateIndex(context.Background(), h.Root, h.Project); err != nil {
				l.Warn("index update failed", slog.Any("err", err))
			}
			telemetry.ProjectSaved(len(h.Project.Screens))
			fmt.Println("Saved project and created a backup of previous manifest (if any).")
			return
		case "search":
			h := mustOpen(l, args, 4, "search requires <dir> and <text>")
			ph = h
			if err := storage.BuildIndexIfEmpty(context.Background(), h.Root, h.Project); err != nil {
				l.Error("index build failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			text := strings.Join(args[3:], " ")
			results, err := storage.Search(context.Background(), h.Root, storage.SearchQuery{Text: text, Limit: 50})
			if err != nil {
				l.Error("search failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range results {
				fmt.Printf("%-14s %-40s %s\n", r.Type, r.Path, r.Snippet)
			}
			fmt.Printf("%d result(s)\n", len(results))
			return
		case "where-used":
			h := mustOpen(l, args, 4, "where-used requires <dir> and <group/tag>")
			ph = h
			if err := storage.BuildIndexIfEmpty(context.Background(), h.Root, h.Project); err != nil {
				l.Error("index build failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			uses, err := storage.TagWhereUsed(context.Background(), h.Root, args[3])
			if err != nil {
				l.Error("where-used failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, u := range uses {
				fmt.Printf("screen %-20s %-8s %-20s %s\n", u.ScreenID, u.Kind, u.ObjectID, u.Label)
			}
			fmt.Printf("%d binding(s)\n", len(uses))
			return
		case "tags-export":
			h := mustOpen(l, args, 5, "tags-export requires <dir>, <group> and <file>")
			ph = h
			exportTags := storage.ExportTagsCSVFile
			if strings.EqualFold(filepath.Ext(args[4]), ".xlsx") {
				exportTags = storage.ExportTagsXLSXFile
			}
			if err := exportTags(args[4], &h.Project, args[3]); err != nil {
				l.Error("tags export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported tag group", args[3], "to", args[4])
			return
		case "tags-import":
			h := mustOpen(l, args, 5, "tags-import requires <dir>, <group> and <file>")
			ph = h
			importTags := storage.ImportTagsCSVFile
			if strings.EqualFold(filepath.Ext(args[4]), ".xlsx") {
				importTags = storage.ImportTagsXLSXFile
			}
			n, err := importTags(args[4], &h.Project, args[3])
			if err != nil {
				l.Error("tags import failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := storage.Save(h); err != nil {
				l.Error("save after import failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Imported %d tag(s) into group %s\n", n, args[3])
			return
		case "styles-export":
			h := mustOpen(l, args, 4, "styles-export requires <dir> and <zip>")
			ph = h
			if err := stylepack.ExportProjectStyles(h.Root, args[3]); err != nil {
				l.Error("styles export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported style pack:", args[3])
			return
		case "styles-install":
			h := mustOpen(l, args, 4, "styles-install requires <dir> and <zip>")
			ph = h
			n, err := stylepack.InstallPack(h.Root, args[3])
			if err != nil {
				l.Error("styles install failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Installed %d style file(s)\n", n)
			return
		case "export-pdf":
			h := mustOpen(l, args, 3, "export-pdf requires <dir>")
			ph = h
			out := "screens.pdf"
			if len(args) >= 4 {
				out = args[3]
			}
			if err := export.ExportProjectPDF(h, out, export.PDFOptions{IncludeTagTable: true}); err != nil {
				l.Error("pdf export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			telemetry.ExportRun("pdf", len(h.Project.Screens))
			fmt.Println("Exported PDF:", out)
			return
		case "export-png":
			h := mustOpen(l, args, 3, "export-png requires <dir>")
			ph = h
			out := "png"
			if len(args) >= 4 {
				out = args[3]
			}
			if err := export.ExportScreenPNGs(h, out, export.PNGOptions{Scale: 1}); err != nil {
				l.Error("png export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			telemetry.ExportRun("png", len(h.Project.Screens))
			fmt.Println("Exported PNGs to:", out)
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

// mustOpen opens the project named by args[2], exiting with a usage message
// when fewer than minArgs arguments are present.
func mustOpen(l *slog.Logger, args []string, minArgs int, missing string) *storage.ProjectHandle {
	if len(args) < minArgs {
		fmt.Println(missing)
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[2])
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err), slog.String("root", abs))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}
