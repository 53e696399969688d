package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/facesvg/pkg/store"
)

var (
	exportOut     string
	exportDXF     string
	exportPNG     string
	exportModel   string
	exportSession string
	exportDB      string
)

var exportCmd = &cobra.Command{
	Use:   "export <script>...",
	Short: "Lay out the faces of one or more scripts and write the SVG",
	Long: `Evaluate each capture script, place its faces on the sheet and write the
result. With --session the sheet is stored in a database so that later exports
to the same session continue where this one stopped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "SVG output file (default <first script>.svg)")
	exportCmd.Flags().StringVar(&exportDXF, "dxf", "", "also write a DXF file")
	exportCmd.Flags().StringVar(&exportPNG, "png", "", "also write a PNG preview")
	exportCmd.Flags().StringVar(&exportModel, "model", "", "model name for the document title (default <first script>)")
	addSessionFlags(exportCmd, &exportSession, &exportDB)
}

// addSessionFlags registers the flags shared by commands that use the store.
func addSessionFlags(cmd *cobra.Command, session, db *string) {
	cmd.Flags().StringVar(session, "session", "", "named layout session to continue")
	cmd.Flags().StringVar(db, "db", defaultDBPath(), "session database")
}

func defaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".facesvg", "sessions.db")
	}
	return filepath.Join(dir, "facesvg", "sessions.db")
}

// scriptName is the script file name without directory or extension.
func scriptName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	model := exportModel
	if model == "" {
		model = scriptName(args[0])
	}
	out := exportOut
	if out == "" {
		out = filepath.Join(cfg.OutputDir, scriptName(args[0])+".svg")
	}

	ctx := context.Background()
	app := NewApp(cfg, model)

	var db *store.Store
	if exportSession != "" {
		db, err = store.Open(ctx, exportDB)
		if err != nil {
			return err
		}
		defer db.Close()

		sess, err := db.Load(ctx, exportSession)
		switch {
		case err == nil:
			app.Restore(sess)
		case !errors.Is(err, store.ErrNotFound):
			return err
		}
	}

	for _, file := range args {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		result := app.Layout(string(src))
		printResult(cmd, file, result)
		if !result.OK() {
			return fmt.Errorf("%s: layout failed with %d errors", file, len(result.Errors))
		}
	}

	if err := writeFile(out, app.Write); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d profiles)\n", out, app.Placed())

	if exportDXF != "" {
		if err := app.WriteDXF(exportDXF); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportDXF)
	}
	if exportPNG != "" {
		if err := app.SavePNG(exportPNG); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportPNG)
	}

	if db != nil {
		if err := db.Save(ctx, app.Session(exportSession)); err != nil {
			return err
		}
	}
	return nil
}

// printResult reports one script's placements, warnings and errors.
func printResult(cmd *cobra.Command, file string, r LayoutResult) {
	w := cmd.OutOrStdout()
	for _, p := range r.Profiles {
		fmt.Fprintf(w, "%s: placed %s %q at (%.3f, %.3f) size %.3f x %.3f\n",
			file, p.Kind, p.Name, p.X, p.Y, p.Width, p.Height)
	}
	for _, e := range r.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", file, formatIssue("warning", e))
	}
	for _, e := range r.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", file, formatIssue("error", e))
	}
}

func formatIssue(sev string, e ErrorData) string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(sev)
	if e.Face != "" {
		fmt.Fprintf(&b, ": face %q", e.Face)
	}
	b.WriteString(": " + e.Message)
	return b.String()
}

// writeFile creates path and its directory and passes the file to write.
func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
