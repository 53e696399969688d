package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chazu/facesvg/pkg/watcher"
)

var watchOut string

var watchCmd = &cobra.Command{
	Use:   "watch <script>",
	Short: "Re-export a script every time it is saved",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchOut, "output", "o", "", "SVG output file (default <script>.svg)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	script := args[0]
	out := watchOut
	if out == "" {
		out = filepath.Join(cfg.OutputDir, scriptName(script)+".svg")
	}

	// Each run starts from an empty sheet so the output mirrors the script.
	export := func(file string) {
		src, err := os.ReadFile(file)
		if err != nil {
			log.Printf("watch: %v", err)
			return
		}
		app := NewApp(cfg, scriptName(file))
		result := app.Layout(string(src))
		printResult(cmd, file, result)
		if !result.OK() {
			return
		}
		if err := writeFile(out, app.Write); err != nil {
			log.Printf("watch: %v", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d profiles)\n", out, app.Placed())
	}

	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Watch([]string{script}, export); err != nil {
		return err
	}

	export(script)
	fw.Start()
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s, Ctrl-C to stop\n", script)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	return nil
}
