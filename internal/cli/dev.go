package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DevOptions configures the dev mode behavior.
type DevOptions struct {
	Transpile TranspileOptions
	Poll      bool          // Use polling instead of OS events
	Interval  time.Duration // Debounce/poll interval
}

// DefaultDevOptions returns the default dev mode options.
func DefaultDevOptions() DevOptions {
	return DevOptions{
		Interval: 500 * time.Millisecond,
	}
}

// Dev transpiles a model and again whenever the config, the stub or a model
// source file changes.
func Dev(app *App, input string, configPath string, opts DevOptions) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(app.Out, "\n\n👋 Stopping dev mode...")
			cancel()
		case <-ctx.Done():
		}
	}()

	files := watchedFiles(app.Config, configPath)
	printDevBanner(app, input, files)

	run := func() {
		if err := reloadAndTranspile(ctx, app, input, configPath, opts.Transpile); err != nil {
			fmt.Fprintf(app.Out, "[%s] ❌ Error: %v\n", timestamp(), err)
		}
		fmt.Fprintf(app.Out, "[%s] Watching for changes...\n", timestamp())
	}
	run()

	onChange := func(name string) {
		fmt.Fprintf(app.Out, "[%s] Change detected: %s\n", timestamp(), filepath.Base(name))
		run()
	}

	if opts.Poll {
		return watchWithPolling(ctx, files, opts.Interval, onChange)
	}
	return watchWithFsnotify(ctx, files, opts.Interval, onChange)
}

// reloadAndTranspile picks up config edits before running.
func reloadAndTranspile(ctx context.Context, app *App, input, configPath string, opts TranspileOptions) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	app.Config = config
	return Transpile(ctx, app, input, opts)
}

// watchedFiles returns the absolute paths dev mode reacts to: the config
// file, a custom stub and the Go files of the model sources.
func watchedFiles(config *Config, configPath string) []string {
	var files []string
	add := func(path string) {
		if abs, err := filepath.Abs(path); err == nil {
			files = append(files, abs)
		}
	}

	add(configPath)
	if config.Output.Stub != "" {
		add(config.Output.Stub)
	}
	for _, dir := range config.Models.Sources {
		matches, _ := filepath.Glob(filepath.Join(dir, "*.go"))
		for _, m := range matches {
			add(m)
		}
	}
	return files
}

// watchWithFsnotify uses OS-level file system events on the directories of
// files, calling onChange once per burst of events. Events that arrive while
// onChange runs start the next burst.
func watchWithFsnotify(ctx context.Context, files []string, interval time.Duration, onChange func(string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		watched[f] = true
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory: %w", err)
		}
		dirs[dir] = true
	}

	// The timer only marks a burst as settled; onChange runs on this
	// goroutine, so runs never overlap.
	var (
		debounce *time.Timer
		settled  <-chan time.Time
		pending  string
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(event, watched) {
				continue
			}

			pending = event.Name
			if debounce == nil {
				debounce = time.NewTimer(interval)
			} else {
				debounce.Reset(interval)
			}
			settled = debounce.C

		case <-settled:
			settled = nil
			onChange(pending)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "[%s] ⚠ Watcher error: %v\n", timestamp(), err)
		}
	}
}

// watchWithPolling uses file modification time polling.
func watchWithPolling(ctx context.Context, files []string, interval time.Duration, onChange func(string)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastMod := make(map[string]time.Time)
	for _, file := range files {
		if info, err := os.Stat(file); err == nil {
			lastMod[file] = info.ModTime()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			for _, file := range files {
				info, err := os.Stat(file)
				if err != nil {
					continue
				}
				if !info.ModTime().Equal(lastMod[file]) {
					lastMod[file] = info.ModTime()
					onChange(file)
				}
			}
		}
	}
}

// isRelevantEvent reports whether a write or create touched a watched file.
func isRelevantEvent(event fsnotify.Event, watched map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	absPath, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return watched[absPath]
}

// printDevBanner prints the startup banner.
func printDevBanner(app *App, input string, files []string) {
	fmt.Fprintln(app.Out)
	fmt.Fprintln(app.Out, "🚀 Transpiler Dev Mode")
	fmt.Fprintf(app.Out, "   Model:    %s\n", input)
	fmt.Fprintf(app.Out, "   Output:   %s/\n", app.Config.Output.Dir)
	fmt.Fprintf(app.Out, "   Watching: %d files\n", len(files))
	fmt.Fprintln(app.Out)
	fmt.Fprintln(app.Out, "   Press Ctrl+C to stop")
	fmt.Fprintln(app.Out)
}

// timestamp returns the current time formatted for logging.
func timestamp() string {
	return time.Now().Format("15:04:05")
}
