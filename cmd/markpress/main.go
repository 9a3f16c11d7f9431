// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command markpress converts markdown to HTML. Without flags it reads
// markdown from the named files (or stdin) and writes HTML to stdout.
// With -serve it runs the content server instead, rendering the pages
// under CONTENT_DIR on demand.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"markpress/internal/cache"
	"markpress/internal/config"
	"markpress/internal/engine"
	"markpress/internal/handlers"
	"markpress/internal/htmlfmt"
	"markpress/internal/markdown"
	"markpress/internal/plugins"
	"markpress/internal/router"
)

func main() {
	var (
		serve      = flag.Bool("serve", false, "run the HTTP content server")
		out        = flag.String("o", "", "write converted HTML to this file instead of stdout")
		style      = flag.String("style", markdown.DefaultStyle, "chroma style for fenced code highlighting")
		pretty     = flag.Bool("pretty", false, "re-indent the HTML output")
		listPlugin = flag.String("plugins", "", "fetch and list the plugin directory at this URL, then exit")
		listStyles = flag.Bool("styles", false, "list the built-in highlight styles, then exit")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	switch {
	case *listStyles:
		for _, name := range plugins.LocalStyles() {
			fmt.Println(name)
		}
	case *listPlugin != "":
		if err := runPlugins(*listPlugin); err != nil {
			slog.Error("plugin directory listing failed", "error", err)
			os.Exit(1)
		}
	case *serve:
		if err := runServe(); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	default:
		if err := runConvert(flag.Args(), *out, *style, *pretty); err != nil {
			slog.Error("conversion failed", "error", err)
			os.Exit(1)
		}
	}
}

// runConvert converts the named markdown files (or stdin when none are
// given) and writes the concatenated HTML to out or stdout.
func runConvert(files []string, out, style string, pretty bool) error {
	conv := markdown.New(style)

	var sb strings.Builder
	if len(files) == 0 {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		html, err := conv.ToHTML(string(source))
		if err != nil {
			return err
		}
		sb.WriteString(html)
	} else {
		for _, file := range files {
			source, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			html, err := conv.ToHTML(string(source))
			if err != nil {
				return fmt.Errorf("convert %s: %w", file, err)
			}
			sb.WriteString(html)
		}
	}

	result := sb.String()
	if pretty {
		formatted, err := htmlfmt.Pretty(result)
		if err != nil {
			return fmt.Errorf("pretty-print: %w", err)
		}
		result = formatted
	}

	if out == "" {
		_, err := os.Stdout.WriteString(result)
		return err
	}
	return os.WriteFile(out, []byte(result), 0o644)
}

// runPlugins fetches the plugin directory index and prints its entries.
func runPlugins(url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir, err := plugins.NewClient(url).Fetch(ctx)
	if err != nil {
		return err
	}

	if styles := dir.Styles(); len(styles) > 0 {
		fmt.Println("styles:")
		for _, name := range styles {
			fmt.Println("  " + name)
		}
	}
	if exts := dir.Extensions(); len(exts) > 0 {
		fmt.Println("extensions:")
		for _, name := range exts {
			fmt.Println("  " + name)
		}
	}
	return nil
}

// logPluginDirectory reports what the configured plugin directory offers.
// The directory is advisory, so a failed fetch is only a warning.
func logPluginDirectory(url string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir, err := plugins.NewClient(url).Fetch(ctx)
	if err != nil {
		slog.Warn("plugin directory unavailable", "url", url, "error", err)
		return
	}
	slog.Info("plugin directory loaded",
		"url", url,
		"styles", len(dir.Styles()),
		"extensions", len(dir.Extensions()),
	)
}

// runServe starts the content server with graceful shutdown.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("starting markpress", "env", cfg.Env, "content_dir", cfg.ContentDir)

	var pageCache *cache.PageCache
	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
		if err != nil {
			// The cache is an optimization; serve without it.
			slog.Warn("continuing without page cache", "error", err)
		} else {
			defer client.Close()
			pageCache = cache.NewPageCache(client, cache.DefaultPageTTL)
		}
	}

	if cfg.PluginDirURL != "" {
		go logPluginDirectory(cfg.PluginDirURL)
	}

	eng, err := engine.New(engine.Options{
		ContentDir:     cfg.ContentDir,
		HighlightStyle: cfg.HighlightStyle,
		PrettyHTML:     cfg.PrettyHTML,
	})
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	public := handlers.NewPublic(eng, pageCache)
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.New(cfg, public),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
