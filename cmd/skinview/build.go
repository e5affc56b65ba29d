package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/recera/skinview/cmd/skinview/internal/config"
	"github.com/recera/skinview/cmd/skinview/internal/page"
	"github.com/recera/skinview/internal/cache"
	"github.com/spf13/cobra"
)

func newBuildCommand() *cobra.Command {
	var cwd string
	var output string
	var tinygo bool
	var noCache bool
	var site bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the WASM client",
		Long: `Compiles the WASM client with Go or TinyGo. Unchanged sources are served
from the build cache. With --site the output directory also receives
index.html and wasm_exec.js so it can be deployed as a static site.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cwd)
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Build.Output = output
			}
			if cmd.Flags().Changed("tinygo") {
				cfg.Build.TinyGo = tinygo
			}

			if err := buildClient(cfg.Build, !noCache); err != nil {
				return err
			}
			if site {
				return writeSite(cfg)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cwd, "cwd", "", "Project directory (defaults to current)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output WASM file")
	cmd.Flags().BoolVar(&tinygo, "tinygo", false, "Build with TinyGo")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Always rebuild")
	cmd.Flags().BoolVar(&site, "site", false, "Write index.html and wasm_exec.js next to the output")

	return cmd
}

// buildClient compiles the WASM client described by bc, reusing a cached
// artifact when the sources have not changed
func buildClient(bc *config.BuildConfig, useCache bool) error {
	if err := os.MkdirAll(filepath.Dir(bc.Output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var buildCache *cache.Cache
	var cacheKey string
	if useCache {
		c, err := cache.New(cache.DefaultConfig())
		if err != nil {
			log.Printf("⚠️  Failed to initialize build cache: %v", err)
		} else {
			key, err := cache.SourceKey([]string{bc.Client, "pkg"}, toolchainVersion(bc.TinyGo))
			if err != nil {
				log.Printf("⚠️  Cache key generation failed: %v", err)
			} else {
				buildCache, cacheKey = c, key
			}
		}
	}

	if buildCache != nil {
		if data, found := buildCache.Get(cacheKey); found {
			if err := os.WriteFile(bc.Output, data, 0644); err == nil {
				log.Println("⚡ Using cached WASM build")
				reportSize(bc.Output)
				return nil
			}
		}
	}

	if err := compileWASM(bc); err != nil {
		return err
	}

	if buildCache != nil {
		if data, err := os.ReadFile(bc.Output); err == nil {
			if err := buildCache.Put(cacheKey, data); err != nil {
				log.Printf("⚠️  Failed to cache WASM build: %v", err)
			} else {
				log.Println("💾 Cached WASM build")
			}
		}
	}

	reportSize(bc.Output)
	return nil
}

func compileWASM(bc *config.BuildConfig) error {
	if bc.TinyGo {
		log.Println("🔨 Building WASM with TinyGo...")
		cmd := exec.Command("tinygo", "build",
			"-o", bc.Output,
			"-target", "wasm",
			"-no-debug",
			"-opt", "2",
			bc.Client,
		)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("TinyGo build failed: %w\nOutput: %s", err, output)
		}
		return nil
	}

	log.Println("🔨 Building WASM...")
	cmd := exec.Command("go", "build", "-trimpath", "-ldflags", "-s -w", "-o", bc.Output, bc.Client)
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("WASM build failed: %w\nOutput: %s", err, output)
	}
	return nil
}

// writeSite places index.html and wasm_exec.js next to the built client
func writeSite(cfg *config.Config) error {
	dir := filepath.Dir(cfg.Build.Output)

	var buf bytes.Buffer
	err := page.Render(&buf, page.Options{
		ViewerScript: cfg.Server.ViewerScript,
		WasmPath:     filepath.ToSlash(filepath.Base(cfg.Build.Output)),
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write index.html: %w", err)
	}

	content, err := readWasmExec(cfg.Build.TinyGo)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "wasm_exec.js"), content, 0644); err != nil {
		return fmt.Errorf("failed to write wasm_exec.js: %w", err)
	}

	log.Printf("✨ Site written to %s", dir)
	return nil
}

// readWasmExec loads the wasm_exec.js shim matching the toolchain
func readWasmExec(tinygo bool) ([]byte, error) {
	if tinygo {
		root, err := exec.Command("tinygo", "env", "TINYGOROOT").Output()
		if err != nil {
			return nil, fmt.Errorf("failed to get TinyGo root: %w", err)
		}
		return os.ReadFile(filepath.Join(strings.TrimSpace(string(root)), "targets", "wasm_exec.js"))
	}

	root, err := exec.Command("go", "env", "GOROOT").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get GOROOT: %w", err)
	}
	goroot := strings.TrimSpace(string(root))
	// Go 1.24 moved the shim from misc/wasm to lib/wasm
	for _, rel := range []string{"lib/wasm/wasm_exec.js", "misc/wasm/wasm_exec.js"} {
		if content, err := os.ReadFile(filepath.Join(goroot, rel)); err == nil {
			return content, nil
		}
	}
	return nil, fmt.Errorf("wasm_exec.js not found under %s", goroot)
}

func toolchainVersion(tinygo bool) string {
	name := "go"
	if tinygo {
		name = "tinygo"
	}
	output, err := exec.Command(name, "version").Output()
	if err != nil {
		return name + " unknown"
	}
	return strings.TrimSpace(string(output))
}

func reportSize(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	log.Printf("📦 WASM size: %s (%s gzip)", formatSize(info.Size()), formatSize(gzippedSize(path)))
}

func gzippedSize(path string) int64 {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write(content)
	gz.Close()

	return int64(buf.Len())
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
