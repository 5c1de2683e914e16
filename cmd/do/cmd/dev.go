package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	var (
		port      int
		proxyPort int
		migrate   bool
	)

	c := &cobra.Command{
		Use:   "dev",
		Short: "Run the server under air with hot reload",
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrate {
				if err := migrateUp(); err != nil {
					return err
				}
			}
			return runDev(port, proxyPort)
		},
	}

	c.Flags().IntVar(&port, "port", 8090, "port the server listens on")
	c.Flags().IntVar(&proxyPort, "proxy-port", 8080, "air proxy port (0 disables the proxy)")
	c.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before starting")
	return c
}

func runDev(port, proxyPort int) error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("Missing binary: air")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return errors.New("air not found")
	}

	if Stale("bin/do", "cmd/do") {
		build := exec.Command("go", "build", "-o", "bin/do", "./cmd/do")
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		if err := build.Run(); err != nil {
			return fmt.Errorf("failed to build do: %w", err)
		}
	}

	airArgs := []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "./bin/do gen && go build -o ./tmp/server ./cmd/server",
		"-build.bin", "./tmp/server",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,tmp,data",
		"-build.exclude_regex", "_test.go$,_templ.go$",
		"-build.include_ext", "go,sql,md,templ",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
	}
	if proxyPort > 0 {
		airArgs = append(airArgs,
			"-proxy.enabled", "true",
			"-proxy.proxy_port", strconv.Itoa(proxyPort),
			"-proxy.app_port", strconv.Itoa(port),
		)
	}

	env := append(os.Environ(), "PORT="+strconv.Itoa(port))
	return syscall.Exec(airPath, airArgs, env)
}
