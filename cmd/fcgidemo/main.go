// Command fcgidemo sends one request to a FastCGI server (PHP-FPM or
// compatible) and prints the captured response. It exists to exercise
// fcgiclient end to end against a real server; it is not part of the
// library's public API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/gofcgi/fcgiclient"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9000", "network address of the FastCGI server")
	network := flag.String("network", "tcp", "network: tcp or unix")
	script := flag.String("script", "/var/www/html/index.php", "SCRIPT_FILENAME to request")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	if err := run(logger, *network, *addr, *script); err != nil {
		logger.Error("request failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, network, addr, script string) error {
	cfg := fcgiclient.DefaultConfig()
	client, err := fcgiclient.Dial(context.Background(), network, addr, cfg, fcgiclient.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer client.Close()

	params := fcgiclient.NewParams().
		RequestMethod("GET").
		ScriptFilename(script).
		ScriptName(script).
		RequestURI(script)

	resp, err := client.ExecuteOnce(context.Background(), &fcgiclient.Request{Params: params})
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}

	fmt.Printf("app_status=%d protocol_status=%d\n", resp.AppStatus, resp.ProtocolStatus)
	if len(resp.Stderr) > 0 {
		fmt.Fprintf(os.Stderr, "stderr:\n%s\n", resp.Stderr)
	}
	os.Stdout.Write(resp.Stdout)
	return nil
}
