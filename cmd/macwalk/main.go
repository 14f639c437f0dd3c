package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/macwalk/macwalk/application/services"
	"github.com/macwalk/macwalk/infrastructure/config"
	"github.com/macwalk/macwalk/infrastructure/report"
	"github.com/macwalk/macwalk/infrastructure/transport"
)

const defaultConfigName = "macwalk.yaml"

var (
	version   = "dev"
	buildTime = "unknown"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  --config string    YAML configuration file (default \"macwalk.yaml\")\n")
	fmt.Fprintf(os.Stderr, "  --target string    Scan a single device (inventory target or name)\n")
	fmt.Fprintf(os.Stderr, "  --check            Probe device connectivity instead of scanning\n")
	fmt.Fprintf(os.Stderr, "  --csv string       CSV output path (default \"mac_addresses_<timestamp>.csv\")\n")
	fmt.Fprintf(os.Stderr, "  --workers int      Concurrent device scans (overrides YAML workers)\n")
	fmt.Fprintf(os.Stderr, "  --verbose int      Verbosity level: 0=none, 1=debug logs, 2=raw switch output, 3=debug+raw output\n")
	fmt.Fprintf(os.Stderr, "  --syslog           Send run logs to the local syslog daemon\n")
	fmt.Fprintf(os.Stderr, "  --version          Print version and exit\n")
}

// findConfigFile resolves the configuration path. An explicit --config value
// is used as-is; the default name is searched in the local directory and the
// OS-specific configuration locations.
func findConfigFile(yamlFile string, verbosity int) (string, error) {
	if yamlFile != defaultConfigName {
		return yamlFile, nil
	}

	possiblePaths := []string{
		filepath.Join(".", defaultConfigName),
	}

	if runtime.GOOS == "linux" {
		if userConfigDir, err := os.UserConfigDir(); err == nil {
			possiblePaths = append(possiblePaths, filepath.Join(userConfigDir, "macwalk", defaultConfigName))
		}
		possiblePaths = append(possiblePaths, filepath.Join("/etc/macwalk", defaultConfigName))
	} else if runtime.GOOS == "windows" {
		if appDataDir := os.Getenv("APPDATA"); appDataDir != "" {
			possiblePaths = append(possiblePaths, filepath.Join(appDataDir, "macwalk", defaultConfigName))
		}
		if programDataDir := os.Getenv("ProgramData"); programDataDir != "" {
			possiblePaths = append(possiblePaths, filepath.Join(programDataDir, "macwalk", defaultConfigName))
		}
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if verbosity >= 1 {
				fmt.Printf("DEBUG: Configuration file found at %s\n", path)
			}
			return path, nil
		}
	}

	if runtime.GOOS == "windows" {
		return "", fmt.Errorf("no %s file found in ./, %%APPDATA%%\\macwalk\\, or %%ProgramData%%\\macwalk\\", defaultConfigName)
	}
	return "", fmt.Errorf("no %s file found in ./, ~/.config/macwalk/, or /etc/macwalk/", defaultConfigName)
}

func main() {
	flag.Usage = printUsage
	yamlFile := flag.String("config", defaultConfigName, "YAML configuration file")
	host := flag.String("target", "", "Scan a single device (inventory target or name)")
	check := flag.Bool("check", false, "Probe device connectivity instead of scanning")
	csvPath := flag.String("csv", "", "CSV output path")
	workers := flag.Int("workers", 0, "Concurrent device scans (overrides YAML workers)")
	verbosity := flag.Int("verbose", 0, "Verbosity level: 0=none, 1=debug logs, 2=raw switch output, 3=debug+raw output")
	useSyslog := flag.Bool("syslog", false, "Send run logs to the local syslog daemon")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	fmt.Printf("macwalk %s (built %s)\n", version, buildTime)
	if *showVersion {
		return
	}

	// Validate verbosity level
	if *verbosity < 0 || *verbosity > 3 {
		fmt.Fprintf(os.Stderr, "Error: --verbose must be 0, 1, 2, or 3\n")
		flag.Usage()
		os.Exit(1)
	}

	if *workers < 0 {
		fmt.Fprintf(os.Stderr, "Error: --workers must not be negative\n")
		flag.Usage()
		os.Exit(1)
	}

	configPath, err := findConfigFile(*yamlFile, *verbosity)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	// Load configuration, passing the target filter and verbosity so DEBUG
	// logging covers inheritance decisions
	cfg, err := config.Load(configPath, *host, *verbosity)
	if err != nil {
		log.Fatal(err)
	}
	defer transport.CloseAll()

	if *workers > 0 {
		cfg.Workers = *workers
	}

	svc, err := services.NewScanApplicationService(cfg.Devices, transport.NewSessionFactory(), services.Options{
		Workers: cfg.Workers,
		Syslog:  *useSyslog,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	if *check {
		report.WriteProbeTable(os.Stdout, svc.Check(ctx))
		return
	}

	result := svc.Scan(ctx)
	report.WriteDeviceTables(os.Stdout, result.Results)

	outPath, err := report.ExportCSV(*csvPath, result.Results)
	if err != nil {
		log.Fatalf("Error: failed to write CSV: %v", err)
	}
	fmt.Printf("Results written to %s\n", outPath)

	report.WriteSummary(os.Stdout, result.RunID, result.Summary)
}
