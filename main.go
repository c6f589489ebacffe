// Program coolerdash renders a CPU/GPU temperature dashboard as a PNG and
// pushes it to an AIO liquid cooler LCD through the local CoolerControl
// daemon's REST API. It wires together the hwmon/nvidia-smi sensors, the
// change gate, the image composer, and the authenticated upload session.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coolerdash/config"
	"coolerdash/coolercontrol"
	"coolerdash/display"
	"coolerdash/sensors"
)

const (
	defaultConfigPath = "/etc/coolerdash/config.yaml"
	envConfigPath     = "COOLERDASH_CONFIG_PATH"

	statsInterval   = 5 * time.Minute
	shutdownTimeout = 5 * time.Second
)

var version = "dev"

func main() {
	os.Exit(run())
}

// Purpose: Full daemon lifecycle from flag parsing to shutdown image.
// Key aspects: Session init and device discovery failures abort startup with
// exit code 1; the signal handler only ends the loop, all shutdown work
// happens on the main goroutine afterwards.
// Upstream: main.
// Downstream: config.Load, coolercontrol.Session, pipeline.Tick.
func run() int {
	configPath := defaultConfigPath
	if env := os.Getenv(envConfigPath); env != "" {
		configPath = env
	}
	flag.StringVar(&configPath, "config", configPath, "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("coolerdash %s\n", version)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	fanout, err := setupLogging(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging: file sink disabled: %v\n", err)
	}
	defer fanout.Close()
	log.SetFlags(0)
	log.SetOutput(fanout)

	log.Printf("coolerdash %s starting", version)
	if runningUnderSystemd() {
		log.Println("Running under systemd supervision")
	}
	cfg.Print()

	if err := writePIDFile(cfg.Paths.PIDFile); err != nil {
		log.Printf("Startup aborted: %v", err)
		return 1
	}
	defer removePIDFile(cfg.Paths.PIDFile)

	cpu := sensors.NewCPUSensor(cfg.Paths.Hwmon)
	coolant := sensors.NewCoolantSensor(cfg.Paths.Hwmon)
	gpu := sensors.NewGPUSensor(cfg.GPUCacheInterval())
	if !cpu.Available() {
		log.Printf("Warning: no CPU package sensor found under %s; CPU shows 0", cfg.Paths.Hwmon)
	}
	if !gpu.Available() {
		log.Println("Warning: nvidia-smi not usable; GPU shows 0")
	}
	if coolant.Available() {
		log.Println("Coolant sensor found")
	}

	composer, err := display.NewComposer(cfg)
	if err != nil {
		log.Printf("Renderer init failed: %v", err)
		return 1
	}

	logger := log.New(fanout, "", 0)
	session := coolercontrol.NewSession(cfg.Daemon.Address, cfg.Daemon.Password, logger)
	ctx := context.Background()
	if err := session.Open(ctx); err != nil {
		log.Printf("CoolerControl session failed: %v", err)
		return 1
	}
	defer session.Close()

	uid, name, err := resolveDeviceUID(ctx, session, coolercontrol.NewUIDCache(cfg.Paths.UIDCacheDir))
	if err != nil {
		log.Printf("LCD device discovery failed: %v", err)
		return 1
	}
	if name != "" {
		log.Printf("Using LCD device %q (uid %s)", name, uid)
	} else {
		log.Printf("Using cached LCD device uid %s", uid)
	}

	pipe := &pipeline{
		cfg:      cfg,
		gate:     display.NewGate(),
		composer: composer,
		sample: func() sensors.Snapshot {
			return sensors.Snapshot{
				CPUTemp:     cpu.Read(),
				GPUTemp:     gpu.Read(),
				CoolantTemp: coolant.Read(),
			}
		},
		upload: func(ctx context.Context, imagePath string) error {
			return session.UploadImage(ctx, imagePath, uid, cfg.Display.Brightness, cfg.Display.Orientation)
		},
		logger: logger,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Printf("Refreshing LCD every %s. Press Ctrl+C to stop.", cfg.RefreshInterval())

	ticker := time.NewTicker(cfg.RefreshInterval())
	defer ticker.Stop()
	statsTicker := time.NewTicker(statsInterval)
	defer statsTicker.Stop()

	if err := pipe.Tick(ctx); err != nil {
		log.Printf("Update failed: %v", err)
	}

loop:
	for {
		select {
		case sig := <-sigChan:
			log.Printf("Received signal: %v", sig)
			break loop
		case <-statsTicker.C:
			log.Printf("Stats: %s", pipe.Stats())
		case <-ticker.C:
			if err := pipe.Tick(ctx); err != nil {
				log.Printf("Update failed: %v", err)
			}
		}
	}

	log.Println("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := pipe.SendShutdownImage(shutdownCtx); err != nil {
		log.Printf("Shutdown image send failed: %v", err)
	}
	log.Printf("Final stats: %s", pipe.Stats())
	return 0
}

// Purpose: Produce a validated device UID, preferring the on-disk cache.
// Key aspects: A cached UID is always revalidated against the live device
// list; only a definitive "not listed" answer clears the cache, transport
// errors keep it for the next run. Discovery also reports the device name
// for the startup log.
// Upstream: run.
// Downstream: coolercontrol.UIDCache, Session.ValidateUID, DiscoverLiquidctl.
func resolveDeviceUID(ctx context.Context, session *coolercontrol.Session, cache *coolercontrol.UIDCache) (uid, name string, err error) {
	if cached, ok := cache.Load(); ok {
		valid, verr := session.ValidateUID(ctx, cached)
		if verr != nil {
			return "", "", fmt.Errorf("validate cached uid: %w", verr)
		}
		if valid {
			return cached, "", nil
		}
		cache.Clear()
	}
	device, err := session.DiscoverLiquidctl(ctx)
	if err != nil {
		return "", "", err
	}
	if err := cache.Save(device.UID); err != nil {
		// Discovery worked; a failed cache write only costs the next
		// startup an extra round trip.
		fmt.Fprintf(os.Stderr, "Warning: could not cache device uid: %v\n", err)
	}
	return device.UID, device.Name, nil
}
