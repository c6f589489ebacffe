// Command lcdctl is a small companion tool for poking the CoolerControl
// daemon by hand: list the devices it exposes, or push a single image to the
// LCD without running the coolerdash daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"coolerdash/coolercontrol"
)

func main() {
	address := flag.String("address", "http://localhost:11987", "CoolerControl daemon address")
	password := flag.String("password", "coolAdmin", "CoolerControl daemon password")
	image := flag.String("image", "", "image file to push to the LCD (omit to just list devices)")
	uid := flag.String("uid", "", "device uid (omit to auto-discover the first Liquidctl device)")
	brightness := flag.Int("brightness", 100, "LCD brightness percent (0-100)")
	orientation := flag.Int("orientation", 0, "LCD orientation (0, 90, 180, 270)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session := coolercontrol.NewSession(*address, *password, nil)
	if err := session.Open(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	if *image == "" {
		devices, err := session.Devices(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "device list failed: %v\n", err)
			os.Exit(1)
		}
		if len(devices) == 0 {
			fmt.Println("no devices reported")
			return
		}
		for _, d := range devices {
			fmt.Printf("%-10s %-30s %s\n", d.Type, d.Name, d.UID)
		}
		return
	}

	target := *uid
	if target == "" {
		device, err := session.DiscoverLiquidctl(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "discovery failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("using %s (uid %s)\n", device.Name, device.UID)
		target = device.UID
	}

	if err := session.UploadImage(ctx, *image, target, *brightness, *orientation); err != nil {
		fmt.Fprintf(os.Stderr, "upload failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("pushed %s to %s\n", *image, target)
}
