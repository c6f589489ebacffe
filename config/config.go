package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete daemon configuration
type Config struct {
	Display     DisplayConfig     `yaml:"display"`
	Layout      LayoutConfig      `yaml:"layout"`
	Font        FontConfig        `yaml:"font"`
	Temperature TemperatureConfig `yaml:"temperature"`
	Cache       CacheConfig       `yaml:"cache"`
	Paths       PathsConfig       `yaml:"paths"`
	Daemon      DaemonConfig      `yaml:"daemon"`
	Colors      ColorsConfig      `yaml:"colors"`
	Logging     LoggingConfig     `yaml:"logging"`

	// LoadedFrom records the file the configuration was read from, or ""
	// when running entirely on defaults.
	LoadedFrom string `yaml:"-"`
}

// DisplayConfig contains LCD panel settings
type DisplayConfig struct {
	Width              int     `yaml:"width"`
	Height             int     `yaml:"height"`
	RefreshIntervalSec float64 `yaml:"refresh_interval_sec"`
	Brightness         int     `yaml:"brightness"`
	Orientation        int     `yaml:"orientation"`
}

// LayoutConfig contains the two-box dashboard geometry
type LayoutConfig struct {
	BoxWidth        int     `yaml:"box_width"`
	BoxHeight       int     `yaml:"box_height"`
	BoxGap          int     `yaml:"box_gap"`
	BarWidth        int     `yaml:"bar_width"`
	BarHeight       int     `yaml:"bar_height"`
	BarGap          int     `yaml:"bar_gap"`
	BorderLineWidth float64 `yaml:"border_line_width"`
}

// FontConfig contains font face and sizes. Face is a path to a TTF file;
// when empty the embedded Go Bold face is used.
type FontConfig struct {
	Face       string  `yaml:"face"`
	SizeLarge  float64 `yaml:"size_large"`
	SizeLabels float64 `yaml:"size_labels"`
}

// TemperatureConfig contains the gradient thresholds in degrees Celsius
type TemperatureConfig struct {
	ThresholdGreen  float64 `yaml:"threshold_green"`
	ThresholdOrange float64 `yaml:"threshold_orange"`
	ThresholdRed    float64 `yaml:"threshold_red"`
}

// CacheConfig contains sensor caching and redraw hysteresis settings
type CacheConfig struct {
	GPUIntervalSec      float64 `yaml:"gpu_interval_sec"`
	ChangeToleranceTemp float64 `yaml:"change_tolerance_temp"`
}

// PathsConfig contains filesystem locations used by the daemon
type PathsConfig struct {
	Hwmon         string `yaml:"hwmon"`
	ImageDir      string `yaml:"image_dir"`
	ImagePath     string `yaml:"image_path"`
	ShutdownImage string `yaml:"shutdown_image"`
	PIDFile       string `yaml:"pid_file"`
	UIDCacheDir   string `yaml:"uid_cache_dir"`
}

// DaemonConfig contains CoolerControl daemon API settings
type DaemonConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
}

// RGB is an 8-bit color triple
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// ColorsConfig contains the four gradient buckets plus chrome colors
type ColorsConfig struct {
	Green     RGB `yaml:"green"`
	Orange    RGB `yaml:"orange"`
	HotOrange RGB `yaml:"hot_orange"`
	Red       RGB `yaml:"red"`
	Temp      RGB `yaml:"temp"`
	Label     RGB `yaml:"label"`
	Bg        RGB `yaml:"bg"`
	Border    RGB `yaml:"border"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	File string `yaml:"file"`
}

// Default returns the built-in configuration matching a 240x240 AIO LCD.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:              240,
			Height:             240,
			RefreshIntervalSec: 2.5,
			Brightness:         100,
			Orientation:        0,
		},
		Layout: LayoutConfig{
			BoxWidth:        70,
			BoxHeight:       60,
			BoxGap:          10,
			BarWidth:        220,
			BarHeight:       30,
			BarGap:          6,
			BorderLineWidth: 1.5,
		},
		Font: FontConfig{
			Face:       "",
			SizeLarge:  90,
			SizeLabels: 22,
		},
		Temperature: TemperatureConfig{
			ThresholdGreen:  55,
			ThresholdOrange: 65,
			ThresholdRed:    75,
		},
		Cache: CacheConfig{
			GPUIntervalSec:      2,
			ChangeToleranceTemp: 0.1,
		},
		Paths: PathsConfig{
			Hwmon:         "/sys/class/hwmon",
			ImageDir:      "/opt/coolerdash/image",
			ImagePath:     "/opt/coolerdash/image/cpu_gpu_temp.png",
			ShutdownImage: "/opt/coolerdash/images/face.png",
			PIDFile:       "/var/run/coolerdash.pid",
			UIDCacheDir:   "/var/cache/coolerdash",
		},
		Daemon: DaemonConfig{
			Address:  "http://localhost:11987",
			Password: "coolAdmin",
		},
		Colors: ColorsConfig{
			Green:     RGB{R: 0, G: 255, B: 0},
			Orange:    RGB{R: 255, G: 140, B: 0},
			HotOrange: RGB{R: 255, G: 70, B: 0},
			Red:       RGB{R: 255, G: 0, B: 0},
			Temp:      RGB{R: 255, G: 255, B: 255},
			Label:     RGB{R: 200, G: 200, B: 200},
			Bg:        RGB{R: 41, G: 41, B: 41},
			Border:    RGB{R: 20, G: 20, B: 20},
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults.
// A missing file is not an error: the defaults are returned unchanged.
func Load(filename string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.LoadedFrom = filename
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects geometry and daemon settings the renderer or uploader
// cannot work with.
func (c *Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display: width and height must be positive (got %dx%d)", c.Display.Width, c.Display.Height)
	}
	if c.Display.RefreshIntervalSec <= 0 {
		return fmt.Errorf("display: refresh_interval_sec must be positive")
	}
	if c.Display.Brightness < 0 || c.Display.Brightness > 100 {
		return fmt.Errorf("display: brightness must be 0-100 (got %d)", c.Display.Brightness)
	}
	switch c.Display.Orientation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("display: orientation must be 0, 90, 180 or 270 (got %d)", c.Display.Orientation)
	}
	if c.Layout.BarWidth <= 0 || c.Layout.BarHeight <= 0 {
		return fmt.Errorf("layout: bar dimensions must be positive")
	}
	if c.Layout.BarWidth > c.Display.Width {
		return fmt.Errorf("layout: bar_width %d exceeds display width %d", c.Layout.BarWidth, c.Display.Width)
	}
	if !(c.Temperature.ThresholdGreen <= c.Temperature.ThresholdOrange && c.Temperature.ThresholdOrange <= c.Temperature.ThresholdRed) {
		return fmt.Errorf("temperature: thresholds must be ascending (green <= orange <= red)")
	}
	if c.Cache.ChangeToleranceTemp < 0 {
		return fmt.Errorf("cache: change_tolerance_temp must not be negative")
	}
	if c.Daemon.Address == "" {
		return fmt.Errorf("daemon: address is required")
	}
	if c.Paths.ImagePath == "" {
		return fmt.Errorf("paths: image_path is required")
	}
	return nil
}

// RefreshInterval returns the tick period as a time.Duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Display.RefreshIntervalSec * float64(time.Second))
}

// GPUCacheInterval returns the GPU sensor cache period as a time.Duration.
func (c *Config) GPUCacheInterval() time.Duration {
	return time.Duration(c.Cache.GPUIntervalSec * float64(time.Second))
}

// Print displays the effective configuration
func (c *Config) Print() {
	source := c.LoadedFrom
	if source == "" {
		source = "<defaults>"
	}
	fmt.Printf("Config: %s\n", source)
	fmt.Printf("Display: %dx%d, refresh every %.1fs, brightness %d%%, orientation %d\n",
		c.Display.Width, c.Display.Height, c.Display.RefreshIntervalSec, c.Display.Brightness, c.Display.Orientation)
	fmt.Printf("Thresholds: green<=%.0f orange<=%.0f red<=%.0f (tolerance %.1f)\n",
		c.Temperature.ThresholdGreen, c.Temperature.ThresholdOrange, c.Temperature.ThresholdRed,
		c.Cache.ChangeToleranceTemp)
	fmt.Printf("Daemon: %s\n", c.Daemon.Address)
	fmt.Printf("Image: %s\n", c.Paths.ImagePath)
}
