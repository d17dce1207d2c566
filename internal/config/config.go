// Package config loads device configuration from file, environment and
// defaults. The loaded value is immutable; restart to apply changes.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/mankin3n/cryptowallet-ST7789/internal/nav"
)

const (
	ConfigName = "cryptowallet"
	EnvPrefix  = "CRYPTOWALLET"
)

var errConfigRead = errors.New("config read failed")

type DisplayConfig struct {
	SPIPort       string `mapstructure:"spi_port"`
	SPIHz         int64  `mapstructure:"spi_hz"`
	ResetPin      string `mapstructure:"reset_pin"`
	DCPin         string `mapstructure:"dc_pin"`
	CSPin         string `mapstructure:"cs_pin"`
	BacklightPin  string `mapstructure:"backlight_pin"`
	BacklightPath string `mapstructure:"backlight_path"`
}

type JoystickConfig struct {
	SPIPort   string `mapstructure:"spi_port"`
	XChannel  int    `mapstructure:"x_channel"`
	YChannel  int    `mapstructure:"y_channel"`
	ButtonPin string `mapstructure:"button_pin"`
	PollHz    int    `mapstructure:"poll_hz"`
}

type UIConfig struct {
	Brightness     int    `mapstructure:"brightness"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Language       string `mapstructure:"language"`
	FontPath       string `mapstructure:"font_path"`
}

type PreviewConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

type WalletConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}

type Config struct {
	Display  DisplayConfig  `mapstructure:"display"`
	Joystick JoystickConfig `mapstructure:"joystick"`
	UI       UIConfig       `mapstructure:"ui"`
	Preview  PreviewConfig  `mapstructure:"preview"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
}

// Load reads the config file (optional), applies environment overrides
// and validates the result. An empty path searches the working directory
// and /etc/cryptowallet.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cryptowallet")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return Config{}, errors.Join(err, errConfigRead)
		}
		// No file anywhere on the search path; defaults and env carry it.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Join(err, errConfigRead)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("display.spi_port", "SPI0.0")
	v.SetDefault("display.spi_hz", 40_000_000)
	v.SetDefault("display.reset_pin", "GPIO27")
	v.SetDefault("display.dc_pin", "GPIO25")
	v.SetDefault("display.cs_pin", "GPIO8")
	v.SetDefault("display.backlight_pin", "GPIO18")
	v.SetDefault("display.backlight_path", "/sys/class/backlight/backlight/brightness")
	v.SetDefault("joystick.spi_port", "SPI1.0")
	v.SetDefault("joystick.x_channel", 0)
	v.SetDefault("joystick.y_channel", 1)
	v.SetDefault("joystick.button_pin", "GPIO17")
	v.SetDefault("joystick.poll_hz", 50)
	v.SetDefault("ui.brightness", 80)
	v.SetDefault("ui.timeout_seconds", 120)
	v.SetDefault("ui.language", "en")
	v.SetDefault("ui.font_path", "")
	v.SetDefault("preview.enabled", false)
	v.SetDefault("preview.listen", ":8089")
	v.SetDefault("wallet.seed_file", "/etc/cryptowallet/seed")
}

func (c Config) validate() error {
	if c.UI.Brightness < nav.BrightnessMin || c.UI.Brightness > nav.BrightnessMax {
		return fmt.Errorf("config: ui.brightness %d outside [%d,%d]", c.UI.Brightness, nav.BrightnessMin, nav.BrightnessMax)
	}
	if c.UI.TimeoutSeconds < nav.TimeoutMin || c.UI.TimeoutSeconds > nav.TimeoutMax {
		return fmt.Errorf("config: ui.timeout_seconds %d outside [%d,%d]", c.UI.TimeoutSeconds, nav.TimeoutMin, nav.TimeoutMax)
	}
	if !nav.LanguageValid(c.UI.Language) {
		return fmt.Errorf("config: ui.language %q not supported", c.UI.Language)
	}
	if c.Joystick.PollHz <= 0 || c.Joystick.PollHz > 1000 {
		return fmt.Errorf("config: joystick.poll_hz %d outside (0,1000]", c.Joystick.PollHz)
	}
	if ch := c.Joystick.XChannel; ch < 0 || ch > 7 {
		return fmt.Errorf("config: joystick.x_channel %d outside [0,7]", ch)
	}
	if ch := c.Joystick.YChannel; ch < 0 || ch > 7 {
		return fmt.Errorf("config: joystick.y_channel %d outside [0,7]", ch)
	}
	return nil
}
