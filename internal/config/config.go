package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GPS   GPSConfig   `yaml:"gps"`
	Clock ClockConfig `yaml:"clock"`
}

type GPSConfig struct {
	Enable bool      `yaml:"enable"`
	Source string    `yaml:"source"`
	Device string    `yaml:"device"`
	Baud   int       `yaml:"baud"`
	Sim    SimConfig `yaml:"sim"`
}

type SimConfig struct {
	CenterLatDeg float64 `yaml:"center_lat_deg"`
	CenterLonDeg float64 `yaml:"center_lon_deg"`
	RadiusNm     float64 `yaml:"radius_nm"`
	PeriodSec    int     `yaml:"period_sec"`
	GroundKt     int     `yaml:"ground_kt"`
	SatsInUse    int     `yaml:"sats_in_use"`
	SatsInView   int     `yaml:"sats_in_view"`
	IntervalMs   int     `yaml:"interval_ms"`
}

type ClockConfig struct {
	// UTCOffsetHours only shifts the formatted time/date strings; the
	// receiver core itself stays in UTC.
	UTCOffsetHours    int `yaml:"utc_offset_hours"`
	StatusIntervalSec int `yaml:"status_interval_sec"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.GPS.Source == "" {
		cfg.GPS.Source = "serial"
	}
	if cfg.GPS.Source != "serial" && cfg.GPS.Source != "sim" {
		return Config{}, fmt.Errorf("gps.source must be 'serial' or 'sim'")
	}
	if cfg.GPS.Baud == 0 {
		cfg.GPS.Baud = 9600
	}

	// Simulator defaults (safe even if disabled).
	if cfg.GPS.Sim.RadiusNm <= 0 {
		cfg.GPS.Sim.RadiusNm = 0.5
	}
	if cfg.GPS.Sim.PeriodSec <= 0 {
		cfg.GPS.Sim.PeriodSec = 120
	}
	if cfg.GPS.Sim.GroundKt <= 0 {
		cfg.GPS.Sim.GroundKt = 4
	}
	if cfg.GPS.Sim.SatsInUse <= 0 {
		cfg.GPS.Sim.SatsInUse = 8
	}
	if cfg.GPS.Sim.SatsInView < cfg.GPS.Sim.SatsInUse {
		cfg.GPS.Sim.SatsInView = cfg.GPS.Sim.SatsInUse + 2
	}
	if cfg.GPS.Sim.IntervalMs <= 0 {
		cfg.GPS.Sim.IntervalMs = 1000
	}

	if cfg.Clock.UTCOffsetHours < -12 || cfg.Clock.UTCOffsetHours > 14 {
		return Config{}, fmt.Errorf("clock.utc_offset_hours must be within [-12, 14]")
	}
	if cfg.Clock.StatusIntervalSec <= 0 {
		cfg.Clock.StatusIntervalSec = 1
	}

	return cfg, nil
}
