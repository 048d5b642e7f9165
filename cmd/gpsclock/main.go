package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gpsclock/internal/config"
	"gpsclock/internal/gps"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./gpsclock.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc := gps.New(serviceConfig(cfg))
	if err := svc.Start(ctx); err != nil {
		log.Fatalf("gps service start failed: %v", err)
	}
	defer svc.Close()

	log.Printf("gpsclock starting")
	log.Printf("gps source=%s device=%s baud=%d utc_offset=%+d",
		cfg.GPS.Source, cfg.GPS.Device, cfg.GPS.Baud, cfg.Clock.UTCOffsetHours)

	ticker := time.NewTicker(time.Duration(cfg.Clock.StatusIntervalSec) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("gpsclock stopping")
			return
		case <-ticker.C:
			logStatus(svc.Snapshot())
		}
	}
}

func serviceConfig(cfg config.Config) gps.Config {
	return gps.Config{
		Enable:         cfg.GPS.Enable,
		Source:         cfg.GPS.Source,
		Device:         cfg.GPS.Device,
		Baud:           cfg.GPS.Baud,
		UTCOffsetHours: cfg.Clock.UTCOffsetHours,
		Sim: gps.SimConfig{
			CenterLatDeg: cfg.GPS.Sim.CenterLatDeg,
			CenterLonDeg: cfg.GPS.Sim.CenterLonDeg,
			RadiusNm:     cfg.GPS.Sim.RadiusNm,
			Period:       time.Duration(cfg.GPS.Sim.PeriodSec) * time.Second,
			GroundKt:     cfg.GPS.Sim.GroundKt,
			SatsInUse:    cfg.GPS.Sim.SatsInUse,
			SatsInView:   cfg.GPS.Sim.SatsInView,
			Interval:     time.Duration(cfg.GPS.Sim.IntervalMs) * time.Millisecond,
		},
	}
}

func logStatus(snap gps.Snapshot) {
	if !snap.Enabled {
		log.Printf("gps disabled")
		return
	}
	if snap.LastError != "" {
		log.Printf("gps error: %s", snap.LastError)
	}
	log.Printf("time=%s date=%s fix=%v type=%s sats=%d/%d grid=%s utm=%q clean=%d parsed=%d crc_fails=%d",
		snap.Time, snap.Date, snap.Valid, snap.FixType,
		snap.SatsInUse, snap.SatsInView,
		snap.Maidenhead, snap.UTM,
		snap.CleanSentences, snap.ParsedSentences, snap.CRCFails)
}
