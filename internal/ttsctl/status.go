package ttsctl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

func clientFor(cfg *Config) *Client {
	debug("[ttsctl] target=%s timeout=%ds", cfg.Addr, cfg.TimeoutS)
	return NewClient(cfg.Addr, time.Duration(cfg.TimeoutS)*time.Second)
}

func runHealth(cfg *Config) error {
	snap, err := clientFor(cfg).Health(context.Background())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func runState(cfg *Config) error {
	st, err := clientFor(cfg).State(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(string(st))
	return nil
}

func runReload(cfg *Config, wait bool) error {
	c := clientFor(cfg)
	resp, err := c.Reload(context.Background())
	if err != nil {
		return err
	}
	info("[ttsctl] reload accepted, state=%s", resp.State)
	if !wait {
		return nil
	}
	if err := c.WaitReady(context.Background(), time.Duration(cfg.TimeoutS)*time.Second); err != nil {
		return err
	}
	info("[ttsctl] server ready")
	return nil
}

func runWaitReady(cfg *Config) error {
	if err := clientFor(cfg).WaitReady(context.Background(), time.Duration(cfg.TimeoutS)*time.Second); err != nil {
		return err
	}
	info("[ttsctl] server ready")
	return nil
}
