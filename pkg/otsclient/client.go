// Package otsclient wires pkg/ots's Verifier, Upgrader, and Stamper to
// their default collaborator implementations (internal/blockexplorer,
// internal/calendar, internal/receipts) configured from internal/config,
// and builds an internal/logging Logger from the same config. The Logger
// is exposed on Client; the Verifier, Upgrader, and Stamper do not log.
// pkg/ots itself cannot do this wiring:
// internal/blockexplorer and internal/calendar both import pkg/ots for its
// collaborator interfaces and shared types, so a package gluing them
// together has to live above pkg/ots rather than inside it.
package otsclient

import (
	"fmt"
	"io"

	"otsgo/internal/blockexplorer"
	"otsgo/internal/calendar"
	"otsgo/internal/config"
	"otsgo/internal/logging"
	"otsgo/internal/receipts"
	"otsgo/pkg/ots"
)

// Client bundles a Verifier, Upgrader, and Stamper constructed from a
// single Config, plus the receipts store they share and a Logger built
// from the Config's logging section, so a
// caller can stamp, upgrade, and verify without wiring collaborators by
// hand.
type Client struct {
	Verifier *ots.Verifier
	Upgrader *ots.Upgrader
	Stamper  *ots.Stamper
	Limits   ots.Limits

	Logger   *logging.Logger
	receipts *receipts.Store
}

// New builds a Client from cfg. If cfg.Receipts.Enabled, it opens the
// SQLite receipts store at cfg.Receipts.Path and wires it into both the
// Upgrader and the Stamper; Close must be called to release it.
func New(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("otsclient: invalid config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("otsclient: %w", err)
	}
	format := logging.FormatText
	if cfg.Logging.Format == "json" {
		format = logging.FormatJSON
	}
	logger := logging.New(&logging.Config{
		Level:     level,
		Format:    format,
		Output:    cfg.Logging.Output,
		Component: "otsgo",
	})

	explorer := blockexplorer.New(cfg.BlockExplorers.BaseURLs, cfg.BlockExplorers.Timeout())
	cal := calendar.New(cfg.Calendars.SubmitTimeout(), cfg.Calendars.UpgradeTimeout(), cfg.Limits.MaxCalendarResponseBytes)

	var store *receipts.Store
	var receiptStore ots.ReceiptStore
	if cfg.Receipts.Enabled {
		store, err = receipts.Open(cfg.Receipts.Path)
		if err != nil {
			return nil, fmt.Errorf("otsclient: open receipts store: %w", err)
		}
		receiptStore = store
	}

	limits := ots.Limits{MaxDepth: cfg.Limits.MaxDepth, MaxVarbytes: cfg.Limits.MaxVarbytes}

	c := &Client{
		Verifier: &ots.Verifier{Blocks: explorer, Limits: limits},
		Upgrader: &ots.Upgrader{Calendar: cal, Store: receiptStore, Limits: limits},
		Stamper: &ots.Stamper{
			Calendar: cal,
			Servers:  cfg.Calendars.Servers,
			Store:    receiptStore,
		},
		Limits:   limits,
		Logger:   logger,
		receipts: store,
	}
	return c, nil
}

// Parse decodes a complete .ots file, enforcing the depth and field-size
// bounds from the Config the Client was built from.
func (c *Client) Parse(data []byte) (*ots.OtsFile, error) {
	return ots.ParseWithLimits(data, c.Limits)
}

// Write serializes file, enforcing the depth bound from the Config the
// Client was built from.
func (c *Client) Write(w io.Writer, file *ots.OtsFile) error {
	return file.WriteWithLimits(w, c.Limits)
}

// Close releases the receipts store, if one was opened.
func (c *Client) Close() error {
	if c.receipts != nil {
		return c.receipts.Close()
	}
	return nil
}
