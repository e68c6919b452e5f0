// Package publish sends computed grids to NATS so that displays and other
// consumers can pick up a fresh layout without running the pipeline.
//
// Grids are published as JSON on "<subject>.<date>", where date is the
// first day of the grid in YYYY-MM-DD form:
//
//	pub, err := publish.NewPublisher(publish.Config{URL: nats.DefaultURL}, logger)
//	defer pub.Close()
//	err = pub.PublishGrid(ctx, grid)
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/errors"
)

// Config holds the NATS connection settings.
type Config struct {
	URL            string
	Subject        string
	Name           string
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
	FlushTimeout   time.Duration
}

// DefaultConfig returns settings for a local NATS server.
func DefaultConfig() Config {
	return Config{
		URL:            nats.DefaultURL,
		Subject:        "calgrid.grid",
		Name:           "calgrid",
		ConnectTimeout: 5 * time.Second,
		ReconnectWait:  2 * time.Second,
		MaxReconnects:  10,
		FlushTimeout:   5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.URL == "" {
		c.URL = d.URL
	}
	if c.Subject == "" {
		c.Subject = d.Subject
	}
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.ReconnectWait == 0 {
		c.ReconnectWait = d.ReconnectWait
	}
	if c.MaxReconnects == 0 {
		c.MaxReconnects = d.MaxReconnects
	}
	if c.FlushTimeout == 0 {
		c.FlushTimeout = d.FlushTimeout
	}
	return c
}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	IsClosed() bool
	Close()
}

// Publisher sends grids to NATS.
type Publisher struct {
	conn   Conn
	cfg    Config
	logger *log.Logger
}

// NewPublisher connects to the NATS server of cfg.
func NewPublisher(cfg Config, logger *log.Logger) (*Publisher, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = log.New(io.Discard)
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.Timeout(cfg.ConnectTimeout),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to nats at %s", cfg.URL)
	}
	logger.Debug("nats connected", "url", conn.ConnectedUrl(), "subject", cfg.Subject)
	return NewWithConn(conn, cfg, logger), nil
}

// NewWithConn wraps an existing connection.
func NewWithConn(conn Conn, cfg Config, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Publisher{conn: conn, cfg: cfg.withDefaults(), logger: logger}
}

// Subject returns the subject a grid is published on.
func (p *Publisher) Subject(g calendar.Grid) string {
	if len(g.Days) == 0 {
		return p.cfg.Subject
	}
	return p.cfg.Subject + "." + g.Days[0].Date.Format(calendar.DateLayout)
}

// PublishGrid sends g as JSON and flushes the connection.
func (p *Publisher) PublishGrid(ctx context.Context, g calendar.Grid) error {
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New(errors.ErrCodeNetwork, "nats connection is not available")
	}
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal grid: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := p.Subject(g)
	if err := p.conn.Publish(subject, data); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "publish %s", subject)
	}
	if err := p.conn.FlushTimeout(p.cfg.FlushTimeout); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "flush %s", subject)
	}
	p.logger.Debug("published grid", "subject", subject, "bytes", len(data), "days", len(g.Days))
	return nil
}

// Close closes the connection.
func (p *Publisher) Close() error {
	if p.conn != nil && !p.conn.IsClosed() {
		p.conn.Close()
	}
	return nil
}
