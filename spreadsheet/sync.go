package spreadsheet

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/boldventures/scorecard_backend/models"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// BlobStore is the opaque file store holding the shared workbook.
type BlobStore interface {
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, data []byte) error
}

const (
	defaultObjectPath = "scorecards.xlsx"
	defaultTimeout    = 30 * time.Second
)

// Config wires the spreadsheet mirror. The zero value is disabled; submissions
// then skip the sync entirely.
type Config struct {
	Bucket     string
	ObjectPath string
	Timeout    time.Duration
}

// ConfigFromEnv builds the mirror configuration. An unset GCS_BUCKET yields a
// disabled config rather than an error.
func ConfigFromEnv() Config {
	bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	if bucket == "" {
		return Config{}
	}
	cfg := Config{
		Bucket:     bucket,
		ObjectPath: defaultObjectPath,
		Timeout:    defaultTimeout,
	}
	if v := strings.TrimSpace(os.Getenv("SCORECARD_OBJECT_PATH")); v != "" {
		cfg.ObjectPath = v
	}
	if v, err := strconv.Atoi(os.Getenv("SYNC_TIMEOUT_SECONDS")); err == nil && v > 0 {
		cfg.Timeout = time.Duration(v) * time.Second
	}
	return cfg
}

func (c Config) Enabled() bool {
	return c.Bucket != "" && c.ObjectPath != ""
}

// Syncer mirrors committed scorecards into the shared workbook as a
// best-effort side channel. The relational store stays authoritative;
// no failure here may surface to the submitting user.
type Syncer struct {
	cfg    Config
	store  BlobStore
	logger *logrus.Logger
}

func NewSyncer(cfg Config, store BlobStore, logger *logrus.Logger) *Syncer {
	return &Syncer{cfg: cfg, store: store, logger: logger}
}

func (s *Syncer) Enabled() bool {
	return s != nil && s.store != nil && s.cfg.Enabled()
}

// Sync performs the fetch-aggregate-upload round trip for one committed
// scorecard: download the workbook, re-derive the grouped body from the full
// flat history plus the new row, upload the result. Every failure is logged
// and swallowed. Concurrent submissions can race the whole cycle and the last
// upload wins; the mirror accepts lost updates.
func (s *Syncer) Sync(ctx context.Context, card *models.Scorecard) {
	if !s.Enabled() {
		return
	}
	if err := s.sync(ctx, card); err != nil {
		s.logger.WithFields(logrus.Fields{
			"module":       "spreadsheet",
			"funcName":     "Sync",
			"object":       s.cfg.ObjectPath,
			"scorecard_id": card.ID,
		}).Error("spreadsheet sync failed; submission is unaffected: " + err.Error())
	}
}

func rowFromScorecard(card *models.Scorecard) Row {
	return NewDataRow(
		card.ScoredBy.DisplayName(),
		card.CompanyName,
		card.DateString(),
		card.Sector,
		card.InvestmentStage,
		card.Alignment,
		card.Team,
		card.Market,
		card.Product,
		card.PotentialReturn,
		card.BoldExcitement,
		card.Score,
	)
}

func (s *Syncer) sync(ctx context.Context, card *models.Scorecard) error {
	dlCtx, cancelDl := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancelDl()
	data, err := s.store.Download(dlCtx, s.cfg.ObjectPath)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	tmp, err := os.CreateTemp("", "scorecards-*.xlsx")
	if err != nil {
		return err
	}
	localPath := tmp.Name()
	// scratch file is removed on every exit path
	defer os.Remove(localPath)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	f, err := excelize.OpenFile(localPath)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	snap, err := parseFile(f)
	if err != nil {
		f.Close()
		return err
	}

	out, dropped, err := Aggregate(snap.Rows, rowFromScorecard(card))
	if err != nil {
		f.Close()
		return fmt.Errorf("aggregate: %w", err)
	}
	if dropped > 0 {
		// Rows with no company name silently vanish from the mirror. Kept for
		// compatibility with the existing artifact, but worth surfacing.
		s.logger.WithFields(logrus.Fields{
			"module":       "spreadsheet",
			"funcName":     "Sync",
			"object":       s.cfg.ObjectPath,
			"dropped_rows": dropped,
		}).Warn("rows without a company name were dropped from the spreadsheet mirror")
	}

	if err := rewriteBody(f, snap, out); err != nil {
		f.Close()
		return err
	}
	if err := f.Save(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	updated, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}

	upCtx, cancelUp := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancelUp()
	if err := s.store.Upload(upCtx, s.cfg.ObjectPath, updated); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return nil
}
