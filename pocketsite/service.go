package pocketsite

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session holds the tables of one upload/render cycle.
type Session struct {
	ID          string
	PrankSource string
	GassSource  string
	Residues    []ResiduePrediction
	Sites       []ActiveSitePrediction
	Merged      *MergedTable
	Stats       MergeStats
}

// Service owns the current session and configuration of the dashboard.
type Service struct {
	cfgMu sync.RWMutex
	cfg   Config

	mu      sync.RWMutex
	session Session

	logger *zap.Logger
}

// NewService constructs a service with an empty session.
func NewService(cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	SetColumnCandidates(cfg.Columns)
	s := &Service{cfg: cfg, logger: logger}
	s.session = Session{ID: uuid.NewString()}
	return s
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration and the header aliases it carries.
// A change of SkipMalformed re-runs the merge of the current session; if that
// merge fails the previous configuration and session are kept.
func (s *Service) UpdateConfig(cfg Config) (Config, error) {
	cfg.ApplyDefaults()
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.Config()
	if prev.SkipMalformed != cfg.SkipMalformed {
		next := s.session
		if err := s.mergeInto(&next, cfg.SkipMalformed); err != nil {
			return prev, err
		}
		s.session = next
	}
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
	SetColumnCandidates(cfg.Columns)
	return cfg.Clone(), nil
}

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Reset discards the current session and starts a new one.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{ID: uuid.NewString()}
	s.logger.Info("session reset", zap.String("session", s.session.ID))
}

// Session returns a snapshot of the current session.
func (s *Service) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// LoadResiduesFile loads the pocket predictor CSV from disk.
func (s *Service) LoadResiduesFile(path string) error {
	preds, err := LoadResiduePredictionsFile(path)
	if err != nil {
		s.logger.Warn("load residue predictions failed", zap.String("path", path), zap.Error(err))
		return err
	}
	return s.setResidues(filepath.Base(path), preds)
}

// LoadResidues loads the pocket predictor CSV from a reader.
func (s *Service) LoadResidues(name string, r io.Reader) error {
	preds, err := LoadResiduePredictions(r)
	if err != nil {
		s.logger.Warn("load residue predictions failed", zap.String("source", name), zap.Error(err))
		return fmt.Errorf("read %s: %w", name, err)
	}
	return s.setResidues(name, preds)
}

// LoadActiveSitesFile loads the active-site predictor TSV from disk.
func (s *Service) LoadActiveSitesFile(path string) error {
	preds, err := LoadActiveSitePredictionsFile(path)
	if err != nil {
		s.logger.Warn("load active-site predictions failed", zap.String("path", path), zap.Error(err))
		return err
	}
	return s.setActiveSites(filepath.Base(path), preds)
}

// LoadActiveSites loads the active-site predictor TSV from a reader.
func (s *Service) LoadActiveSites(name string, r io.Reader) error {
	preds, err := LoadActiveSitePredictions(r)
	if err != nil {
		s.logger.Warn("load active-site predictions failed", zap.String("source", name), zap.Error(err))
		return fmt.Errorf("read %s: %w", name, err)
	}
	return s.setActiveSites(name, preds)
}

// setResidues and setActiveSites only replace the session once the merge
// succeeds, so a rejected upload leaves the previous table in place.
func (s *Service) setResidues(name string, preds []ResiduePrediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.session
	next.PrankSource = name
	next.Residues = preds
	if err := s.mergeInto(&next, s.Config().SkipMalformed); err != nil {
		return err
	}
	s.session = next
	s.logger.Info("residue predictions loaded",
		zap.String("session", next.ID),
		zap.String("source", name),
		zap.Int("rows", len(preds)))
	return nil
}

func (s *Service) setActiveSites(name string, preds []ActiveSitePrediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.session
	next.GassSource = name
	next.Sites = preds
	if err := s.mergeInto(&next, s.Config().SkipMalformed); err != nil {
		return err
	}
	s.session = next
	s.logger.Info("active-site predictions loaded",
		zap.String("session", next.ID),
		zap.String("source", name),
		zap.Int("rows", len(preds)))
	return nil
}

func (s *Service) mergeInto(sess *Session, skipMalformed bool) error {
	sess.Merged = nil
	sess.Stats = MergeStats{}
	if sess.Residues == nil || sess.Sites == nil {
		return nil
	}
	table, stats, err := Merge(sess.Residues, sess.Sites, MergeOptions{SkipMalformed: skipMalformed})
	if err != nil {
		s.logger.Error("merge failed", zap.String("session", sess.ID), zap.Error(err))
		return fmt.Errorf("merge: %w", err)
	}
	sess.Merged = table
	sess.Stats = stats
	s.logger.Info("merged predictions",
		zap.String("session", sess.ID),
		zap.Int("rows", stats.Rows),
		zap.Int("triples", stats.Triples),
		zap.Int("unmatched", stats.Unmatched),
		zap.Int("malformed", stats.Malformed))
	return nil
}

// Ready reports whether both inputs are loaded and merged.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Merged != nil
}

// Merged returns the merged table of the current session.
func (s *Service) Merged() (*MergedTable, MergeStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.Merged == nil {
		return nil, s.session.Stats, fmt.Errorf("%w: load both prediction tables first", ErrNotLoaded)
	}
	return s.session.Merged, s.session.Stats, nil
}

// Filtered applies f to the merged table.
func (s *Service) Filtered(f *Filter) (*MergedTable, error) {
	table, _, err := s.Merged()
	if err != nil {
		return nil, err
	}
	out, err := f.Apply(table)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("filter applied",
		zap.Strings("constraints", f.Describe()),
		zap.Int("rows", out.Len()))
	return out, nil
}
