package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"phototag/internal/adapters/http/perf"
	"phototag/internal/adapters/metadata"
	"phototag/internal/adapters/storage"
	"phototag/internal/adapters/storage/imagetag"
	"phototag/internal/adapters/storage/vocabulary"
	"phototag/internal/application/orchestrators"
	"phototag/internal/application/session"
	"phototag/internal/config"
)

// Runtime is the wired set of stores, metadata access and session shared by
// the HTTP server and the CLI.
type Runtime struct {
	Session   *session.Session
	ImageTags imagetag.Store
	KnownTags vocabulary.Store // nil for the memory store
	Writer    metadata.Writer
	Reader    metadata.Reader // nil when metadata writing is disabled
	Perf      *perf.Collector

	closers []func() error
}

// Open builds the runtime described by cfg and loads the known tags into a
// fresh session.
// PRE: cfg.Validate() == nil
// POST: caller must Close the runtime
func Open(ctx context.Context, cfg config.Config) (*Runtime, error) {
	rt := &Runtime{
		Session: session.New(),
		Perf:    perf.NewCollector(perf.DefaultRingSize),
	}
	if err := rt.openStores(cfg); err != nil {
		rt.Close()
		return nil, err
	}
	if err := rt.openMetadata(cfg); err != nil {
		rt.Close()
		return nil, err
	}

	if rt.KnownTags != nil {
		if _, err := orchestrators.ExecuteLoadVocabulary(ctx, orchestrators.LoadVocabularyDeps{
			Session:   rt.Session,
			KnownTags: rt.KnownTags,
		}); err != nil {
			rt.Close()
			return nil, err
		}
	}
	slog.Info("runtime_ready", "store", cfg.Store, "write_metadata", cfg.WriteMetadata, "known_tags", rt.Session.Vocabulary.Len())
	return rt, nil
}

func (rt *Runtime) openStores(cfg config.Config) error {
	if cfg.Store == config.StoreMemory {
		rt.ImageTags = imagetag.NewMemoryStore()
		return nil
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	timed := storage.NewTimedDB(db, rt.Perf)
	rt.closers = append(rt.closers, timed.Close)
	rt.KnownTags = vocabulary.NewSQLiteStore(timed)

	switch cfg.Store {
	case config.StoreBolt:
		bs, err := imagetag.OpenBoltStore(cfg.BoltPath)
		if err != nil {
			return err
		}
		rt.closers = append(rt.closers, bs.Close)
		rt.ImageTags = bs
	case config.StoreSQLite:
		rt.ImageTags = imagetag.NewSQLiteStore(timed)
	default:
		return fmt.Errorf("unknown store %q", cfg.Store)
	}
	return nil
}

func (rt *Runtime) openMetadata(cfg config.Config) error {
	if !cfg.WriteMetadata {
		rt.Writer = metadata.NewNoopWriter()
		return nil
	}
	et, err := metadata.NewExifTool(cfg.ExifToolPath)
	if err != nil {
		return err
	}
	rt.closers = append(rt.closers, et.Close)
	rt.Writer = et
	rt.Reader = et
	return nil
}

// Purger returns the store's tag purger, or nil if the backend has none.
func (rt *Runtime) Purger() imagetag.Purger {
	if p, ok := rt.ImageTags.(imagetag.Purger); ok {
		return p
	}
	return nil
}

// Close releases every opened resource in reverse order.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
