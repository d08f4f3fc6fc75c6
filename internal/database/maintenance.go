package database

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Optimize runs SQLite's PRAGMA optimize to refresh planner stats.
func (db *DB) Optimize() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if _, err := db.Exec("PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}

	return nil
}

// Vacuum rebuilds the database file to reclaim unused space.
func (db *DB) Vacuum() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	return nil
}

// Maintenance runs periodic database upkeep on a cron schedule.
type Maintenance struct {
	db   *DB
	cron *cron.Cron
	spec string
}

// NewMaintenance creates a maintenance scheduler. spec is a standard
// cron expression; an empty spec disables scheduling.
func NewMaintenance(db *DB, spec string) *Maintenance {
	return &Maintenance{
		db:   db,
		cron: cron.New(),
		spec: spec,
	}
}

// Start registers the maintenance job and starts the scheduler.
// Returns false when no schedule is configured.
func (m *Maintenance) Start() (bool, error) {
	if m.spec == "" {
		return false, nil
	}

	if _, err := m.cron.AddFunc(m.spec, m.run); err != nil {
		return false, fmt.Errorf("invalid maintenance schedule %q: %w", m.spec, err)
	}

	m.cron.Start()
	log.Info().Str("schedule", m.spec).Msg("Database maintenance scheduled")
	return true, nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (m *Maintenance) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Maintenance) run() {
	if err := m.db.Optimize(); err != nil {
		log.Error().Err(err).Msg("Database maintenance failed")
		return
	}
	log.Debug().Msg("Database maintenance complete")
}
