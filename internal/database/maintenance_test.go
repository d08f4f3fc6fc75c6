package database

import "testing"

func TestMaintenanceStart(t *testing.T) {
	db := newTestDB(t)

	t.Run("empty spec disables scheduling", func(t *testing.T) {
		m := NewMaintenance(db, "")
		started, err := m.Start()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if started {
			t.Fatal("expected maintenance to stay disabled")
		}
	})

	t.Run("invalid spec is rejected", func(t *testing.T) {
		m := NewMaintenance(db, "not a cron spec")
		if _, err := m.Start(); err == nil {
			t.Fatal("expected invalid schedule to fail")
		}
	})

	t.Run("valid spec starts and stops", func(t *testing.T) {
		m := NewMaintenance(db, "@daily")
		started, err := m.Start()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !started {
			t.Fatal("expected maintenance to start")
		}
		m.Stop()
	})
}
