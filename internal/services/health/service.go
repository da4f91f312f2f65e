package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service reports dependency status for the health endpoint.
type Service struct {
	DB *sql.DB
	// SearchEnabled reports whether the optional search capability is configured.
	SearchEnabled bool
}

// NewService constructs a health service. db may be nil when document storage is used.
func NewService(db *sql.DB, searchEnabled bool) *Service {
	return &Service{DB: db, SearchEnabled: searchEnabled}
}

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Storage  string `json:"storage"`
	Database string `json:"database,omitempty"`
	Search   bool   `json:"search"`
}

// Check pings the database when one is configured. The service is not ok
// only when a configured database is unreachable.
func (s *Service) Check(ctx context.Context) Status {
	if s == nil {
		return Status{OK: true, Storage: "documents"}
	}
	st := Status{OK: true, Storage: "documents", Search: s.SearchEnabled}
	if s.DB == nil {
		return st
	}
	st.Storage = "postgres"
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.OK = false
		st.Database = "unreachable"
		return st
	}
	st.Database = "ok"
	return st
}
