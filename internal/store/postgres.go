package store

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InteractionRecord is the row shape for the postgres-backed log. The
// device and location snapshots go into JSON columns so the schema does
// not have to chase client-reported fields.
type InteractionRecord struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time

	// ExpiresAt makes the row eligible for deletion by the retention
	// loop. Nil means the row never expires.
	ExpiresAt *time.Time `gorm:"index"`

	EventID       string `gorm:"uniqueIndex"`
	Username      string `gorm:"index"`
	SessionID     string `gorm:"index"`
	VideoID       string `gorm:"index"`
	VideoCaption  string
	Kind          string `gorm:"index"`
	Timestamp     time.Time
	HasDuration   bool
	WatchDuration float64

	Device   datatypes.JSON `gorm:"type:json"`
	Location datatypes.JSON `gorm:"type:json"`
}

// PostgresStore persists the interaction log in PostgreSQL via GORM.
type PostgresStore struct {
	db            *gorm.DB
	retentionDays int
}

// ConnectPostgres opens a GORM connection using a postgres:// URL and
// migrates the log table. retentionDays > 0 stamps new rows with an
// expiry honored by StartRetention; 0 keeps rows forever.
func ConnectPostgres(databaseURL string, retentionDays int) (*PostgresStore, error) {
	dsn := strings.TrimSpace(databaseURL)
	if dsn == "" {
		return nil, errors.New("APP_DATABASE_URL is required (PostgreSQL URL)")
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil, errors.New("APP_DATABASE_URL must be a postgres:// or postgresql:// URL")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&InteractionRecord{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db, retentionDays: retentionDays}, nil
}

func (s *PostgresStore) Append(ev Interaction) error {
	rec, err := toRecord(ev)
	if err != nil {
		return err
	}
	if s.retentionDays > 0 {
		t := ev.Timestamp.Add(time.Duration(s.retentionDays) * 24 * time.Hour)
		rec.ExpiresAt = &t
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) ReadAll() []Interaction {
	var rows []InteractionRecord
	if err := s.db.Order("id asc").Find(&rows).Error; err != nil {
		log.Printf("store: read log: %v", err)
		return nil
	}

	events := make([]Interaction, 0, len(rows))
	for _, row := range rows {
		ev, err := fromRecord(row)
		if err != nil {
			// One bad row does not poison the rest of the log.
			corruptLogReads.Inc()
			log.Printf("store: skipping unreadable row %d: %v", row.ID, err)
			continue
		}
		events = append(events, ev)
	}
	return events
}

func (s *PostgresStore) Clear() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&InteractionRecord{}).Error
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartRetention launches a background goroutine that deletes expired
// rows once at startup and then once per day. No-op when retention is
// disabled.
func (s *PostgresStore) StartRetention() {
	if s.retentionDays <= 0 {
		return
	}
	go func() {
		if err := s.deleteExpired(); err != nil {
			log.Printf("retention cleanup error (startup): %v", err)
		}

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := s.deleteExpired(); err != nil {
				log.Printf("retention cleanup error: %v", err)
			}
		}
	}()
}

func (s *PostgresStore) deleteExpired() error {
	now := time.Now()
	return s.db.Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&InteractionRecord{}).Error
}

func toRecord(ev Interaction) (InteractionRecord, error) {
	device, err := json.Marshal(ev.Device)
	if err != nil {
		return InteractionRecord{}, fmt.Errorf("marshal device info: %w", err)
	}

	rec := InteractionRecord{
		EventID:      ev.ID,
		Username:     ev.Username,
		SessionID:    ev.SessionID,
		VideoID:      ev.VideoID,
		VideoCaption: ev.VideoCaption,
		Kind:         string(ev.Kind),
		Timestamp:    ev.Timestamp,
		Device:       datatypes.JSON(device),
	}
	if ev.WatchDuration != nil {
		rec.HasDuration = true
		rec.WatchDuration = *ev.WatchDuration
	}
	if ev.Location != nil {
		loc, err := json.Marshal(ev.Location)
		if err != nil {
			return InteractionRecord{}, fmt.Errorf("marshal location: %w", err)
		}
		rec.Location = datatypes.JSON(loc)
	}
	return rec, nil
}

func fromRecord(row InteractionRecord) (Interaction, error) {
	ev := Interaction{
		ID:           row.EventID,
		Username:     row.Username,
		SessionID:    row.SessionID,
		VideoID:      row.VideoID,
		VideoCaption: row.VideoCaption,
		Kind:         Kind(row.Kind),
		Timestamp:    row.Timestamp,
	}
	if row.HasDuration {
		d := row.WatchDuration
		ev.WatchDuration = &d
	}
	if len(row.Device) > 0 {
		if err := json.Unmarshal([]byte(row.Device), &ev.Device); err != nil {
			return Interaction{}, fmt.Errorf("unmarshal device info: %w", err)
		}
	}
	if len(row.Location) > 0 {
		var loc Location
		if err := json.Unmarshal([]byte(row.Location), &loc); err != nil {
			return Interaction{}, fmt.Errorf("unmarshal location: %w", err)
		}
		ev.Location = &loc
	}
	return ev, nil
}
