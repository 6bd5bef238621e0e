package scheduler

import (
	"testing"
	"time"

	"stockgame/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubRoomDAO struct{}

func (s *stubRoomDAO) CreateRoom(room *models.Room) error { return nil }

func (s *stubRoomDAO) GetRoomByCode(code string) (*models.Room, error) { return nil, nil }

func (s *stubRoomDAO) GetRoomByID(id uuid.UUID) (*models.Room, error) { return nil, nil }

func (s *stubRoomDAO) SaveRoom(tx *gorm.DB, room *models.Room) error { return nil }

func (s *stubRoomDAO) ListAutoAdvanceCandidates() ([]models.Room, error) { return nil, nil }

func (s *stubRoomDAO) DeleteRoom(roomID uuid.UUID) error { return nil }
func (s *stubRoomDAO) GetRoomForUpdate(tx *gorm.DB, code string, nowait bool) (*models.Room, error) {
	return nil, nil
}
func (s *stubRoomDAO) ListRooms(status models.RoomStatus, limit int) ([]models.Room, error) {
	return nil, nil
}
func (s *stubRoomDAO) ResetPlayersReady(tx *gorm.DB, roomID uuid.UUID, lastSyncDay int) error {
	return nil
}
func (s *stubRoomDAO) FinishPlayers(tx *gorm.DB, roomID uuid.UUID, now time.Time) error {
	return nil
}

func TestAutoAdvancerLifecycle(t *testing.T) {
	advancer := NewAutoAdvancer(&stubRoomDAO{}, nil, time.Hour)
	if advancer.Running() {
		t.Fatalf("new advancer should not be running")
	}

	if err := advancer.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !advancer.Running() {
		t.Fatalf("advancer should report running after start")
	}
	if err := advancer.Start(); err == nil {
		t.Fatalf("second start should fail while running")
	}

	advancer.Stop()
	if advancer.Running() {
		t.Fatalf("advancer should report stopped after stop")
	}
	// Stop is idempotent.
	advancer.Stop()

	if err := advancer.Start(); err != nil {
		t.Fatalf("restart after stop: %v", err)
	}
	advancer.Stop()
}

func TestAutoAdvancerDefaultInterval(t *testing.T) {
	advancer := NewAutoAdvancer(&stubRoomDAO{}, nil, 0)
	if advancer.interval != 5*time.Second {
		t.Fatalf("interval = %v, want 5s default", advancer.interval)
	}
}
