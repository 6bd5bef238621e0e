package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"stockgame/internal/dao/rooms"
	"stockgame/internal/game"
	"stockgame/internal/services"
)

// AutoAdvancer polls for sync_auto rooms whose day timer has elapsed
// and advances them through the coordinator. One failing room never
// blocks the others.
type AutoAdvancer struct {
	roomDAO     rooms.RoomDAOInterface
	coordinator *services.AdvanceCoordinator
	interval    time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewAutoAdvancer creates a new auto advancer polling at the given
// interval.
func NewAutoAdvancer(roomDAO rooms.RoomDAOInterface, coordinator *services.AdvanceCoordinator, interval time.Duration) *AutoAdvancer {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &AutoAdvancer{
		roomDAO:     roomDAO,
		coordinator: coordinator,
		interval:    interval,
	}
}

// Running reports whether the polling loop is active.
func (a *AutoAdvancer) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Start launches the polling loop.
func (a *AutoAdvancer) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return fmt.Errorf("auto advancer is already running")
	}
	a.running = true
	a.stopChan = make(chan struct{})
	a.done = make(chan struct{})

	go a.run(a.stopChan, a.done)
	log.Printf("Auto advancer started, polling every %v", a.interval)
	return nil
}

// Stop halts the polling loop and waits for the current sweep to end.
func (a *AutoAdvancer) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	close(a.stopChan)
	done := a.done
	a.mu.Unlock()

	<-done
	log.Printf("Auto advancer stopped")
}

func (a *AutoAdvancer) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.sweep()
		}
	}
}

// sweep advances every candidate room whose timer has elapsed. The
// due check here is a cheap pre-filter; the coordinator re-checks it
// on the locked row.
func (a *AutoAdvancer) sweep() {
	candidates, err := a.roomDAO.ListAutoAdvanceCandidates()
	if err != nil {
		log.Printf("Auto advancer failed to list rooms: %v", err)
		return
	}

	now := time.Now().UTC()
	for i := range candidates {
		room := &candidates[i]
		if !game.AutoAdvanceDue(room, now) {
			continue
		}
		advanced, err := a.coordinator.AutoAdvance(room.RoomCode)
		if err != nil {
			log.Printf("Auto advance failed for room %s: %v", room.RoomCode, err)
			continue
		}
		if advanced {
			log.Printf("Auto advanced room %s", room.RoomCode)
		}
	}
}
