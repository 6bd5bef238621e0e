package game

import (
	"testing"
	"time"

	"stockgame/internal/models"
)

func rankedPlayer(name string, score float64, finishedAt *time.Time, joinedAt time.Time) models.Player {
	return models.Player{
		PlayerName: name,
		Score:      score,
		FinishedAt: finishedAt,
		JoinedAt:   joinedAt,
		IsFinished: finishedAt != nil,
	}
}

func TestLeaderboardOrdersByScore(t *testing.T) {
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	players := []models.Player{
		rankedPlayer("carol", 40, nil, base),
		rankedPlayer("alice", 100, nil, base),
		rankedPlayer("bob", 70, nil, base),
	}

	entries := Leaderboard(players)
	want := []string{"alice", "bob", "carol"}
	for i, name := range want {
		if entries[i].PlayerName != name {
			t.Fatalf("rank %d = %s, want %s", i+1, entries[i].PlayerName, name)
		}
		if entries[i].Rank != i+1 {
			t.Fatalf("entry %d has rank %d", i, entries[i].Rank)
		}
	}
}

func TestLeaderboardTieBreakByFinishTime(t *testing.T) {
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	earlier := base.Add(1 * time.Hour)
	later := base.Add(2 * time.Hour)

	// Bob finished before Alice with the same score, so he ranks higher.
	players := []models.Player{
		rankedPlayer("alice", 80, &later, base),
		rankedPlayer("bob", 80, &earlier, base),
	}

	entries := Leaderboard(players)
	if entries[0].PlayerName != "bob" || entries[1].PlayerName != "alice" {
		t.Fatalf("tie-break order = %s, %s; want bob first", entries[0].PlayerName, entries[1].PlayerName)
	}
}

func TestLeaderboardUnfinishedRankAfterFinished(t *testing.T) {
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	finished := base.Add(1 * time.Hour)

	players := []models.Player{
		rankedPlayer("alice", 80, nil, base),
		rankedPlayer("bob", 80, &finished, base),
	}

	entries := Leaderboard(players)
	if entries[0].PlayerName != "bob" {
		t.Fatalf("finished player should outrank unfinished player at equal score")
	}
}

func TestLeaderboardDeterministic(t *testing.T) {
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	players := []models.Player{
		rankedPlayer("alice", 80, nil, base),
		rankedPlayer("bob", 80, nil, base.Add(time.Minute)),
		rankedPlayer("carol", 80, nil, base.Add(2*time.Minute)),
	}

	first := Leaderboard(players)
	for i := 0; i < 10; i++ {
		again := Leaderboard(players)
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("recomputation %d changed the order at rank %d", i, j+1)
			}
		}
	}
}

func TestLeaderboardDoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	players := []models.Player{
		rankedPlayer("carol", 40, nil, base),
		rankedPlayer("alice", 100, nil, base),
	}

	Leaderboard(players)
	if players[0].PlayerName != "carol" {
		t.Fatalf("input slice was reordered")
	}
}
