package quiz

import (
	"testing"

	"github.com/hitoshi/woodbine/internal/model"
)

func TestCatalog_ListsTenQuestsInOrder(t *testing.T) {
	got := Catalog()

	wantTitles := []string{
		"Trivia Challenge", "Memory Test", "Puzzle Game", "Speed Test", "Math Quiz",
		"Riddle Challenge", "Shape Identification", "Vocabulary Test", "Logic Challenge", "Hidden Object Game",
	}
	if len(got) != len(wantTitles) {
		t.Fatalf("len = %d, want %d", len(got), len(wantTitles))
	}
	playable := 0
	for i, q := range got {
		if q.Title != wantTitles[i] {
			t.Errorf("quests[%d].Title = %q, want %q", i, q.Title, wantTitles[i])
		}
		if q.Color == "" {
			t.Errorf("quests[%d].Color is empty", i)
		}
		if q.Playable {
			playable++
		}
	}
	if playable != 4 {
		t.Errorf("playable = %d, want 4", playable)
	}
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	first := Catalog()
	first[0].Options[0] = "Berlin"

	if Catalog()[0].Options[0] != "Paris" {
		t.Error("caller mutation leaked into catalog")
	}
}

func TestLookup(t *testing.T) {
	q, err := Lookup(KindMath)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if q.Prompt != "What is 7 + 5?" || q.Color != "#FF33A1" {
		t.Errorf("math quest = %+v", q)
	}

	_, err = Lookup("chess")
	if !model.HasCode(err, model.ErrCodeQuestNotFound) {
		t.Errorf("error = %v, want %s", err, model.ErrCodeQuestNotFound)
	}
}
