package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/news-crud-lab/internal/models"
	"github.com/news-crud-lab/internal/repository"
	"github.com/news-crud-lab/internal/service"
	"github.com/rs/zerolog"
)

func newSeededStore() service.PostStore {
	repo := repository.NewPostRepo(models.SeedPosts())
	return service.NewPostStore(repo, service.NewClockIDGenerator(time.Now, repo.MaxID()), zerolog.Nop())
}

func fields(title, content, author, image string) *models.DraftFields {
	return &models.DraftFields{Title: title, Content: content, Author: author, URLToImage: image}
}

func assertCreating(t *testing.T, snap models.StoreSnapshot) {
	t.Helper()
	if snap.Editing || snap.Mode != models.ModeCreating {
		t.Errorf("Expected Creating mode, got editing=%v mode=%s", snap.Editing, snap.Mode)
	}
	if !snap.Draft.IsEmpty() {
		t.Errorf("Expected empty draft, got %+v", snap.Draft)
	}
	if snap.SubmitLabel != "create" {
		t.Errorf("Expected submit label create, got %q", snap.SubmitLabel)
	}
}

func TestPostStore_InitialState(t *testing.T) {
	store := newSeededStore()
	snap := store.Snapshot()

	assertCreating(t, snap)
	if len(snap.Posts) != 1 || snap.Posts[0].ID != 101 {
		t.Fatalf("Expected seeded post 101, got %+v", snap.Posts)
	}
}

func TestPostStore_SubmitCreateScenario(t *testing.T) {
	store := newSeededStore()

	result, err := store.Submit(fields("New", "Body", "", ""))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Outcome != service.OutcomeCreated {
		t.Errorf("Expected created outcome, got %s", result.Outcome)
	}

	snap := store.Snapshot()
	if len(snap.Posts) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(snap.Posts))
	}
	second := snap.Posts[1]
	if second.ID == 101 {
		t.Error("New post must get a fresh id")
	}
	if second.Title != "New" || second.Content != "Body" || second.Author != "" || second.URLToImage != "" {
		t.Errorf("Unexpected new post: %+v", second)
	}
	if snap.Posts[0].ID != 101 {
		t.Error("Seeded post must stay first")
	}
	assertCreating(t, snap)
}

func TestPostStore_CreateManyDistinctIDs(t *testing.T) {
	store := newSeededStore()
	initial := len(store.Snapshot().Posts)
	const n = 200

	for i := 0; i < n; i++ {
		if _, err := store.Submit(fields("T", "C", "", "")); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}

	posts := store.Snapshot().Posts
	if len(posts) != initial+n {
		t.Fatalf("Expected %d posts, got %d", initial+n, len(posts))
	}

	seen := make(map[models.PostID]bool, len(posts))
	for _, p := range posts {
		if seen[p.ID] {
			t.Fatalf("Duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestPostStore_BeginEditThenCancel(t *testing.T) {
	store := newSeededStore()
	store.Submit(fields("A", "a", "", ""))
	before := store.Snapshot().Posts

	if err := store.BeginEdit(101); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}

	snap := store.Snapshot()
	if !snap.Editing || snap.Mode != models.ModeEditing || snap.SubmitLabel != "update" {
		t.Errorf("Expected Editing mode, got %+v", snap)
	}
	if snap.Draft.ID == nil || *snap.Draft.ID != 101 || snap.Draft.Title != before[0].Title {
		t.Errorf("Expected draft copied from post 101, got %+v", snap.Draft)
	}

	store.CancelEdit()

	snap = store.Snapshot()
	assertCreating(t, snap)
	if len(snap.Posts) != len(before) {
		t.Fatalf("Posts changed: %+v", snap.Posts)
	}
	for i := range before {
		if snap.Posts[i] != before[i] {
			t.Errorf("Post %d changed: %+v -> %+v", i, before[i], snap.Posts[i])
		}
	}
}

func TestPostStore_CancelOutsideEditIsSafe(t *testing.T) {
	store := newSeededStore()
	store.SetDraft(models.DraftFields{Title: "half typed"})

	store.CancelEdit()

	assertCreating(t, store.Snapshot())
}

func TestPostStore_BeginEditUnknownPost(t *testing.T) {
	store := newSeededStore()

	err := store.BeginEdit(999)
	if !errors.Is(err, service.ErrPostNotFound) {
		t.Fatalf("Expected ErrPostNotFound, got %v", err)
	}
	assertCreating(t, store.Snapshot())
}

func TestPostStore_EditReplacesInPlace(t *testing.T) {
	store := newSeededStore()
	first, _ := store.Submit(fields("First", "1", "", ""))
	store.Submit(fields("Second", "2", "", ""))

	if err := store.BeginEdit(first.Post.ID); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	result, err := store.Submit(fields("First v2", "1b", "Me", "http://img"))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Outcome != service.OutcomeUpdated {
		t.Errorf("Expected updated outcome, got %s", result.Outcome)
	}

	snap := store.Snapshot()
	if len(snap.Posts) != 3 {
		t.Fatalf("Expected length unchanged at 3, got %d", len(snap.Posts))
	}
	got := snap.Posts[1]
	want := models.Post{ID: first.Post.ID, Title: "First v2", Content: "1b", Author: "Me", URLToImage: "http://img"}
	if got != want {
		t.Errorf("Expected %+v at position 1, got %+v", want, got)
	}
	assertCreating(t, snap)
}

func TestPostStore_EditUsingSetDraft(t *testing.T) {
	store := newSeededStore()
	store.BeginEdit(101)

	store.SetDraft(models.DraftFields{Title: "Edited", Content: "Body"})
	snap := store.Snapshot()
	if snap.Draft.ID == nil || *snap.Draft.ID != 101 {
		t.Fatal("SetDraft must keep the draft id")
	}
	if !snap.Editing {
		t.Fatal("SetDraft must not change mode")
	}

	if _, err := store.Submit(nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	post := store.Snapshot().Posts[0]
	if post.ID != 101 || post.Title != "Edited" || post.Author != "" {
		t.Errorf("Unexpected post after edit: %+v", post)
	}
}

func TestPostStore_RoundTripNoDrift(t *testing.T) {
	store := newSeededStore()
	created, err := store.Submit(fields("T", "C", "A", "U"))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	store.BeginEdit(created.Post.ID)
	if _, err := store.Submit(fields("T", "C", "A", "U")); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	matches := 0
	for _, p := range store.Snapshot().Posts {
		if p.Title == "T" && p.Content == "C" && p.Author == "A" && p.URLToImage == "U" {
			matches++
			if p.ID != created.Post.ID {
				t.Errorf("Id drifted from %d to %d", created.Post.ID, p.ID)
			}
		}
	}
	if matches != 1 {
		t.Errorf("Expected exactly one matching post, got %d", matches)
	}
}

func TestPostStore_Delete(t *testing.T) {
	store := newSeededStore()
	a, _ := store.Submit(fields("A", "a", "", ""))
	b, _ := store.Submit(fields("B", "b", "", ""))

	removed, err := store.Delete(a.Post.ID, true)
	if err != nil || !removed {
		t.Fatalf("Expected delete to remove post, got removed=%v err=%v", removed, err)
	}
	posts := store.Snapshot().Posts
	if len(posts) != 2 || posts[0].ID != 101 || posts[1].ID != b.Post.ID {
		t.Fatalf("Unexpected posts after delete: %+v", posts)
	}

	// idempotent
	removed, err = store.Delete(a.Post.ID, true)
	if err != nil || removed {
		t.Errorf("Second delete should be a no-op, got removed=%v err=%v", removed, err)
	}
	if len(store.Snapshot().Posts) != 2 {
		t.Error("Second delete must not change the collection")
	}

	// absent
	removed, _ = store.Delete(424242, true)
	if removed || len(store.Snapshot().Posts) != 2 {
		t.Error("Deleting an absent id must not change the collection")
	}
}

func TestPostStore_DeleteRequiresConfirmation(t *testing.T) {
	store := newSeededStore()

	removed, err := store.Delete(101, false)
	if !errors.Is(err, service.ErrConfirmationRequired) {
		t.Fatalf("Expected ErrConfirmationRequired, got %v", err)
	}
	if removed || len(store.Snapshot().Posts) != 1 {
		t.Error("Unconfirmed delete must not remove anything")
	}
}

func TestPostStore_DeleteEditTargetLeavesEditState(t *testing.T) {
	store := newSeededStore()
	store.BeginEdit(101)

	if _, err := store.Delete(101, true); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	snap := store.Snapshot()
	if !snap.Editing || snap.Draft.ID == nil || *snap.Draft.ID != 101 {
		t.Fatalf("Delete must not touch draft or mode, got %+v", snap)
	}

	result, err := store.Submit(fields("Ghost", "gone", "", ""))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Outcome != service.OutcomeMissingTarget {
		t.Errorf("Expected missing_target outcome, got %s", result.Outcome)
	}

	snap = store.Snapshot()
	if len(snap.Posts) != 0 {
		t.Errorf("Missing-target submit must not change the collection, got %+v", snap.Posts)
	}
	assertCreating(t, snap)
}

func TestPostStore_SubmitValidation(t *testing.T) {
	tests := []struct {
		name       string
		in         *models.DraftFields
		wantFields []string
	}{
		{"missing title", fields("", "Body", "", ""), []string{"title"}},
		{"missing content", fields("Title", "", "", ""), []string{"content"}},
		{"both missing", fields("", "", "A", "U"), []string{"title", "content"}},
		{"empty draft submitted", nil, []string{"title", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSeededStore()

			_, err := store.Submit(tt.in)
			if !errors.Is(err, service.ErrValidation) {
				t.Fatalf("Expected ErrValidation, got %v", err)
			}
			var verr *service.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if len(verr.Errors) != len(tt.wantFields) {
				t.Fatalf("Expected %d field errors, got %+v", len(tt.wantFields), verr.Errors)
			}
			for i, f := range tt.wantFields {
				if verr.Errors[i].Field != f {
					t.Errorf("Expected field %q, got %q", f, verr.Errors[i].Field)
				}
			}
			if len(store.Snapshot().Posts) != 1 {
				t.Error("Rejected submit must not change the collection")
			}
		})
	}
}

func TestPostStore_FailedSubmitKeepsEditDraft(t *testing.T) {
	store := newSeededStore()
	store.BeginEdit(101)

	if _, err := store.Submit(fields("", "still here", "", "")); err == nil {
		t.Fatal("Expected validation error")
	}

	snap := store.Snapshot()
	if !snap.Editing || snap.Draft.Content != "still here" {
		t.Errorf("Rejected submit must keep edit state, got %+v", snap)
	}
}

func TestPostStore_SnapshotIsolation(t *testing.T) {
	store := newSeededStore()
	store.BeginEdit(101)

	snap := store.Snapshot()
	snap.Posts[0].Title = "mutated"
	*snap.Draft.ID = 5

	again := store.Snapshot()
	if again.Posts[0].Title == "mutated" {
		t.Error("Snapshot posts must be a copy")
	}
	if *again.Draft.ID != 101 {
		t.Error("Snapshot draft id must be a copy")
	}
}

func TestPostStore_Observers(t *testing.T) {
	store := newSeededStore()

	var got []models.StoreEventType
	unsubscribe := store.Subscribe(func(ev models.StoreEvent) {
		got = append(got, ev.Type)
	})

	store.SetDraft(models.DraftFields{Title: "x"})
	store.Submit(fields("T", "C", "", ""))
	store.BeginEdit(101)
	store.CancelEdit()
	store.Delete(101, true)
	store.Delete(101, true)  // absent: no event
	store.Delete(101, false) // unconfirmed: no event
	store.Submit(nil)        // invalid: no event

	want := []models.StoreEventType{
		models.EventDraftChanged,
		models.EventPostCreated,
		models.EventEditStarted,
		models.EventEditCanceled,
		models.EventPostDeleted,
	}
	if len(got) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	unsubscribe()
	store.CancelEdit()
	if len(got) != len(want) {
		t.Error("Unsubscribed observer must not be called")
	}
}

func TestPostStore_ObserverCanReadStore(t *testing.T) {
	store := newSeededStore()

	var count int
	store.Subscribe(func(ev models.StoreEvent) {
		count = len(store.Snapshot().Posts)
		if len(ev.Snapshot.Posts) != count {
			t.Errorf("Event snapshot has %d posts, store has %d", len(ev.Snapshot.Posts), count)
		}
	})

	store.Submit(fields("T", "C", "", ""))
	if count != 2 {
		t.Errorf("Expected observer to see 2 posts, got %d", count)
	}
}

func TestPostStore_ConcurrentSubmitsNotifyInOrder(t *testing.T) {
	store := newSeededStore()

	var mu sync.Mutex
	var lengths []int
	store.Subscribe(func(event models.StoreEvent) {
		mu.Lock()
		lengths = append(lengths, len(event.Snapshot.Posts))
		mu.Unlock()
	})

	const workers, perWorker = 8, 200
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := store.Submit(fields("Title", "Body", "", "")); err != nil {
					t.Errorf("Submit failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(lengths) != workers*perWorker {
		t.Fatalf("Expected %d events, got %d", workers*perWorker, len(lengths))
	}
	for i := 1; i < len(lengths); i++ {
		if lengths[i] <= lengths[i-1] {
			t.Fatalf("Event %d carries %d posts after an event with %d", i, lengths[i], lengths[i-1])
		}
	}
}
