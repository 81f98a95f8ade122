package jot_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/pkg/core"
)

type counterIDs struct{ notes, history int }

func (c *counterIDs) NoteID() string {
	c.notes++
	return fmt.Sprintf("note-%d", c.notes)
}

func (c *counterIDs) HistoryID() string {
	c.history++
	return fmt.Sprintf("history-%d", c.history)
}

// Example_basic logs in, creates a note and edits it.
func Example_basic() {
	nb, err := jot.New("", jot.WithAdapter(jot.AdapterMemory), jot.WithIDGenerator(&counterIDs{}))
	if err != nil {
		log.Fatal(err)
	}
	defer nb.Close()

	ctx := context.Background()
	user, err := nb.Session.Login(ctx, "ana@example.com", "secret")
	if err != nil {
		log.Fatal(err)
	}

	content := "milk and eggs #shopping"
	note, err := nb.Service.Create(ctx, core.NewNote{
		Title:       "Groceries",
		Content:     content,
		Category:    core.CategoryPersonal,
		Tags:        jot.ExtractTags(content),
		CreatorID:   user.ID,
		CreatorName: user.Name,
	})
	if err != nil {
		log.Fatal(err)
	}

	edited := "milk, eggs and bread #shopping"
	note, err = nb.Service.Update(ctx, note.ID, core.Patch{Content: &edited})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(note.ID, note.CreatorName, note.Tags, len(note.History))
	// Output:
	// note-1 ana [shopping] 2
}

// Example_query pages through a user's notes, newest first.
func Example_query() {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return t0.Add(time.Duration(tick) * time.Minute)
	}

	nb, err := jot.New("", jot.WithAdapter(jot.AdapterMemory), jot.WithClock(clock))
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	for i := 1; i <= 8; i++ {
		_, err := nb.Service.Create(ctx, core.NewNote{
			Title:     fmt.Sprintf("note %d", i),
			Content:   "text",
			CreatorID: "user-1",
		})
		if err != nil {
			log.Fatal(err)
		}
	}

	page, err := nb.Service.Query(ctx, core.Query{CreatorID: "user-1", Page: 2})
	if err != nil {
		log.Fatal(err)
	}
	for _, n := range page.Notes {
		fmt.Println(n.Title)
	}
	fmt.Println(page.Total, page.TotalPages)
	// Output:
	// note 2
	// note 1
	// 8 2
}
