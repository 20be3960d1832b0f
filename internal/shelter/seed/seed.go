// Package seed populates a shelter store with demo data for local
// development.
package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/strayhq/shelter/internal/shelter/storage"
)

type demoUser struct {
	name  string
	email string
	posts []demoPost
	cats  []demoCat
}

type demoPost struct {
	title     string
	content   string
	published bool
}

type demoCat struct {
	name string
	age  int64
}

var demoUsers = []demoUser{
	{
		name:  "Alice Johnson",
		email: "alice@example.com",
		posts: []demoPost{
			{title: "My First Blog Post", content: "An introduction to my journey into software.", published: true},
			{title: "Go Best Practices", content: "Lessons learned from a few years of Go.", published: true},
			{title: "Draft: Future Plans", content: "A rough outline of where I want to go next.", published: false},
		},
		cats: []demoCat{{name: "Whiskers", age: 3}, {name: "Shadow", age: 2}},
	},
	{
		name:  "Bob Smith",
		email: "bob@example.com",
		posts: []demoPost{
			{title: "Service Performance Tuning", content: "Practical tips for speeding up backend services.", published: true},
			{title: "A Beginner's Guide to REST APIs", content: "A complete walkthrough for newcomers.", published: true},
		},
		cats: []demoCat{{name: "Mittens", age: 4}, {name: "Tiger", age: 1}},
	},
	{
		name:  "Charlie Brown",
		email: "charlie@example.com",
		posts: []demoPost{
			{title: "Working with SQLite", content: "Advanced patterns for embedded databases.", published: false},
		},
		cats: []demoCat{{name: "Luna", age: 5}, {name: "Max", age: 3}, {name: "Bella", age: 2}},
	},
	{
		name:  "Diana Prince",
		email: "diana@example.com",
		cats:  []demoCat{{name: "Wonder Cat", age: 4}},
	},
	{
		name:  "Eva Green",
		email: "eva@example.com",
	},
}

var strayCats = []demoCat{
	{name: "Street Tom", age: 3},
	{name: "Alley Cat", age: 2},
	{name: "Orange Tabby", age: 4},
	{name: "Fluffy", age: 1},
	{name: "Smokey", age: 6},
}

// Run inserts the demo data set in one transaction. It expects an empty
// database; reruns against a seeded store fail on unique constraints.
func Run(ctx context.Context, store storage.Gateway) error {
	var users, cats, posts int
	err := store.InTx(ctx, func(q storage.Queries) error {
		for _, du := range demoUsers {
			user, err := q.CreateUser(ctx, storage.NewUser{Name: du.name, Email: du.email})
			if err != nil {
				return fmt.Errorf("seed user %s: %w", du.email, err)
			}
			users++
			for _, dp := range du.posts {
				if _, err := q.CreatePost(ctx, storage.NewPost{
					AuthorID:  user.ID,
					Title:     dp.title,
					Content:   dp.content,
					Published: dp.published,
				}); err != nil {
					return fmt.Errorf("seed post %q: %w", dp.title, err)
				}
				posts++
			}
			for _, dc := range du.cats {
				ownerID := user.ID
				if _, err := q.CreateCat(ctx, storage.NewCat{Name: dc.name, Age: dc.age, OwnerID: &ownerID}); err != nil {
					return fmt.Errorf("seed cat %s: %w", dc.name, err)
				}
				cats++
			}
		}
		for _, dc := range strayCats {
			if _, err := q.CreateCat(ctx, storage.NewCat{Name: dc.name, Age: dc.age}); err != nil {
				return fmt.Errorf("seed stray cat %s: %w", dc.name, err)
			}
			cats++
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d users, %d cats, %d posts", users, cats, posts)
	return nil
}
