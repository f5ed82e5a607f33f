package service

import "testing"

func TestCommandSearch(t *testing.T) {
	svc := NewCommandService()

	t.Run("empty query returns the full registry", func(t *testing.T) {
		all := svc.Search("")
		if len(all) != len(defaultCommands()) {
			t.Fatalf("got %d commands, want %d", len(all), len(defaultCommands()))
		}
	})

	t.Run("whitespace query returns the full registry", func(t *testing.T) {
		all := svc.Search("   ")
		if len(all) != len(defaultCommands()) {
			t.Fatalf("got %d commands, want %d", len(all), len(defaultCommands()))
		}
	})

	t.Run("matches on label", func(t *testing.T) {
		results := svc.Search("create inv")
		if len(results) == 0 {
			t.Fatal("no results")
		}
		if results[0].ID != "invoice.create" {
			t.Errorf("top result = %s, want invoice.create", results[0].ID)
		}
	})

	t.Run("matches on keywords", func(t *testing.T) {
		results := svc.Search("csv")
		found := false
		for _, cmd := range results {
			if cmd.ID == "invoice.export" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected invoice.export in results, got %v", results)
		}
	})

	t.Run("no match returns empty", func(t *testing.T) {
		results := svc.Search("zzzzqqqq")
		if len(results) != 0 {
			t.Errorf("expected no results, got %v", results)
		}
	})
}
