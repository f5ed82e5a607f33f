package service

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Command describes one entry in the command palette
type Command struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords,omitempty"`
	Group    string   `json:"group"`
	Shortcut string   `json:"shortcut,omitempty"`
	Action   string   `json:"action"` // route the client dispatches to
}

// CommandService serves the static command registry consumed by the
// fuzzy-search palette
type CommandService struct {
	commands []Command
	haystack []string
}

// NewCommandService creates a command service over the default registry
func NewCommandService() *CommandService {
	return newCommandService(defaultCommands())
}

func newCommandService(commands []Command) *CommandService {
	haystack := make([]string, len(commands))
	for i, cmd := range commands {
		haystack[i] = cmd.Label + " " + strings.Join(cmd.Keywords, " ")
	}
	return &CommandService{commands: commands, haystack: haystack}
}

// Search returns commands fuzzy-matched against the query, best match first.
// An empty query returns the full registry in its declared group order.
func (s *CommandService) Search(query string) []Command {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.commands
	}

	matches := fuzzy.Find(query, s.haystack)
	sort.Stable(matches)

	results := make([]Command, 0, len(matches))
	for _, m := range matches {
		results = append(results, s.commands[m.Index])
	}
	return results
}

// defaultCommands is the static registry. Actions are client routes; a
// subset dispatches the same mutation endpoints the grid uses.
func defaultCommands() []Command {
	return []Command{
		{
			ID:       "invoice.create",
			Label:    "Create invoice",
			Keywords: []string{"new", "add", "bill"},
			Group:    "Invoices",
			Shortcut: "c i",
			Action:   "/invoices/new",
		},
		{
			ID:       "invoice.list",
			Label:    "Go to invoices",
			Keywords: []string{"list", "all", "dashboard"},
			Group:    "Invoices",
			Shortcut: "g i",
			Action:   "/invoices",
		},
		{
			ID:       "invoice.export",
			Label:    "Export invoices",
			Keywords: []string{"download", "csv"},
			Group:    "Invoices",
			Action:   "/invoices/export",
		},
		{
			ID:       "org.switch",
			Label:    "Switch organization",
			Keywords: []string{"tenant", "workspace", "change"},
			Group:    "Organization",
			Shortcut: "g o",
			Action:   "/organizations",
		},
		{
			ID:       "org.members",
			Label:    "Manage members",
			Keywords: []string{"team", "users", "invite"},
			Group:    "Organization",
			Action:   "/organizations/members",
		},
		{
			ID:       "settings.profile",
			Label:    "Profile settings",
			Keywords: []string{"account", "me"},
			Group:    "Settings",
			Action:   "/settings/profile",
		},
		{
			ID:       "settings.theme",
			Label:    "Toggle theme",
			Keywords: []string{"dark", "light", "mode"},
			Group:    "Settings",
			Shortcut: "t t",
			Action:   "/settings/theme",
		},
	}
}
