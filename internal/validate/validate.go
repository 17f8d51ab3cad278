package validate

import (
	"fmt"
	"strings"

	"pobsd/internal/db"
	"pobsd/internal/game"
	"pobsd/internal/parser"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeMalformedLine      = "malformed_line"
	codeDuplicateName      = "duplicate_name"
	codeDuplicateSteamID   = "duplicate_steam_id"
	codeMissingAdded       = "missing_added_date"
	codeUpdatedBeforeAdded = "updated_before_added"
	codeUnknownStore       = "unknown_store"
)

type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Game     string   `json:"game,omitempty"`
	Line     int      `json:"line,omitempty"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarn)
}

func (r *Report) filter(severity Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

func Run(database *db.Database, diagnostics []parser.Diagnostic) (*Report, error) {
	if database == nil {
		return nil, fmt.Errorf("database is required")
	}

	issues := make([]Issue, 0)
	for _, d := range diagnostics {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeMalformedLine,
			Message:  d.Error(),
			Line:     d.Line,
		})
	}

	seenNames := make(map[string]struct{})
	seenSteam := make(map[int]struct{})
	for _, g := range database.All().Games() {
		issues = append(issues, validateDates(g)...)
		issues = append(issues, validateStores(g)...)

		key := strings.ToLower(g.Name)
		if _, done := seenNames[key]; !done {
			seenNames[key] = struct{}{}
			if n := database.GetExact(g.Name).Len(); n > 1 {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeDuplicateName,
					Message:  fmt.Sprintf("name appears %d times", n),
					Game:     g.Name,
				})
			}
		}

		if id, ok := g.SteamID(); ok {
			if _, done := seenSteam[id]; !done {
				seenSteam[id] = struct{}{}
				if n := database.GetBySteamID(id).Len(); n > 1 {
					issues = append(issues, Issue{
						Severity: SeverityWarn,
						Code:     codeDuplicateSteamID,
						Message:  fmt.Sprintf("steam app %d is linked from %d games", id, n),
						Game:     g.Name,
					})
				}
			}
		}
	}

	return &Report{Issues: issues}, nil
}

func validateDates(g game.Game) []Issue {
	if g.Added == nil {
		return []Issue{{
			Severity: SeverityWarn,
			Code:     codeMissingAdded,
			Message:  "missing Added date",
			Game:     g.Name,
		}}
	}
	if g.Updated != nil && g.Updated.Before(*g.Added) {
		return []Issue{{
			Severity: SeverityError,
			Code:     codeUpdatedBeforeAdded,
			Message: fmt.Sprintf("updated %s is before added %s",
				g.Updated.Format(game.DateLayout), g.Added.Format(game.DateLayout)),
			Game: g.Name,
		}}
	}
	return nil
}

func validateStores(g game.Game) []Issue {
	var issues []Issue
	for _, link := range g.Stores {
		if link.Store != game.StoreUnknown {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeUnknownStore,
			Message:  fmt.Sprintf("unrecognized store url: %s", link.URL),
			Game:     g.Name,
		})
	}
	return issues
}
