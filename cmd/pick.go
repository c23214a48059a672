package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"
	"gopkg.in/dixonwille/wmenu.v4"

	"github.com/packsmith/packsmith/core"
	"github.com/packsmith/packsmith/resolver"
)

const pickLimit = 10

// CandidateList implements fuzzy.Source over scored search candidates.
type CandidateList []resolver.ScoredCandidate

func (c CandidateList) String(i int) string {
	return c[i].Candidate.Name
}

func (c CandidateList) Len() int {
	return len(c)
}

// pickProject asks the user to choose among the scored candidates for a spec
// that had no confident match. Candidates are fuzzy-ranked by name so the
// likeliest answer is the default choice.
func pickProject(ctx context.Context, eng *engine, spec core.DependencySpec) (core.ResolvedProject, error) {
	scored, err := eng.projects.Candidates(ctx, spec)
	if err != nil {
		return core.ResolvedProject{}, err
	}

	ranked := scored
	if matches := fuzzy.FindFrom(spec.SearchQuery, CandidateList(scored)); len(matches) > 0 {
		ranked = make([]resolver.ScoredCandidate, 0, len(matches))
		for _, match := range matches {
			ranked = append(ranked, scored[match.Index])
		}
	}
	if len(ranked) > pickLimit {
		ranked = ranked[:pickLimit]
	}

	var chosen core.ResolvedProject
	menu := wmenu.NewMenu(fmt.Sprintf("No confident match for %q; choose a number:", spec.SearchQuery))
	menu.Option("Skip", nil, false, nil)
	for i, candidate := range ranked {
		label := fmt.Sprintf("%s (%s, %d downloads)",
			candidate.Candidate.Name,
			candidate.Candidate.Platform.FriendlyName(),
			candidate.Candidate.Downloads)
		menu.Option(label, candidate, i == 0, nil)
	}

	menu.Action(func(menuRes []wmenu.Opt) error {
		if len(menuRes) != 1 || menuRes[0].Value == nil {
			return errors.New("selection cancelled")
		}
		selected, ok := menuRes[0].Value.(resolver.ScoredCandidate)
		if !ok {
			return errors.New("error converting interface from wmenu")
		}
		chosen = core.ResolvedProject{
			ProjectID: selected.Candidate.ProjectID,
			Name:      selected.Candidate.Name,
			Platform:  selected.Candidate.Platform,
			Downloads: selected.Candidate.Downloads,
		}
		return nil
	})

	if err := menu.Run(); err != nil {
		return core.ResolvedProject{}, err
	}
	return chosen, nil
}
