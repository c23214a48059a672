package resolver

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/packsmith/packsmith/core"
)

// MinimumMatchConfidence is the score a candidate must clear before the
// resolver picks it without asking. Substring matches (85) pass; anything
// weaker falls through to the other platform or the interactive picker.
const MinimumMatchConfidence = 70

// ProjectSource is one platform's search and metadata surface. Live
// implementations live in the sources package; tests inject stubs.
type ProjectSource interface {
	Platform() core.Platform
	SearchProjects(ctx context.Context, intent core.SearchIntent, spec core.DependencySpec) ([]core.ProjectCandidate, error)
	GetProject(ctx context.Context, projectID string) (core.ResolvedProject, error)
}

// ScoredCandidate pairs a search hit with its ranking signals, for callers
// that present a pick list instead of taking the top hit.
type ScoredCandidate struct {
	Candidate  core.ProjectCandidate
	Confidence int
	Distance   int
}

// ProjectResolver turns a dependency spec into the best-matching project,
// searching the preferred platform first and the other one when nothing
// there clears the confidence bar.
type ProjectResolver struct {
	sources   map[core.Platform]ProjectSource
	preferred core.Platform
	logger    *log.Logger
}

func NewProjectResolver(preferred core.Platform, logger *log.Logger, sources ...ProjectSource) *ProjectResolver {
	if logger == nil {
		logger = log.Default()
	}
	bySource := make(map[core.Platform]ProjectSource, len(sources))
	for _, s := range sources {
		bySource[s.Platform()] = s
	}
	return &ProjectResolver{sources: bySource, preferred: preferred, logger: logger}
}

// Resolve picks the best-matching project for the spec. An explicit project
// ID skips search entirely.
func (r *ProjectResolver) Resolve(ctx context.Context, spec core.DependencySpec) (core.ResolvedProject, error) {
	if spec.ExplicitProjectID != "" {
		source, ok := r.sources[r.preferred]
		if !ok {
			return core.ResolvedProject{}, fmt.Errorf("mod %s: no source for platform %s", spec.Key, r.preferred)
		}
		project, err := source.GetProject(ctx, spec.ExplicitProjectID)
		if err != nil {
			return core.ResolvedProject{}, fmt.Errorf("mod %s: %w", spec.Key, err)
		}
		return project, nil
	}

	var searched []core.Platform
	var best *ScoredCandidate

	for _, platform := range r.searchOrder() {
		source, ok := r.sources[platform]
		if !ok {
			continue
		}
		searched = append(searched, platform)

		scored, err := r.search(ctx, source, spec)
		if err != nil {
			// A platform failure only matters if the other one can't answer
			// either; log and keep going.
			r.logger.Warn("platform search failed", "mod", spec.Key, "platform", platform, "err", err)
			continue
		}
		if len(scored) == 0 {
			continue
		}

		if best == nil || scoredLess(scored[0], *best) {
			best = &scored[0]
		}
		// A confident hit on the preferred platform wins outright; the
		// other platform is only consulted when it is not.
		if platform == r.preferred && best.Confidence >= MinimumMatchConfidence {
			break
		}
	}

	if best == nil || best.Confidence < MinimumMatchConfidence {
		return core.ResolvedProject{}, &core.NoMatchError{Query: spec.SearchQuery, Platforms: searched}
	}

	r.logger.Debug("resolved project",
		"mod", spec.Key, "project", best.Candidate.Name,
		"platform", best.Candidate.Platform, "confidence", best.Confidence)

	return core.ResolvedProject{
		ProjectID: best.Candidate.ProjectID,
		Name:      best.Candidate.Name,
		Platform:  best.Candidate.Platform,
		Downloads: best.Candidate.Downloads,
	}, nil
}

// Candidates returns every scored hit across both platforms, best first, for
// the interactive picker.
func (r *ProjectResolver) Candidates(ctx context.Context, spec core.DependencySpec) ([]ScoredCandidate, error) {
	var all []ScoredCandidate
	var searched []core.Platform

	for _, platform := range r.searchOrder() {
		source, ok := r.sources[platform]
		if !ok {
			continue
		}
		searched = append(searched, platform)
		scored, err := r.search(ctx, source, spec)
		if err != nil {
			r.logger.Warn("platform search failed", "mod", spec.Key, "platform", platform, "err", err)
			continue
		}
		all = append(all, scored...)
	}

	if len(all) == 0 {
		return nil, &core.NoMatchError{Query: spec.SearchQuery, Platforms: searched}
	}
	sortScored(all)
	return all, nil
}

func (r *ProjectResolver) search(ctx context.Context, source ProjectSource, spec core.DependencySpec) ([]ScoredCandidate, error) {
	candidates, err := source.SearchProjects(ctx, spec.Intent(), spec)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, cand := range candidates {
		scored = append(scored, ScoredCandidate{
			Candidate:  cand,
			Confidence: core.MatchConfidence(spec.SearchQuery, cand.Name, cand.Downloads),
			Distance:   core.NameDistance(spec.SearchQuery, cand.Name),
		})
	}
	sortScored(scored)
	return scored, nil
}

func (r *ProjectResolver) searchOrder() []core.Platform {
	return []core.Platform{r.preferred, r.preferred.Other()}
}

// scoredLess ranks a above b: higher confidence first, then lower edit
// distance, then higher popularity.
func scoredLess(a, b ScoredCandidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return core.PopularityConfidence(a.Candidate.Downloads) > core.PopularityConfidence(b.Candidate.Downloads)
}

func sortScored(scored []ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scoredLess(scored[i], scored[j])
	})
}
