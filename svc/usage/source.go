package usage

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Source loads the plan catalog.
type Source interface {
	Load(ctx context.Context) (map[string]Plan, error)
}

// YAMLSource reads the plan catalog from a YAML file:
//
//	plans:
//	  - id: starter
//	    name: Starter
//	    limits:
//	      stations: 10
//	      users: 25
//	    features: [incident_reports]
//
// A limit of -1 means unlimited.
type YAMLSource struct {
	path string
}

func NewYAMLSource(path string) *YAMLSource {
	if path == "" {
		panic("usage: plans path is required")
	}
	return &YAMLSource{path: path}
}

type yamlPlan struct {
	ID       string           `yaml:"id"`
	Name     string           `yaml:"name"`
	Limits   map[string]int64 `yaml:"limits"`
	Features []string         `yaml:"features"`
}

type yamlCatalog struct {
	Plans []yamlPlan `yaml:"plans"`
}

func (s *YAMLSource) Load(_ context.Context) (map[string]Plan, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrLoadPlans, err)
	}

	var catalog yamlCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, errors.Join(ErrLoadPlans, err)
	}

	plans := make(map[string]Plan, len(catalog.Plans))
	for _, p := range catalog.Plans {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: plan without id in %s", ErrInvalidPlanConfig, s.path)
		}
		if _, dup := plans[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate plan %q in %s", ErrInvalidPlanConfig, p.ID, s.path)
		}

		limits := make(map[Resource]int64, len(p.Limits))
		for res, limit := range p.Limits {
			if limit < Unlimited {
				return nil, fmt.Errorf("%w: plan %q resource %q has limit %d", ErrInvalidPlanConfig, p.ID, res, limit)
			}
			limits[Resource(res)] = limit
		}

		features := make([]Feature, 0, len(p.Features))
		for _, f := range p.Features {
			features = append(features, Feature(f))
		}

		plans[p.ID] = Plan{
			ID:       p.ID,
			Name:     p.Name,
			Limits:   limits,
			Features: features,
		}
	}
	return plans, nil
}

// InMemSource serves a fixed catalog. Intended for tests.
type InMemSource struct {
	plans map[string]Plan
}

func NewInMemSource(plans ...Plan) *InMemSource {
	if len(plans) == 0 {
		panic("usage: at least one plan is required")
	}
	out := make(map[string]Plan, len(plans))
	for _, p := range plans {
		out[p.ID] = Plan{
			ID:       p.ID,
			Name:     p.Name,
			Limits:   maps.Clone(p.Limits),
			Features: slices.Clone(p.Features),
		}
	}
	return &InMemSource{plans: out}
}

func (s *InMemSource) Load(context.Context) (map[string]Plan, error) {
	out := make(map[string]Plan, len(s.plans))
	for id, p := range s.plans {
		out[id] = Plan{
			ID:       p.ID,
			Name:     p.Name,
			Limits:   maps.Clone(p.Limits),
			Features: slices.Clone(p.Features),
		}
	}
	return out, nil
}
