package main

import (
	"fmt"
	"slices"
	"strings"

	arc "github.com/hashicorp/golang-lru/arc/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/metric"

	"github.com/djdv/go-clock"
	"github.com/djdv/go-clock/internal/workload"
	"github.com/djdv/go-clock/observe"
)

type (
	policyCtor = func(capacity int, meter metric.Meter) (workload.Cache, error)
	policy     struct {
		name string
		new  policyCtor
	}
	// clockAdapter reports misses as false rather than [clock.ErrNotFound].
	clockAdapter struct {
		clock.Interface[int, int]
	}
	arcAdapter struct {
		*arc.ARCCache[int, int]
	}
	lruAdapter struct {
		*lru.Cache[int, int]
	}
)

func (ca clockAdapter) Get(key int) (int, bool) {
	value, err := ca.Interface.Get(key)
	return value, err == nil
}

func (aa arcAdapter) Set(key, value int) { aa.Add(key, value) }

func (la lruAdapter) Set(key, value int) { la.Add(key, value) }

func policies() []policy {
	return []policy{
		{
			"clock",
			func(capacity int, meter metric.Meter) (workload.Cache, error) {
				cache, err := observe.New[int, int]("clock", capacity, meter)
				if err != nil {
					return nil, err
				}
				return clockAdapter{Interface: cache}, nil
			},
		},
		{
			"clock1",
			func(capacity int, meter metric.Meter) (workload.Cache, error) {
				const limit = 1
				cache, err := observe.New[int, int](
					"clock1", capacity, meter,
					clock.WithReferenceLimit(limit),
				)
				if err != nil {
					return nil, err
				}
				return clockAdapter{Interface: cache}, nil
			},
		},
		{
			"arc",
			func(capacity int, _ metric.Meter) (workload.Cache, error) {
				cache, err := arc.NewARC[int, int](capacity)
				if err != nil {
					return nil, err
				}
				return arcAdapter{ARCCache: cache}, nil
			},
		},
		{
			"lru",
			func(capacity int, _ metric.Meter) (workload.Cache, error) {
				cache, err := lru.New[int, int](capacity)
				if err != nil {
					return nil, err
				}
				return lruAdapter{Cache: cache}, nil
			},
		},
	}
}

func policyNames() []string {
	var names []string
	for _, p := range policies() {
		names = append(names, p.name)
	}
	return names
}

// selectPolicies parses a comma separated list of policy names.
func selectPolicies(list string) ([]policy, error) {
	var (
		available = policies()
		selected  []policy
	)
	for name := range strings.SplitSeq(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		index := slices.IndexFunc(available, func(p policy) bool {
			return p.name == name
		})
		if index == -1 {
			return nil, fmt.Errorf(
				"unknown policy %q (want one of: %s)",
				name, strings.Join(policyNames(), ", "))
		}
		selected = append(selected, available[index])
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no policies selected")
	}
	return selected, nil
}
