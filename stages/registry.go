// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stages

import (
	"fmt"
	"slices"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/exp/maps"
)

// Info describes a registered [Stage].
type Info struct {
	// Name is the unique name used to select the stage.
	Name string

	// Doc is a one line description.
	Doc string

	// Order is the position of the stage in the tutorial sequence.
	Order int

	// New returns a new uninitialized instance of the stage.
	New func() Stage
}

var registry = map[string]Info{}

// Register adds a stage to the registry. It panics if the name
// is already registered, as that is a programmer error.
func Register(info Info) {
	if _, has := registry[info.Name]; has {
		panic(fmt.Sprintf("stages.Register: stage %q already registered", info.Name))
	}
	registry[info.Name] = info
}

// Infos returns all registered stages in tutorial order.
func Infos() []Info {
	infos := maps.Values(registry)
	slices.SortFunc(infos, func(a, b Info) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		if a.Name < b.Name {
			return -1
		}
		return 1
	})
	return infos
}

// Names returns the sorted names of all registered stages.
func Names() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}

// New returns a new instance of the named stage. Unknown names
// return an error suggesting the most similar registered name.
func New(name string) (Stage, error) {
	info, ok := registry[name]
	if !ok {
		err := fmt.Errorf("stages: unknown stage %q", name)
		if sg := suggest(name); sg != "" {
			err = fmt.Errorf("%w (did you mean %q?)", err, sg)
		}
		return nil, err
	}
	return info.New(), nil
}

func suggest(name string) string {
	best := ""
	bestSim := 0.5
	metric := metrics.NewJaroWinkler()
	for _, nm := range Names() {
		if sim := strutil.Similarity(name, nm, metric); sim >= bestSim {
			best, bestSim = nm, sim
		}
	}
	return best
}
