// Package organism maps an organism key to the reference identifiers the
// inference engine needs. The table is closed: unknown keys are a
// configuration error.
package organism

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"grnexport/internal/grnerr"
)

// ErrUnknown is wrapped by the ConfigError returned for unmapped keys.
var ErrUnknown = errors.New("unknown organism")

type Organism struct {
	Key         string
	Species     string
	Assembly    string
	TFList      string // relative to the resources dir
	BiomartHost string
}

var table = map[string]Organism{
	"human": {
		Key:         "human",
		Species:     "hsapiens",
		Assembly:    "hg38",
		TFList:      "tf_lists/human.txt",
		BiomartHost: "http://sep2019.archive.ensembl.org/",
	},
}

// Lookup returns the entry for key.
func Lookup(key string) (Organism, error) {
	if o, ok := table[key]; ok {
		return o, nil
	}
	return Organism{}, &grnerr.ConfigError{
		Field: "organism",
		Value: key,
		Err:   fmt.Errorf("%w (known: %s)", ErrUnknown, strings.Join(Known(), ", ")),
	}
}

// Known lists the mapped keys, sorted.
func Known() []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
