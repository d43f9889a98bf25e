// Package scenario runs keyed list diffs over an in-memory host and reports
// the host operations they cost. It backs the diff and bench commands.
package scenario

import (
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/host/memdom"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Scenario is one keyed list transition.
type Scenario struct {
	Name string   `toml:"name"`
	Old  []string `toml:"old"`
	New  []string `toml:"new"`
}

// File is the TOML layout read by Load:
//
//	[[case]]
//	name = "rotate"
//	old = ["a", "b", "c"]
//	new = ["c", "a", "b"]
type File struct {
	Cases []Scenario `toml:"case"`
}

// Result is the outcome of running a Scenario.
type Result struct {
	Scenario Scenario
	Before   string
	After    string
	Ops      []memdom.Op
	Created  int
	Removed  int
	Moved    int
	Duration time.Duration
}

// ParseKeys splits a comma separated key list. Blank entries are dropped.
func ParseKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Load reads scenarios from a TOML file.
func Load(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("X001").WithSource(path).Wrap(err)
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.New("X001").
			WithSource(path).
			WithDetail("Failed to parse scenario file: " + err.Error()).
			Wrap(err)
	}
	if len(f.Cases) == 0 {
		return nil, errors.New("X001").
			WithSource(path).
			WithDetail("No [[case]] tables found").
			WithSuggestion(`Add a case: [[case]] old = ["a", "b"] new = ["b", "a"]`)
	}
	for i := range f.Cases {
		if f.Cases[i].Name == "" {
			f.Cases[i].Name = "case " + strconv.Itoa(i+1)
		}
		if err := f.Cases[i].Validate(); err != nil {
			return nil, err
		}
	}
	return f.Cases, nil
}

// Validate rejects duplicate keys, which the keyed diff cannot place.
func (s Scenario) Validate() error {
	for _, side := range []struct {
		name string
		keys []string
	}{{"old", s.Old}, {"new", s.New}} {
		seen := make(map[string]bool, len(side.keys))
		for _, k := range side.keys {
			if seen[k] {
				return errors.New("X001").
					WithDetail(s.Name + ": duplicate key " + strconv.Quote(k) + " in " + side.name + " list").
					WithSuggestion("Keys must be unique among siblings")
			}
			seen[k] = true
		}
	}
	return nil
}

// List builds a keyed <ul> with one <li> per key.
func List(keys []string) *vdom.VNode {
	children := make([]*vdom.VNode, len(keys))
	for i, k := range keys {
		children[i] = vdom.Li(vdom.Key(k), k)
	}
	return vdom.Ul(children)
}

// Run renders s.Old, patches it to s.New and records the operations of the
// patch.
func Run(s Scenario) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	doc := memdom.New()
	r := renderer.New(doc, renderer.WithScheduler(scheduler.New()))

	r.Render(List(s.Old), doc.Root())
	before := doc.HTML()
	doc.ResetOps()

	start := time.Now()
	r.Render(List(s.New), doc.Root())
	d := time.Since(start)

	return Result{
		Scenario: s,
		Before:   before,
		After:    doc.HTML(),
		Ops:      doc.Ops(),
		Created:  doc.Count(memdom.OpCreate),
		Removed:  doc.Count(memdom.OpRemove),
		Moved:    doc.Count(memdom.OpMove),
		Duration: d,
	}, nil
}

// BenchResult aggregates Bench rounds.
type BenchResult struct {
	Size    int
	Rounds  int
	Created int
	Removed int
	Moved   int
	Total   time.Duration
	Slowest time.Duration
}

// Mean returns the mean patch duration.
func (b BenchResult) Mean() time.Duration {
	if b.Rounds == 0 {
		return 0
	}
	return b.Total / time.Duration(b.Rounds)
}

// Bench patches a keyed list of size items through rounds random
// permutations. Each round drops and adds about a tenth of the keys. The
// same seed gives the same sequence.
func Bench(size, rounds int, seed uint64) BenchResult {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	doc := memdom.New()
	doc.SetRecording(false)
	counts := map[memdom.OpKind]int{}
	doc.OnOp(func(op memdom.Op) { counts[op.Kind]++ })
	r := renderer.New(doc, renderer.WithScheduler(scheduler.New()))

	next := size
	keys := make([]string, size)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	r.Render(List(keys), doc.Root())
	clear(counts)

	res := BenchResult{Size: size, Rounds: rounds}
	for range rounds {
		keys, next = Shuffle(keys, next, rng)
		start := time.Now()
		r.Render(List(keys), doc.Root())
		d := time.Since(start)
		res.Total += d
		res.Slowest = max(res.Slowest, d)
	}
	res.Created = counts[memdom.OpCreate]
	res.Removed = counts[memdom.OpRemove]
	res.Moved = counts[memdom.OpMove]
	return res
}

// Shuffle returns a permutation of keys with about a tenth of them replaced
// by fresh keys numbered from next. It returns the next unused number.
func Shuffle(keys []string, next int, rng *rand.Rand) ([]string, int) {
	out := make([]string, len(keys))
	copy(out, keys)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	for range len(out) / 10 {
		out[rng.IntN(len(out))] = strconv.Itoa(next)
		next++
	}
	return out, next
}
