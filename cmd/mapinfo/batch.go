package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dyuri/mapinfo/internal/grp"
	"github.com/dyuri/mapinfo/internal/model"
	"github.com/dyuri/mapinfo/pkg/mapinfo"
)

// target is one MAP to decode: a plain file or an entry inside a GRP
type target struct {
	name  string
	path  string     // File on disk
	entry *grp.Entry // Set for GRP members
}

func (t target) decode() (*model.MapFile, error) {
	if t.entry == nil {
		return mapinfo.ParseFile(t.path)
	}

	m, err := mapinfo.ParseBinaryMAP(t.entry.Open(), t.entry.Size)
	var e *mapinfo.Error
	if errors.As(err, &e) {
		e.Path = t.name
	}
	return m, err
}

type result struct {
	target target
	m      *model.MapFile
	err    error
}

// expandTargets turns the command line into MAP targets. GRP files
// expand to the MAP files they contain, and a GRP without any is an
// error. Anything else is treated as a MAP file and only opened when
// decoded.
func expandTargets(paths []string) ([]target, error) {
	var targets []target
	for _, path := range paths {
		entries, isGRP, err := grpMaps(path)
		if err != nil {
			return nil, err
		}
		if !isGRP {
			targets = append(targets, target{name: path, path: path})
			continue
		}

		if len(entries) == 0 {
			return nil, fmt.Errorf("%w in %s", grp.ErrNoMaps, path)
		}
		log.WithField("file", path).Debugf("GRP container with %d MAP file(s)", len(entries))
		for _, e := range entries {
			targets = append(targets, target{name: path + ":" + e.Name, path: path, entry: e})
		}
	}
	return targets, nil
}

// grpMaps returns the MAP entries of path if it is a GRP container.
// The container stays open for the life of the process.
func grpMaps(path string) ([]*grp.Entry, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		// Reported per file when the target is decoded
		return nil, false, nil
	}
	if !grp.IsGRP(f) {
		f.Close()
		return nil, false, nil
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, true, fmt.Errorf("stat %s: %w", path, err)
	}
	archive, err := grp.Open(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, true, fmt.Errorf("read GRP file %s: %w", path, err)
	}
	maps := archive.Maps()
	if len(maps) == 0 {
		f.Close()
	}
	return maps, true, nil
}

// decodeAll decodes every target using up to jobs goroutines. Targets
// share nothing, so the only coordination is the result slot each
// worker writes. Results keep the order of targets.
func decodeAll(targets []target, jobs int) []result {
	results := make([]result, len(targets))
	if jobs < 1 {
		jobs = 1
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(jobs, len(targets)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				m, err := targets[i].decode()
				results[i] = result{target: targets[i], m: m, err: err}
			}
		}()
	}

	for i := range targets {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return results
}
