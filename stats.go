package picocover

import "fmt"

// Stats summarises a run. Processed counts every file recognised as a ROM of
// the expected kind and always equals Saved + Skipped + Errored.
type Stats struct {
	Processed int
	Saved     int
	Skipped   int
	Errored   int
	// SkippedGames and FailedGames hold the file names, without
	// extension, in completion order
	SkippedGames []string
	FailedGames  []string
}

func (s Stats) String() string {
	return fmt.Sprintf("Processed=%d Saved=%d Skipped=%d Errors=%d", s.Processed, s.Saved, s.Skipped, s.Errored)
}

type result int

const (
	resultIgnored result = iota
	resultSaved
	resultSkipped
	resultFailed
)

type outcome struct {
	result result
	name   string
}

// collect is the only writer of the statistics; workers send outcomes and
// never touch the counters themselves.
func collect(in <-chan outcome, total int, progress func(int, int)) <-chan Stats {
	out := make(chan Stats, 1)
	go func() {
		defer close(out)
		var s Stats
		var done int
		for o := range in {
			switch o.result {
			case resultSaved:
				s.Processed++
				s.Saved++
			case resultSkipped:
				s.Processed++
				s.Skipped++
				s.SkippedGames = append(s.SkippedGames, o.name)
			case resultFailed:
				s.Processed++
				s.Errored++
				s.FailedGames = append(s.FailedGames, o.name)
			}
			done++
			if progress != nil {
				progress(done, total)
			}
		}
		out <- s
	}()
	return out
}
