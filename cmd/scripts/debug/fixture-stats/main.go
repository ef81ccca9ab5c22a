package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jessevdk/go-flags"
	"github.com/marqueehq/marquee/pkg/seed"
	"github.com/robinjoseph08/golib/logger"
)

func main() {
	log := logger.New()

	var opts struct {
		Genres bool `short:"g" long:"genres" description:"Print how every genre label maps to a catalog genre"`
		Emails bool `short:"e" long:"emails" description:"Print the address each person is seeded with"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) > 1 {
		fmt.Println("go run ./cmd/scripts/debug/fixture-stats [path/to/fixture.json]")
		os.Exit(1)
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	f, err := seed.LoadFixture(path)
	if err != nil {
		log.Err(err).Fatal("fixture load error")
	}

	counts := seed.Summarize(f)
	fmt.Printf("Movies: %d\nPersons: %d\nCredits: %d\nReviews: %d\n", counts.Movies, counts.Persons, counts.Credits, counts.Reviews)

	if opts.Genres {
		labels := map[string]struct{}{}
		for _, m := range f {
			for _, label := range m.Genres {
				labels[label] = struct{}{}
			}
		}
		sorted := make([]string, 0, len(labels))
		for label := range labels {
			sorted = append(sorted, label)
		}
		sort.Strings(sorted)

		fmt.Println("\nGenres:")
		for _, label := range sorted {
			g := seed.ParseGenreLabel(label)
			fmt.Printf("  %-24s -> %s (%d)\n", label, g, int(g))
		}
	}

	if opts.Emails {
		seen := map[string]struct{}{}
		fmt.Println("\nPersons:")
		for _, m := range f {
			for _, names := range [][]string{m.Actors, m.Directors, m.Producers} {
				for _, name := range names {
					if _, ok := seen[name]; ok {
						continue
					}
					seen[name] = struct{}{}
					fmt.Printf("  %-24s %s\n", name, seed.PersonEmail(name))
				}
			}
		}
	}
}
