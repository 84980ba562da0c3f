package catalog

import (
	"log/slog"

	"github.com/starford/quire/internal/builder"
)

// Sync replaces the catalog contents with the posts of a build report and
// logs how many sources changed since the previous load.
func Sync(cat Catalog, report *builder.Report, logger *slog.Logger) error {
	previous, err := cat.Checksums()
	if err != nil {
		return err
	}

	changed := 0
	current := make(map[string]struct{}, len(report.Posts))
	for _, p := range report.Posts {
		current[p.Source] = struct{}{}
		if previous[p.Source] != p.Checksum {
			changed++
		}
	}
	removed := 0
	for src := range previous {
		if _, ok := current[src]; !ok {
			removed++
		}
	}

	if err := cat.Replace(report.Posts); err != nil {
		return err
	}
	logger.Debug("catalog: synced",
		slog.String("build_id", report.ID),
		slog.Int("posts", len(report.Posts)),
		slog.Int("changed", changed),
		slog.Int("removed", removed))
	return nil
}
