package normalize

import (
	"maps"

	"github.com/julianstephens/daybook/internal/models"
)

// entryUpgrade rewrites a raw entry stored at version from into version from+1.
type entryUpgrade struct {
	from  int
	apply func(raw map[string]any)
}

var entryUpgrades = []entryUpgrade{
	{from: 0, apply: renameRatingFields},
}

// upgradeEntry returns a copy of raw brought up to the current entry layout
// and the version it ended at.
func upgradeEntry(raw map[string]any) (map[string]any, int) {
	out := maps.Clone(raw)
	version := integer(out, "schemaVersion", 0)
	if version < 0 {
		version = 0
	}
	for _, u := range entryUpgrades {
		if u.from == version {
			u.apply(out)
			version++
		}
	}
	if version > models.EntrySchemaVersion {
		return out, version
	}
	return out, models.EntrySchemaVersion
}

// renameRatingFields maps dayRating and reflectionRating onto the
// initial/final rating fields. Values already in the new fields win.
func renameRatingFields(raw map[string]any) {
	rename := func(oldKey, newKey string) {
		if _, ok := present(raw, newKey); !ok {
			if v, ok := present(raw, oldKey); ok {
				raw[newKey] = v
			}
		}
		delete(raw, oldKey)
	}
	rename("dayRating", "initialRating")
	rename("reflectionRating", "finalRating")
}
