package picocover

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bodgit/picocover/header"
)

// Platform describes a kind of ROM image supported by the launcher.
type Platform struct {
	// Name is also used as the output subdirectory
	Name      string
	Extension string
	Layout    header.Layout
	// URLTemplates are the default cover sources
	URLTemplates []string
}

var (
	// NDS is the Nintendo DS.
	NDS = Platform{
		Name:      "nds",
		Extension: ".nds",
		Layout:    header.NDS,
		URLTemplates: []string{
			"https://art.gametdb.com/ds/cover/{region}/{id}.png",
			"https://art.gametdb.com/ds/cover/{region}/{id}.jpg",
		},
	}
	// GBA is the Game Boy Advance.
	GBA = Platform{
		Name:      "gba",
		Extension: ".gba",
		Layout:    header.GBA,
		URLTemplates: []string{
			"https://art.gametdb.com/gba/cover/{region}/{id}.jpg",
		},
	}

	platforms = []Platform{NDS, GBA}
)

// DefaultRegions is the default order in which regions are tried.
var DefaultRegions = []string{"EN", "US", "JA", "EU"}

// PlatformByName returns the platform with the given name.
func PlatformByName(name string) (Platform, error) {
	for _, p := range platforms {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Platform{}, fmt.Errorf("unknown platform %q", name)
}

// Platforms returns the names of all supported platforms.
func Platforms() []string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.Name)
	}
	return names
}

func (p Platform) matches(file string) bool {
	return strings.EqualFold(filepath.Ext(file), p.Extension)
}
