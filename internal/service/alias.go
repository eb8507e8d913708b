package service

import (
	"sort"
	"strings"

	"github.com/smokyabdulrahman/miqat/internal/solar"
)

// DefaultMethod is used for empty and unrecognised method aliases.
const DefaultMethod = solar.NorthAmerica

var methodAliases = map[string]solar.Method{
	"mwl":                 solar.MuslimWorldLeague,
	"muslim_world_league": solar.MuslimWorldLeague,
	"isna":                solar.NorthAmerica,
	"north_america":       solar.NorthAmerica,
	"egypt":               solar.Egyptian,
	"egyptian":            solar.Egyptian,
	"karachi":             solar.Karachi,
	"umm_al_qura":         solar.UmmAlQura,
	"makkah":              solar.UmmAlQura,
	"dubai":               solar.Dubai,
	"qatar":               solar.Qatar,
	"kuwait":              solar.Kuwait,
	"singapore":           solar.Singapore,
	"other":               solar.Other,
}

var madhhabAliases = map[string]solar.Madhhab{
	"":        solar.Shafii,
	"shafi":   solar.Shafii,
	"shafii":  solar.Shafii,
	"shafi'i": solar.Shafii,
	"hanafi":  solar.Hanafi,
}

// normalizeAlias lowercases and trims alias and treats '-' and ' ' as '_'.
func normalizeAlias(alias string) string {
	a := strings.ToLower(strings.TrimSpace(alias))
	return strings.NewReplacer("-", "_", " ", "_").Replace(a)
}

// NormalizeMethod maps a case-insensitive alias to a Method. The bool is
// false when the alias was not recognised and DefaultMethod was substituted.
// An empty alias selects DefaultMethod and counts as recognised.
func NormalizeMethod(alias string) (solar.Method, bool) {
	a := normalizeAlias(alias)
	if a == "" {
		return DefaultMethod, true
	}
	if m, ok := methodAliases[a]; ok {
		return m, true
	}
	return DefaultMethod, false
}

// NormalizeMadhhab maps "hanafi" (any case) to Hanafi and everything else to
// Shafii. The bool reports whether the alias was a known spelling.
func NormalizeMadhhab(alias string) (solar.Madhhab, bool) {
	if m, ok := madhhabAliases[normalizeAlias(alias)]; ok {
		return m, true
	}
	return solar.Shafii, false
}

// MethodAliases returns the sorted aliases accepted for m.
func MethodAliases(m solar.Method) []string {
	var out []string
	for a, mm := range methodAliases {
		if mm == m {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}
