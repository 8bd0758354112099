package language

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// TagsResource lists every tag the synthesizer accepts.
	TagsResource = "/sr/dictionary/serbian_synth_tags.txt"
	// SpellerResource is the speller word list, shared by both dialects.
	SpellerResource = "/sr/hunspell/sr_RS.dict"
)

// Dialect names the resources of one Serbian norm. All dialects share the
// same algorithms.
type Dialect struct {
	Name       string
	Locale     string
	Dictionary string
	Additions  string
	Removals   string
	Synthesis  string
	Speller    string
}

var (
	Ekavian = Dialect{
		Name:       "ekavian",
		Locale:     "sr-RS",
		Dictionary: "/sr/dictionary/ekavian/serbian.dict",
		Additions:  "/sr/dictionary/ekavian/added.txt",
		Removals:   "/sr/dictionary/ekavian/removed.txt",
		Synthesis:  "/sr/dictionary/ekavian/serbian_synth.dict",
		Speller:    SpellerResource,
	}
	Jekavian = Dialect{
		Name:       "jekavian",
		Locale:     "sr",
		Dictionary: "/sr/dictionary/jekavian/serbian.dict",
		Additions:  "/sr/dictionary/jekavian/added.txt",
		Removals:   "/sr/dictionary/jekavian/removed.txt",
		Synthesis:  "/sr/dictionary/jekavian/serbian_synth.dict",
		Speller:    SpellerResource,
	}
)

// Dialects lists the known dialects, default first.
func Dialects() []Dialect {
	return []Dialect{Ekavian, Jekavian}
}

// DialectByName looks a dialect up by name. An empty name selects Ekavian.
func DialectByName(name string) (Dialect, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Ekavian, nil
	}
	for _, d := range Dialects() {
		if d.Name == name {
			return d, nil
		}
	}
	return Dialect{}, fmt.Errorf("unknown dialect %q", name)
}

// Resolve maps a resource name onto a file below root. Empty names stay
// empty.
func Resolve(root, resource string) string {
	if resource == "" {
		return ""
	}
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(resource, "/")))
}
