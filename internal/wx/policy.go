package wx

import "strings"

// Decision is the verdict of the MSVC library naming policy.
type Decision int

const (
	Skip Decision = iota
	Link
)

func (d Decision) String() string {
	if d == Link {
		return "link"
	}
	return "skip"
}

type namingRule struct {
	prefix   string
	decision Decision
}

// releaseRules selects the unicode release build of wxWidgets 3.1 from a
// vc_*_lib directory. Rules are matched in order, first prefix wins; the
// "ud" rules must precede their "u" counterparts.
var releaseRules = []namingRule{
	{"wxmsw31ud", Skip},
	{"wxbase31ud", Skip},
	{"wxmsw31u", Link},
	{"wxbase31u", Link},
}

// debugSuffix marks debug builds of the bundled third-party libraries
// (wxpngd, wxzlibd, ...).
const debugSuffix = "d"

// Decide applies the naming policy to a library file stem.
func Decide(stem string) Decision {
	for _, r := range releaseRules {
		if strings.HasPrefix(stem, r.prefix) {
			return r.decision
		}
	}
	if strings.HasSuffix(stem, debugSuffix) {
		return Skip
	}
	return Link
}

// SelectLibraries filters stems down to the ones to link, keeping order.
func SelectLibraries(stems []string) []string {
	var selected []string
	for _, stem := range stems {
		if Decide(stem) == Link {
			selected = append(selected, stem)
		}
	}
	return selected
}
