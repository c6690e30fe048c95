package entry

import (
	"strconv"
	"strings"

	"github.com/welschmorgan/nbuild/internal/nberrors"
	"github.com/welschmorgan/nbuild/internal/tag"
)

// ParseLocation parses the remainder of a "--> path[:line[:column]]" line
// into a Loc, per spec.md section 4.3 step 3. A non-numeric line is
// silently dropped (line stays nil); a present but non-numeric column is
// a Parsing error, though the location (path, or path+line) is still
// returned so the caller can still record it.
func ParseLocation(rest string) (tag.Loc, error) {
	parts := strings.SplitN(strings.TrimSpace(rest), ":", 3)
	loc := tag.Loc{Path: parts[0]}
	if len(parts) > 1 {
		if n, err := strconv.Atoi(parts[1]); err == nil && n >= 0 {
			loc.Line = &n
		}
	}
	if len(parts) > 2 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n < 0 {
			return loc, nberrors.New(nberrors.KindParsing, "failed to parse column from %q", parts[2])
		}
		loc.Column = &n
	}
	return loc, nil
}

// HasLocationPrefix reports whether a trimmed message begins with the
// "-->" location marker cargo-style tools emit.
func HasLocationPrefix(trimmed string) bool {
	return strings.HasPrefix(trimmed, "-->")
}
