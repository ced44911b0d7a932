package drift

import "sort"

// Result represents the comparison of recorded output against output on disk.
type Result struct {
	// HasDrift is true if any differences were found
	HasDrift bool

	// ExpectedRoot is the merkle root that was recorded
	ExpectedRoot string

	// ActualRoot is the merkle root of the files found now
	ActualRoot string

	Missing  []string // Recorded but not on disk
	Extra    []string // On disk but not recorded
	Modified []string // Content differs
	Verified []string // Content matches
}

// Compare compares two output hashes. All path lists are sorted.
func Compare(expected, actual *OutputHash) *Result {
	result := &Result{
		ExpectedRoot: expected.Root,
		ActualRoot:   actual.Root,
	}

	for path, want := range expected.Files {
		got, ok := actual.Files[path]
		switch {
		case !ok:
			result.Missing = append(result.Missing, path)
		case got != want:
			result.Modified = append(result.Modified, path)
		default:
			result.Verified = append(result.Verified, path)
		}
	}
	for path := range actual.Files {
		if _, ok := expected.Files[path]; !ok {
			result.Extra = append(result.Extra, path)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.Extra)
	sort.Strings(result.Modified)
	sort.Strings(result.Verified)

	result.HasDrift = expected.Root != actual.Root ||
		len(result.Missing) > 0 || len(result.Extra) > 0 || len(result.Modified) > 0
	return result
}
