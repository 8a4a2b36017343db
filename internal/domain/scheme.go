package domain

import (
	"slices"
	"strings"
)

// SchemeName returns the human readable scheme label of an application
// profile URI: its second-to-last slash separated segment.
//
//	https://purl.org/coscine/ap/sample/ -> "sample"
//	https://example.org/ap/Process/v2   -> "Process"
func SchemeName(profile string) string {
	parts := strings.Split(profile, "/")
	if len(parts) < 2 {
		return profile
	}
	return parts[len(parts)-2]
}

// SchemeIndex groups resources by scheme name, in first-seen order
type SchemeIndex struct {
	names     []string
	resources map[string][]ResourceIndex
	specs     map[string]MetadataFieldSpec
}

// Classify partitions the snapshot's resources by scheme.
// Schemes whose first resource carries no field spec get one backfilled from
// the metadata keys of the first file of that scheme whose metadata was
// retrieved. Returns ErrNoData if no scheme results.
func Classify(snap *Snapshot) (*SchemeIndex, error) {
	idx := &SchemeIndex{
		resources: make(map[string][]ResourceIndex),
		specs:     make(map[string]MetadataFieldSpec),
	}
	if snap == nil {
		return nil, ErrNoData
	}

	var missingSpec []string
	for i, res := range snap.Resources {
		name := SchemeName(res.Profile)
		if _, seen := idx.resources[name]; !seen {
			idx.names = append(idx.names, name)
			idx.resources[name] = nil
			if res.FieldSpec != nil {
				idx.specs[name] = res.FieldSpec
			} else {
				missingSpec = append(missingSpec, name)
			}
		}
		idx.resources[name] = append(idx.resources[name], ResourceIndex(i))
	}

	for _, name := range missingSpec {
		if spec := idx.backfillSpec(snap, name); spec != nil {
			idx.specs[name] = spec
		}
	}

	if len(idx.names) == 0 {
		return nil, ErrNoData
	}
	return idx, nil
}

func (idx *SchemeIndex) backfillSpec(snap *Snapshot, name string) MetadataFieldSpec {
	for _, ri := range idx.resources[name] {
		for _, fi := range snap.Resources[ri].Files {
			file := snap.Files[fi]
			if !file.HasMetadata() {
				continue
			}
			keys := make([]string, 0, len(file.Metadata))
			for k := range file.Metadata {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			spec := make(MetadataFieldSpec, len(keys))
			for i, k := range keys {
				spec[i] = FieldSpec{Name: k}
			}
			return spec
		}
	}
	return nil
}

// Names returns the scheme names in first-seen order
func (idx *SchemeIndex) Names() []string {
	return slices.Clone(idx.names)
}

// Has reports whether the scheme exists
func (idx *SchemeIndex) Has(name string) bool {
	_, ok := idx.resources[name]
	return ok
}

// Resources returns the resource indices of a scheme
func (idx *SchemeIndex) Resources(name string) ([]ResourceIndex, error) {
	res, ok := idx.resources[name]
	if !ok {
		return nil, &UnknownSchemeError{Scheme: name, Available: idx.Names()}
	}
	return slices.Clone(res), nil
}

// FieldSpec returns the canonical field spec of a scheme, nil if none is known
func (idx *SchemeIndex) FieldSpec(name string) MetadataFieldSpec {
	return idx.specs[name]
}
