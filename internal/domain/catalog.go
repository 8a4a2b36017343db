package domain

import (
	"fmt"
	"path/filepath"
)

// Fixed columns of a metadata table, ahead of the files' own metadata
var (
	ColFileName   = Col("file name")
	ColFileType   = Col("file type")
	ColFileSize   = Col("file size")
	ColFilePath   = Col("file path")
	ColResourceID = Col("resourceId")
	ColProjectID  = Col("projectId")
)

// FixedColumns lists the leading columns of every metadata table
var FixedColumns = []Column{ColFileName, ColFileType, ColFileSize, ColFilePath, ColResourceID, ColProjectID}

// Catalog answers queries over a snapshot: schemes, file selection and
// metadata tables. It never mutates the snapshot.
type Catalog struct {
	snap    *Snapshot
	schemes *SchemeIndex
}

// NewCatalog classifies the snapshot. Returns ErrNoData for an empty snapshot.
func NewCatalog(snap *Snapshot) (*Catalog, error) {
	schemes, err := Classify(snap)
	if err != nil {
		return nil, err
	}
	return &Catalog{snap: snap, schemes: schemes}, nil
}

// Snapshot returns the underlying snapshot
func (c *Catalog) Snapshot() *Snapshot {
	return c.snap
}

// SchemeNames returns all scheme names in first-seen order
func (c *Catalog) SchemeNames() []string {
	return c.schemes.Names()
}

// FieldSpec returns the canonical field spec of a scheme
func (c *Catalog) FieldSpec(scheme string) (MetadataFieldSpec, error) {
	if !c.schemes.Has(scheme) {
		return nil, &UnknownSchemeError{Scheme: scheme, Available: c.schemes.Names()}
	}
	return c.schemes.FieldSpec(scheme), nil
}

// ResourcesForScheme returns the resource indices of a scheme.
// Resources without files are skipped unless includeEmpty is set.
func (c *Catalog) ResourcesForScheme(scheme string, includeEmpty bool) ([]ResourceIndex, error) {
	all, err := c.schemes.Resources(scheme)
	if err != nil {
		return nil, err
	}
	if includeEmpty {
		return all, nil
	}
	result := make([]ResourceIndex, 0, len(all))
	for _, ri := range all {
		if len(c.snap.Resources[ri].Files) > 0 {
			result = append(result, ri)
		}
	}
	return result, nil
}

// FilesForScheme returns the files of a scheme in resource then file order
func (c *Catalog) FilesForScheme(scheme string) ([]FileEntry, error) {
	idxs, err := c.ResolveFileIndices(SchemeSource(scheme))
	if err != nil {
		return nil, err
	}
	files := make([]FileEntry, len(idxs))
	for i, fi := range idxs {
		files[i] = c.snap.Files[fi]
	}
	return files, nil
}

// SchemeOf returns the scheme name of a resource
func (c *Catalog) SchemeOf(ri ResourceIndex) (string, error) {
	res, err := c.snap.Resource(ri)
	if err != nil {
		return "", err
	}
	return SchemeName(res.Profile), nil
}

// ResolveFileIndices unifies every Source shape into a file index list
func (c *Catalog) ResolveFileIndices(src Source) ([]FileIndex, error) {
	switch s := src.(type) {
	case SchemeSource:
		resources, err := c.ResourcesForScheme(string(s), false)
		if err != nil {
			return nil, err
		}
		return c.filesOf(resources)
	case ResourceListSource:
		var files []FileIndex
		for _, res := range s {
			files = append(files, res.Files...)
		}
		return files, nil
	case IndexListSource:
		return c.filesOf(s)
	case ResourceSource:
		return append([]FileIndex(nil), s.Files...), nil
	case IndexSource:
		return c.filesOf([]ResourceIndex{ResourceIndex(s)})
	default:
		return nil, &TypeMismatchError{Source: src}
	}
}

func (c *Catalog) filesOf(resources []ResourceIndex) ([]FileIndex, error) {
	var files []FileIndex
	for _, ri := range resources {
		res, err := c.snap.Resource(ri)
		if err != nil {
			return nil, err
		}
		files = append(files, res.Files...)
	}
	return files, nil
}

// BuildMetadataTable flattens the metadata of the selected files into one
// row per file. All files must belong to resources of the same scheme,
// otherwise a SchemaMismatchError is returned. A source without files
// yields ("", nil, nil).
func (c *Catalog) BuildMetadataTable(src Source) (string, *Table, error) {
	fileIdxs, err := c.ResolveFileIndices(src)
	if err != nil {
		return "", nil, err
	}
	if len(fileIdxs) == 0 {
		return "", nil, nil
	}

	first, err := c.snap.File(fileIdxs[0])
	if err != nil {
		return "", nil, err
	}
	scheme, err := c.SchemeOf(first.Resource)
	if err != nil {
		return "", nil, err
	}
	order := append([]Column(nil), FixedColumns...)
	for _, key := range c.schemes.FieldSpec(scheme).Keys() {
		order = append(order, Col(key))
	}

	seen := map[ResourceIndex]bool{first.Resource: true}
	table := NewTable(FixedColumns...)
	for _, fi := range fileIdxs {
		file, err := c.snap.File(fi)
		if err != nil {
			return "", nil, err
		}
		if !seen[file.Resource] {
			other, err := c.SchemeOf(file.Resource)
			if err != nil {
				return "", nil, err
			}
			if other != scheme {
				return "", nil, &SchemaMismatchError{Expected: scheme, Found: other, Resource: file.Resource}
			}
			seen[file.Resource] = true
		}

		row, err := c.fileRow(file)
		if err != nil {
			return "", nil, err
		}
		table.Append(row, order...)
	}
	return scheme, table, nil
}

func (c *Catalog) fileRow(file *FileEntry) (Row, error) {
	res, err := c.snap.Resource(file.Resource)
	if err != nil {
		return nil, err
	}
	pr, err := c.snap.Project(file.Project)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", file.Name, err)
	}
	row := Row{
		ColFileName:   file.Name,
		ColFileType:   filepath.Ext(file.Name),
		ColFileSize:   file.Size,
		ColFilePath:   file.Path,
		ColResourceID: res.ID,
		ColProjectID:  pr.ID,
	}
	for k, v := range file.Metadata {
		row[Col(k)] = v
	}
	return row, nil
}
