package domain

const (
	sampleProfile  = "https://purl.org/coscine/ap/Sample/"
	processProfile = "https://purl.org/coscine/ap/Process/v2"
)

// testSnapshot builds two projects with three resources:
//
//	0 Samples  (Sample)  files 0, 1  spec [ID Comments]
//	1 Furnace  (Process) files 2     no spec, metadata {Oven, Step}
//	2 Samples2 (Sample)  no files
func testSnapshot() *Snapshot {
	snap := NewSnapshot()
	p0 := snap.AppendProject(ProjectNode{ID: "p0", Name: "Alloys"})
	p1 := snap.AppendProject(ProjectNode{ID: "p1", Path: "/Alloys", Name: "Batch1", Parent: &p0})
	snap.Projects[p0].SubProjects = []ProjectIndex{p1}

	addResource := func(pi ProjectIndex, id, name, profile string, spec MetadataFieldSpec, files ...FileEntry) ResourceIndex {
		ri := snap.AppendResource(ResourceEntry{ID: id, Name: name, Project: pi, Profile: profile, FieldSpec: spec})
		snap.Projects[pi].Resources = append(snap.Projects[pi].Resources, ri)
		for _, f := range files {
			f.Project, f.Resource = pi, ri
			fi := snap.AppendFile(f)
			snap.Resources[ri].Files = append(snap.Resources[ri].Files, fi)
		}
		snap.Resources[ri].TotalSize = snap.SumFileSizes(snap.Resources[ri].Files)
		return ri
	}

	addResource(p0, "r0", "Samples", sampleProfile,
		MetadataFieldSpec{{Name: "ID", Required: true}, {Name: "Comments"}},
		FileEntry{ID: "a.txt", Name: "a.txt", Path: "/Alloys/Samples/a.txt", Size: 10, Metadata: map[string]any{"ID": "S1"}},
		FileEntry{ID: "b.dat", Name: "b.dat", Path: "/Alloys/Samples/b.dat", Size: 20, Metadata: map[string]any{"ID": "S2", "Comments": "x"}},
	)
	addResource(p0, "r1", "Furnace", processProfile, nil,
		FileEntry{ID: "log.csv", Name: "log.csv", Size: 7, Metadata: map[string]any{"Step": 1, "Oven": "A"}},
	)
	addResource(p1, "r2", "Samples2", sampleProfile, MetadataFieldSpec{{Name: "ID"}})
	return snap
}
