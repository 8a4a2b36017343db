package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Source selects a set of files. It is a closed union:
// SchemeSource, ResourceListSource, IndexListSource, ResourceSource, IndexSource.
type Source interface {
	isSource()
	String() string
}

// SchemeSource selects all files of all resources of a scheme
type SchemeSource string

// ResourceListSource selects the files of the listed resources, in list order
type ResourceListSource []ResourceEntry

// IndexListSource selects the files of the listed resource indices, in list order
type IndexListSource []ResourceIndex

// ResourceSource selects the files of one resource
type ResourceSource ResourceEntry

// IndexSource selects the files of one resource index
type IndexSource ResourceIndex

func (SchemeSource) isSource()       {}
func (ResourceListSource) isSource() {}
func (IndexListSource) isSource()    {}
func (ResourceSource) isSource()     {}
func (IndexSource) isSource()        {}

func (s SchemeSource) String() string { return "scheme " + string(s) }

func (s ResourceListSource) String() string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = r.Name
	}
	return "resources [" + strings.Join(names, ", ") + "]"
}

func (s IndexListSource) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = strconv.Itoa(int(r))
	}
	return "resources [" + strings.Join(parts, ", ") + "]"
}

func (s ResourceSource) String() string { return "resource " + s.Name }

func (s IndexSource) String() string { return fmt.Sprintf("resource %d", int(s)) }

// ParseSource interprets a command line argument:
//
//	"12"     -> IndexSource(12)
//	"1,2,5"  -> IndexListSource{1, 2, 5}
//	"Sample" -> SchemeSource("Sample")
func ParseSource(arg string) Source {
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil {
		return IndexSource(n)
	}
	if strings.Contains(arg, ",") {
		parts := strings.Split(arg, ",")
		list := make(IndexListSource, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return SchemeSource(arg)
			}
			list = append(list, ResourceIndex(n))
		}
		return list
	}
	return SchemeSource(arg)
}
