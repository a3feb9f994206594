package model

import "sort"

// NameMap implements a bidirectional mapping between a class name and an index
type NameMap struct {
	NameToIndex map[string]int
	IndexToName map[int]string
}

func NewNameMap() NameMap {
	return NameMap{
		NameToIndex: map[string]int{},
		IndexToName: map[int]string{},
	}
}

func (f NameMap) Set(name string, index int) {
	f.NameToIndex[name] = index
	f.IndexToName[index] = name
}

func (f NameMap) Size() int {
	return len(f.IndexToName)
}

func (f NameMap) ContainsName(name string) (int, bool) {
	index, ok := f.NameToIndex[name]
	return index, ok
}

// classesOf collects the distinct labels in sorted order so that class
// indexes are deterministic for a given label multiset.
func classesOf(labels []string) NameMap {
	seen := map[string]bool{}
	var names []string
	for _, label := range labels {
		if !seen[label] {
			seen[label] = true
			names = append(names, label)
		}
	}
	sort.Strings(names)
	classes := NewNameMap()
	for i, name := range names {
		classes.Set(name, i)
	}
	return classes
}

func classIndexes(classes NameMap, labels []string) ([]int, error) {
	result := make([]int, len(labels))
	for i, label := range labels {
		index, ok := classes.ContainsName(label)
		if !ok {
			return nil, errUnknownLabel(label)
		}
		result[i] = index
	}
	return result, nil
}
