package tags

import (
	"sort"

	"go.senan.xyz/taglib"
)

// readWithTaglib reads metadata using TagLib when dhowden/tag fails.
func readWithTaglib(path string) (*Tag, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}

	// map order is random; keep items stable across scans
	keys := make([]string, 0, len(rawTags))
	for k := range rawTags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := New()
	for _, k := range keys {
		for _, v := range rawTags[k] {
			addProperty(t, k, v)
		}
	}
	return t, nil
}
