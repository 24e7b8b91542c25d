package diagnox

// Encode converts a selection into a FeatureVector aligned to the catalog.
// Names that are not in the catalog are ignored.
func Encode(catalog *Catalog, selection []string) FeatureVector {
	vec := make(FeatureVector, catalog.Len())
	for _, name := range selection {
		if idx, ok := catalog.Index(name); ok {
			vec[idx] = 1
		}
	}
	return vec
}

// Decode lists the catalog names set in vec.
func Decode(catalog *Catalog, vec FeatureVector) []string {
	var out []string
	for i, v := range vec {
		if v != 0 && i < len(catalog.names) {
			out = append(out, catalog.names[i])
		}
	}
	return out
}
