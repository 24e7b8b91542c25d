package diagnox

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Catalog is the ordered list of symptom names the classifier was trained on.
// Position i of a FeatureVector always refers to Names()[i].
type Catalog struct {
	names []string
	exact map[string]int
	// keys maps symptom keys to slots; -1 marks a key shared by several columns.
	keys map[string]int
}

// NewCatalog builds a catalog from ordered column names. Duplicate names are
// kept in place and renamed with the first free numeric suffix ("name.1") so
// the width stays equal to the number of columns.
func NewCatalog(names []string) (*Catalog, error) {
	if len(names) == 0 {
		return nil, errors.New("catalog has no symptoms")
	}
	c := &Catalog{
		names: make([]string, 0, len(names)),
		exact: make(map[string]int, len(names)),
		keys:  make(map[string]int, len(names)),
	}
	seen := make(map[string]int, len(names))
	for i, raw := range names {
		name := cleanCell(raw)
		if name == "" {
			return nil, fmt.Errorf("catalog column %d has no name", i+1)
		}
		if n, dup := seen[name]; dup {
			base := name
			for {
				name = fmt.Sprintf("%s.%d", base, n)
				n++
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 1

		slot := len(c.names)
		c.exact[name] = slot
		key := SymptomKey(name)
		if _, shared := c.keys[key]; shared {
			c.keys[key] = -1
		} else {
			c.keys[key] = slot
		}
		c.names = append(c.names, name)
	}
	return c, nil
}

// Len returns the feature vector width.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Names returns a copy of the ordered symptom names.
func (c *Catalog) Names() []string {
	return cloneStrings(c.names)
}

// Index resolves a symptom name to its slot. The exact catalog spelling wins;
// otherwise the symptom key is used, unless several columns share it.
func (c *Catalog) Index(name string) (int, bool) {
	if idx, ok := c.exact[cleanCell(name)]; ok {
		return idx, true
	}
	idx, ok := c.keys[SymptomKey(name)]
	if !ok || idx < 0 {
		return 0, false
	}
	return idx, true
}

// Contains reports whether the name resolves to a catalog slot.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.Index(name)
	return ok
}

// Canonical returns the catalog spelling of a name.
func (c *Catalog) Canonical(name string) (string, bool) {
	idx, ok := c.Index(name)
	if !ok {
		return "", false
	}
	return c.names[idx], true
}

// Filter returns the names containing the substring, matched on symptom keys.
func (c *Catalog) Filter(substr string) []string {
	key := SymptomKey(substr)
	if key == "" {
		return c.Names()
	}
	var out []string
	for _, name := range c.names {
		if strings.Contains(SymptomKey(name), key) {
			out = append(out, name)
		}
	}
	return out
}

// Fingerprint hashes the ordered names. Two catalogs with the same names in a
// different order have different fingerprints.
func (c *Catalog) Fingerprint() string {
	h := sha1.New()
	for _, name := range c.names {
		_, _ = io.WriteString(h, name)
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}
