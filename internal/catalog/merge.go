package catalog

import "strings"

// DefaultNamespace groups keys that have no dotted prefix.
const DefaultNamespace = "common"

// Namespace returns the first dotted segment of key, or DefaultNamespace.
func Namespace(key string) string {
	if i := strings.IndexByte(key, '.'); i >= 0 {
		return key[:i]
	}
	return DefaultNamespace
}

// LocalKey strips the namespace prefix from key.
func LocalKey(key, namespace string) string {
	return strings.TrimPrefix(key, namespace+".")
}

// GroupByNamespace splits keys by namespace, preserving key order.
func GroupByNamespace(keys []string) map[string][]string {
	groups := make(map[string][]string)
	for _, k := range keys {
		ns := Namespace(k)
		groups[ns] = append(groups[ns], k)
	}
	return groups
}

// MergeExtractedIntoMain returns a catalog holding exactly the extracted
// keys. Existing values are kept; new keys get "". Keys no longer
// referenced by code are dropped.
func MergeExtractedIntoMain(existing Catalog, extracted []string) Catalog {
	merged := make(Catalog, len(extracted))
	for _, k := range extracted {
		merged[k] = existing[k]
	}
	return merged
}

// MergeExtractedIntoPartials returns one catalog per namespace with the
// namespace prefix stripped from keys. existing holds the current partial
// catalogs by namespace. Same keep/prune policy as MergeExtractedIntoMain.
func MergeExtractedIntoPartials(existing map[string]Catalog, extracted []string) map[string]Catalog {
	out := make(map[string]Catalog)
	for ns, keys := range GroupByNamespace(extracted) {
		local := make([]string, len(keys))
		for i, k := range keys {
			local[i] = LocalKey(k, ns)
		}
		out[ns] = MergeExtractedIntoMain(existing[ns], local)
	}
	return out
}

// MergeNamespacedPartialsIntoMain folds partial catalogs into one main
// catalog under "<namespace>.<key>". A non-empty value already in the main
// catalog wins, then a non-empty partial value, else "".
func MergeNamespacedPartialsIntoMain(partials map[string]Catalog, existingMain Catalog) Catalog {
	merged := make(Catalog)
	for ns, partial := range partials {
		for k, v := range partial {
			full := ns + "." + k
			switch {
			case !blank(existingMain[full]):
				merged[full] = existingMain[full]
			case !blank(v):
				merged[full] = v
			default:
				merged[full] = ""
			}
		}
	}
	return merged
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
