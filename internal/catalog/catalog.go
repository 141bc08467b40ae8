// Package catalog reads, merges and writes JSON translation catalogs.
//
// On disk a catalog is either flat ({"a.b": "x"}) or nested ({"a": {"b": "x"}}).
// In memory it is always flat: nested objects are joined with "." on load and
// only the flat, key-sorted form is ever written back.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// ErrMalformed is returned when a catalog file is not a JSON object.
var ErrMalformed = errors.New("malformed catalog")

// Catalog maps dotted keys to translated values.
type Catalog map[string]string

// Entry is one key/value pair in file order.
type Entry struct {
	Key   string
	Value string
}

// Keys returns the catalog keys in ascending ordinal order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromEntries builds a Catalog; later duplicates overwrite earlier values.
func FromEntries(entries []Entry) Catalog {
	c := make(Catalog, len(entries))
	for _, e := range entries {
		c[e.Key] = e.Value
	}
	return c
}

// Read parses a catalog file into flat entries, preserving file order.
// A missing file yields no entries and no error.
func Read(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse flattens catalog JSON into entries in document order.
func Parse(data []byte) ([]Entry, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top-level value is %s, want object", ErrMalformed, root.Type)
	}

	f := &flattener{pos: make(map[string]int)}
	f.walk("", root)
	return f.entries, nil
}

// Load reads a catalog, reporting but absorbing failures: a missing or
// malformed file yields an empty Catalog.
func Load(path string) Catalog {
	entries, err := Read(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Could not load catalog, treating as empty")
		return Catalog{}
	}
	return FromEntries(entries)
}

// Flatten parses nested or flat catalog JSON into a flat Catalog. Flat input
// comes back unchanged.
func Flatten(data []byte) (Catalog, error) {
	entries, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return FromEntries(entries), nil
}

type flattener struct {
	entries []Entry
	pos     map[string]int
}

func (f *flattener) walk(prefix string, node gjson.Result) {
	switch {
	case node.IsObject():
		node.ForEach(func(k, v gjson.Result) bool {
			f.visit(join(prefix, k.String()), v)
			return true
		})
	case node.IsArray():
		i := 0
		node.ForEach(func(_, v gjson.Result) bool {
			f.visit(join(prefix, strconv.Itoa(i)), v)
			i++
			return true
		})
	}
}

func (f *flattener) visit(key string, v gjson.Result) {
	if v.IsObject() || v.IsArray() {
		f.walk(key, v)
		return
	}
	f.set(key, scalar(v))
}

func (f *flattener) set(key, value string) {
	if i, ok := f.pos[key]; ok {
		f.entries[i].Value = value
		return
	}
	f.pos[key] = len(f.entries)
	f.entries = append(f.entries, Entry{Key: key, Value: value})
}

// scalar converts a JSON leaf to its string form; strings are kept verbatim.
func scalar(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.Null:
		return "null"
	default:
		return v.Raw
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Encode serializes a catalog as key-sorted JSON with 2-space indentation and
// a trailing newline.
func Encode(c Catalog) ([]byte, error) {
	if c == nil {
		c = Catalog{}
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(map[string]string(c)); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores a catalog at path, creating parent directories. It reports
// whether the file changed; identical content is not rewritten.
func Write(path string, c Catalog) (bool, error) {
	data, err := Encode(c)
	if err != nil {
		return false, err
	}
	return writeIfChanged(path, data)
}

func writeIfChanged(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("write catalog: %w", err)
	}
	return true, nil
}

// ListJSON returns the *.json files directly inside dir, sorted by name.
func ListJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// LoadPartials reads every *.json file in dir, keyed by namespace (the file
// name without extension). Malformed files are reported and skipped.
func LoadPartials(dir string) (map[string]Catalog, error) {
	files, err := ListJSON(dir)
	if err != nil {
		return nil, fmt.Errorf("list partial catalogs: %w", err)
	}

	partials := make(map[string]Catalog, len(files))
	for _, path := range files {
		entries, err := Read(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping partial catalog")
			continue
		}
		partials[strings.TrimSuffix(filepath.Base(path), ".json")] = FromEntries(entries)
	}
	return partials, nil
}
