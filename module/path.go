package module

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/mung"

	"github.com/ardnew/quill/pkg"
)

// SearchPath returns the module search directories: dirs followed by the
// entries of the QUILL_PATH environment variable. Entries that are not
// existing directories are dropped, as are repeats.
func SearchPath(dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(pkg.SearchPathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	var path []string

	for _, dir := range filepath.SplitList(list) {
		if dir == "" || !isDir(dir) || slices.Contains(path, dir) {
			continue
		}

		path = append(path, dir)
	}

	return path
}

// locate returns the first regular file named rel under dirs. An absolute
// rel is checked as is.
func locate(rel string, dirs []string) (string, bool) {
	if filepath.IsAbs(rel) {
		return rel, isFile(rel)
	}

	for _, dir := range dirs {
		name := filepath.Join(dir, rel)
		if isFile(name) {
			abs, err := filepath.Abs(name)
			if err != nil {
				return name, true
			}

			return abs, true
		}
	}

	return "", false
}

func isDir(name string) bool {
	info, err := os.Stat(name)

	return err == nil && info.IsDir()
}

func isFile(name string) bool {
	info, err := os.Stat(name)

	return err == nil && info.Mode().IsRegular()
}
