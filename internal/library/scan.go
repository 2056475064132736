package library

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vadimtrunov/KodiMate/internal/core"
)

// seasonDirPattern matches per-season directory names inside a show folder.
var seasonDirPattern = regexp.MustCompile(`(?i)^(season[ ._-]*\d*|specials)$`)

// ShowDirectory derives a show's root directory from its episode file paths,
// for a directory-scoped library scan. Kodi stores full file paths
// (smb://host/share/Show/Season 1/ep.mkv or /mnt/tv/Show/ep.mkv); the scan
// target is the show folder, with the trailing separator Kodi expects.
func ShowDirectory(episodes []core.Episode) (string, error) {
	var file string
	for _, ep := range episodes {
		if ep.File != "" {
			file = ep.File
			break
		}
	}
	if file == "" {
		return "", fmt.Errorf("no episode file paths available to derive a scan directory")
	}

	sep := "/"
	if strings.Contains(file, `\`) && !strings.Contains(file, "/") {
		sep = `\`
	}

	i := strings.LastIndex(file, sep)
	if i < 0 {
		return "", fmt.Errorf("cannot derive scan directory from %q", file)
	}
	dir := file[:i]

	// Step over a "Season N"/"Specials" component to reach the show root,
	// so the scan picks up new seasons too.
	if base := dir[strings.LastIndex(dir, sep)+1:]; seasonDirPattern.MatchString(base) {
		dir = dir[:strings.LastIndex(dir, sep)]
	}

	if dir == "" || strings.HasSuffix(dir, ":/") || strings.HasSuffix(dir, "//") {
		return "", fmt.Errorf("cannot derive scan directory from %q", file)
	}
	return dir + sep, nil
}
