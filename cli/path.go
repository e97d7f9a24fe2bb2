package cli

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/arith/pkg"
)

// baseConfig is the base name of the configuration files. Kong reads
// baseConfig+".json" and baseConfig+".yaml" from the configuration directory.
const baseConfig = "config"

const dirMode os.FileMode = 0o700

var (
	debugBinary = regexp.MustCompile(`^__debug_bin\d*$`)
	leadingDots = regexp.MustCompile(`^\.+`)
)

// appName names the configuration and cache directories: the executable's
// base name without extension or leading dots. A binary built by dlv is
// given the package name.
var appName = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if debugBinary.MatchString(name) {
		return pkg.Name
	}

	if name = leadingDots.ReplaceAllString(name, ""); name == "" {
		return pkg.Name
	}

	return name
})

// userDir returns appName under the directory found by base, falling back to
// hidden below the home directory and then to the working directory.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, appName())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	return errors.Join(
		os.MkdirAll(configDir(), dirMode),
		os.MkdirAll(cacheDir(), dirMode),
	)
}
