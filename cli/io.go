// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"path/filepath"

	"cogentcore.org/gltut/base/fsx"
	"cogentcore.org/gltut/config"
)

// openWithIncludes reads the config from the given config file,
// after first opening any Includes specified in it, in order and
// recursively, so that includers overwrite included settings.
// Relative include paths are relative to the including file.
// It is equivalent to [config.Open] if there are no Includes.
func openWithIncludes(cfg *config.Config, file string) error {
	return openIncludes(cfg, file, map[string]bool{})
}

func openIncludes(cfg *config.Config, file string, open map[string]bool) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if open[abs] {
		return fmt.Errorf("cli: config file %q includes itself", file)
	}
	open[abs] = true
	defer delete(open, abs)

	inc := &config.Config{}
	if err := config.Open(inc, file); err != nil {
		return err
	}
	dir := filepath.Dir(file)
	for _, in := range inc.Includes {
		p, err := fsx.ExpandPath(in)
		if err != nil {
			return err
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if err := openIncludes(cfg, p, open); err != nil {
			return fmt.Errorf("cli: opening %q included from %q: %w", in, file, err)
		}
	}
	// reopen original
	if err := config.Open(cfg, file); err != nil {
		return err
	}
	cfg.Includes = inc.Includes
	return nil
}
