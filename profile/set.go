// SPDX-License-Identifier: EPL-2.0

package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Set is an ordered collection of profiles with unique names.
type Set []Profile

// Defaults returns the built-in profiles.
func Defaults() Set {
	return Set{Voice, Podcast, Studio}
}

// Lookup finds a profile by name, ignoring case.
func (s Set) Lookup(name string) (Profile, error) {
	for _, p := range s {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Names lists the profile names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
	}
	return names
}

type file struct {
	Profiles []Profile `yaml:"profiles"`
}

// Parse reads a YAML document of the form
//
//	profiles:
//	  - name: broadcast
//	    sample_rate: 48000
//	    bit_depth: 16
//	    channels: 2
//	    max_file_size_mb: 50
//
// Every profile is validated and names must be unique.
func Parse(data []byte) (Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	seen := make(map[string]bool, len(f.Profiles))
	for _, p := range f.Profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProfile, p.Name)
		}
		seen[key] = true
	}
	return Set(f.Profiles), nil
}

// Load parses the profile file at path.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return Parse(data)
}
