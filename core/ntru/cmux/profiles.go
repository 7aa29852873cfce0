package cmux

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed profiles.toml
var defaultProfiles []byte

type profileFile struct {
	Profiles []ParametersLiteral `toml:"profile"`
}

// LoadProfiles decodes a list of [[profile]] tables from r.
// Each profile is validated with [NewParametersFromLiteral], and names must be unique.
func LoadProfiles(r io.Reader) ([]ParametersLiteral, error) {

	var file profileFile
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("cannot LoadProfiles: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("cannot LoadProfiles: unknown keys %s", strings.Join(keys, ", "))
	}

	names := map[string]bool{}
	for _, pl := range file.Profiles {

		if pl.Name == "" {
			return nil, fmt.Errorf("cannot LoadProfiles: profile without name")
		}

		if names[pl.Name] {
			return nil, fmt.Errorf("cannot LoadProfiles: duplicate profile %q", pl.Name)
		}
		names[pl.Name] = true

		if _, err = NewParametersFromLiteral(pl); err != nil {
			return nil, fmt.Errorf("cannot LoadProfiles: profile %q: %w", pl.Name, err)
		}
	}

	return file.Profiles, nil
}

// Profiles returns the built-in profiles: STD128B2', STD128B2 and STD128B3.
func Profiles() []ParametersLiteral {
	profiles, err := LoadProfiles(bytes.NewReader(defaultProfiles))
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return profiles
}

// GetProfile returns the built-in profile of the given name.
func GetProfile(name string) (pl ParametersLiteral, err error) {
	for _, pl = range Profiles() {
		if pl.Name == name {
			return
		}
	}
	return ParametersLiteral{}, fmt.Errorf("cannot GetProfile: unknown profile %q", name)
}
