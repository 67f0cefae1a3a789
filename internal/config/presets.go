package config

import "sort"

var Presets = map[string]func() *Config{
	// the reference run: h = 1 ns, 1e-5 relative change
	"shampoo": DefaultConfig,
	"coarse": func() *Config {
		c := DefaultConfig()
		c.Dt = 1e-8
		return c
	},
	"fine": func() *Config {
		c := DefaultConfig()
		c.Dt = 1e-10
		c.Tolerance = 1e-6
		return c
	},
	"strict": func() *Config {
		c := DefaultConfig()
		c.StopRule = "absolute"
		c.Tolerance = 1e-7
		return c
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
