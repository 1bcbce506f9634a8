package emu

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/kirsle/configdir"

	"famicore/emu/log"
)

type Config struct {
	Log LogConfig `toml:"log"`
	Run RunConfig `toml:"run"`
	Asm AsmConfig `toml:"asm"`
}

type LogConfig struct {
	// Modules for which debug logs are enabled. "all" enables every
	// module, "no" disables logging altogether.
	Modules []string `toml:"modules"`
}

type RunConfig struct {
	Steps int    `toml:"steps"`
	Start uint16 `toml:"start"` // 0 means the program default.
	Trace string `toml:"trace"` // FILE, stdout or stderr.
}

type AsmConfig struct {
	Origin uint16 `toml:"origin"`
}

// DefaultConfig returns the configuration used when there's no config file.
func DefaultConfig() Config {
	return Config{
		Run: RunConfig{Steps: 100_000},
		Asm: AsmConfig{Origin: 0x8000},
	}
}

var ConfigDir = sync.OnceValue(func() string {
	return configdir.LocalConfig("famicore")
})

const cfgFilename = "famicore.toml"

// DefaultConfigPath is the path of the config file in the famicore config
// directory.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), cfgFilename)
}

// LoadConfig loads the configuration at path, or at DefaultConfigPath if path
// is empty. A missing default config file is not an error, defaults are
// returned instead.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			log.ModEmu.DebugZ("no config file, using defaults").String("path", path).End()
			return DefaultConfig(), nil
		}
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	if keys := md.Undecoded(); len(keys) != 0 {
		return Config{}, errors.Errorf("config %s: unknown key %q", path, keys[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}

	log.ModEmu.DebugZ("loaded config").String("path", path).End()
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Run.Steps < 0 {
		return errors.Errorf("run.steps must be positive, got %d", cfg.Run.Steps)
	}
	if _, err := cfg.Log.Mask(); err != nil {
		return err
	}
	return nil
}

// Mask returns the module mask of the configured log modules.
func (lc LogConfig) Mask() (mask log.ModuleMask, err error) {
	_, mask, err = lc.parse()
	return mask, err
}

// Apply enables the configured log modules.
func (lc LogConfig) Apply() error {
	disable, mask, err := lc.parse()
	if err != nil {
		return err
	}
	if disable {
		log.Disable()
		return nil
	}
	if mask != 0 {
		log.EnableDebugModules(mask)
	}
	return nil
}

func (lc LogConfig) parse() (disable bool, mask log.ModuleMask, err error) {
	all := false
	for _, name := range lc.Modules {
		switch name {
		case "all":
			all = true
		case "no":
			disable = true
		default:
			mod, ok := log.ModuleByName(name)
			if !ok {
				return false, 0, errors.Errorf("unknown log module %s", name)
			}
			mask |= mod.Mask()
		}
	}

	if disable {
		if all || mask != 0 {
			return false, 0, errors.New("cannot combine 'no' with other log modules")
		}
		return true, 0, nil
	}
	if all {
		mask = log.ModuleMaskAll
	}
	return false, mask, nil
}

// SaveConfig writes cfg at path, or at DefaultConfigPath if path is empty.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		if err := configdir.MakePath(ConfigDir()); err != nil {
			return errors.Wrap(err, "create config directory")
		}
		path = DefaultConfigPath()
	}

	buf, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}
