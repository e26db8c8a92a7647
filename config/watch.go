package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch re-reads the configuration file on change and invokes onChange
// with the freshly parsed configuration. Parse failures keep the previous
// configuration and are reported through onError.
func Watch(path string, onChange func(*Config), onError func(error)) {
	v := viper.New()
	v.SetConfigFile(path)

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := Load(path)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
