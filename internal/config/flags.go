package config

import "github.com/spf13/pflag"

// Flags are the command-line switches shared by every gunther command.
type Flags struct {
	Dev     bool
	LogPath string
	EnvFile string
	Addr    string
}

func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.Dev, "dev", false, "Development mode")
	fs.StringVar(&f.LogPath, "logPath", "", "Path to save the log file")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "Environment file loaded before reading configuration")
	fs.StringVar(&f.Addr, "addr", "0.0.0.0:8000", "Address the gateway listens on")
}
