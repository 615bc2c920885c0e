package config

type ServerConfig struct {
	Port        int `mapstructure:"port"`
	MetricsPort int `mapstructure:"metrics_port"`
}

// SchedulerConfig holds only the bootstrap default; the live run time is
// read from the settings repository owned by the admin-config collaborator.
type SchedulerConfig struct {
	DefaultRunTime string `mapstructure:"default_run_time"`
}

func (config SchedulerConfig) validate() error {
	return nil
}
