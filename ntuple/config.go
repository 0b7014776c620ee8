package ntuple

// Config configures the learning rates of the network.
type Config struct {
	Alpha          float32 `json:"alpha"`           // learning rate for game outcome labels
	BootstrapRatio float32 `json:"bootstrap_ratio"` // scales Alpha for labels taken from search statistics
}

func DefaultConf() Config {
	return Config{
		Alpha:          0.1,
		BootstrapRatio: 1.0 / 20,
	}
}

func (conf Config) IsValid() bool {
	return conf.Alpha > 0 && conf.Alpha <= 1 &&
		conf.BootstrapRatio > 0 && conf.BootstrapRatio <= 1
}

// BootstrapAlpha is the learning rate used for bootstrapped labels.
func (conf Config) BootstrapAlpha() float32 { return conf.Alpha * conf.BootstrapRatio }
