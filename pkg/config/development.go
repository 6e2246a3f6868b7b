package config

func loadDevelopmentConfig(cfg *Config) {
	cfg.LibrariesFilePath = "./tmp/libraries.yaml"
}

func loadTestConfig(cfg *Config) {
	cfg.ScanWorkers = 1
}
