package config

// LoadFromEnv builds the config from the process environment. Builds with
// the dev tag read a dotenv file first.
func LoadFromEnv() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	return Load(FromEnviron())
}
