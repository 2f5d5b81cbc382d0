package config

import "time"

type GeocodingConfig struct {
	Provider      string        `yaml:"provider"` // photon, google
	PhotonBaseURL string        `yaml:"photon_base_url"`
	GoogleAPIKey  string        `yaml:"google_api_key"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

type RoutingConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type WeatherConfig struct {
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Units    string `yaml:"units"`
	Language string `yaml:"language"`
}

type POIConfig struct {
	BaseURL             string `yaml:"base_url"`
	DefaultRadiusMeters int    `yaml:"default_radius_meters"`
}

type TripsConfig struct {
	BaseURL string `yaml:"base_url"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func loadGeocodingConfig() *GeocodingConfig {
	return &GeocodingConfig{
		Provider:      getEnv("GEOCODER_PROVIDER", "photon"),
		PhotonBaseURL: getEnv("PHOTON_BASE_URL", ""),
		GoogleAPIKey:  getEnv("GOOGLE_MAPS_API_KEY", ""),
		CacheTTL:      getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
	}
}

func loadRoutingConfig() *RoutingConfig {
	return &RoutingConfig{
		// Empty key selects the straight-line fallback mode.
		APIKey:  getEnv("ORS_API_KEY", ""),
		BaseURL: getEnv("ORS_BASE_URL", ""),
	}
}

func loadWeatherConfig() *WeatherConfig {
	return &WeatherConfig{
		APIKey:   getEnv("OPENWEATHER_API_KEY", ""),
		BaseURL:  getEnv("OPENWEATHER_BASE_URL", ""),
		Units:    getEnv("OPENWEATHER_UNITS", "metric"),
		Language: getEnv("OPENWEATHER_LANGUAGE", "en"),
	}
}

func loadPOIConfig() *POIConfig {
	return &POIConfig{
		BaseURL:             getEnv("OVERPASS_BASE_URL", ""),
		DefaultRadiusMeters: getEnvAsInt("POI_DEFAULT_RADIUS_METERS", 1000),
	}
}

func loadTripsConfig() *TripsConfig {
	return &TripsConfig{
		BaseURL: getEnv("TRIPS_BASE_URL", "http://localhost:8000"),
	}
}

func loadRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnvAsInt("REDIS_PORT", 6379),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
	}
}
